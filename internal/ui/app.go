package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/LoadPlan/internal/app"
	"github.com/piwi3910/LoadPlan/internal/input"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
	"github.com/piwi3910/LoadPlan/internal/scene"
	"github.com/piwi3910/LoadPlan/internal/ui/widgets"
)

const maxRecentProjects = 10

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	ctrl    *app.Controller
	loop    *scene.Loop
	config  *project.ConfigStore
	theme   *LoadPlanTheme
	log     *logging.Logger
	project model.Project
	tabs    *container.AppTabs

	// UI references for dynamic updates
	form           formEntries
	backendEntry   *widget.Entry
	statusPill     *widget.Label
	statusNote     *widget.Label
	summaryLabel   *widget.Label
	actionButtons  map[app.Action]*ttwidget.Button
	prevBtn        *ttwidget.Button
	nextBtn        *ttwidget.Button
	floorContainer *fyne.Container
	shownPlan      *model.LastPlan
}

// formEntries are the input fields of the plan form, one per input.Form field.
type formEntries struct {
	containerID      *widget.SelectEntry
	containerLength  *widget.Entry
	containerWidth   *widget.Entry
	containerHeight  *widget.Entry
	containerPayload *widget.Entry

	itemID       *widget.Entry
	itemLength   *widget.Entry
	itemWidth    *widget.Entry
	itemHeight   *widget.Entry
	itemWeight   *widget.Entry
	itemQuantity *widget.Entry
	itemRotation *widget.SelectEntry
	itemFamily   *widget.Entry

	gap *widget.Entry
}

func NewApp(window fyne.Window, ctrl *app.Controller, loop *scene.Loop, config *project.ConfigStore, th *LoadPlanTheme, log *logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		window:  window,
		ctrl:    ctrl,
		loop:    loop,
		config:  config,
		theme:   th,
		log:     log.WithComponent("ui"),
		project: model.NewProject(),
	}
	ctrl.OnChange(a.refresh)
	return a
}

// Notifier returns the dialogs the controller uses to reach the user.
func Notifier(window fyne.Window) app.Notifier {
	return dialogNotifier{window: window}
}

type dialogNotifier struct {
	window fyne.Window
}

func (n dialogNotifier) Warn(message string) {
	dialog.ShowInformation("LoadPlan", message, n.window)
}

func (n dialogNotifier) Alert(title, message string) {
	dialog.ShowInformation(title, message, n.window)
}

// Downloader saves reports with d and tells the user where they went.
func Downloader(window fyne.Window, d app.Downloader) app.Downloader {
	return savedNotice{window: window, next: d}
}

type savedNotice struct {
	window fyne.Window
	next   app.Downloader
}

func (s savedNotice) Download(name string, data []byte) (string, error) {
	path, err := s.next.Download(name, data)
	if err != nil {
		return "", err
	}
	fyne.Do(func() {
		dialog.ShowInformation("Report Saved", fmt.Sprintf("Report saved to %s", path), s.window)
	})
	return path, nil
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.project = model.NewProject()
			a.setForm(input.FormFromInputs(a.project.Inputs))
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Cargo (CSV/Excel)...", func() {
			a.importCargo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Plan PDF...", func() {
			a.exportPlanPDF()
		}),
		fyne.NewMenuItem("Export Cargo Labels...", func() {
			a.exportLabels()
		}),
		fyne.NewMenuItem("Export Placements (Excel)...", func() {
			a.exportExcel()
		}),
		fyne.NewMenuItem("Export Floor Plan (DXF)...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset Form", func() {
			a.setForm(input.FormFromInputs(model.DefaultInputs()))
		}),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
	)

	// Plan Menu
	planMenu := fyne.NewMenu("Plan",
		fyne.NewMenuItem("Check Backend", a.checkHealth),
		fyne.NewMenuItem("Run", a.run),
		fyne.NewMenuItem("Optimize", a.optimize),
		fyne.NewMenuItem("Report", a.report),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Previous Run", a.previousRun),
		fyne.NewMenuItem("Next Run", a.nextRun),
	)

	// Catalog Menu
	catalogMenu := fyne.NewMenu("Catalog",
		fyne.NewMenuItem("Containers...", func() {
			a.showContainerCatalogDialog()
		}),
		fyne.NewMenuItem("Cargo Items...", func() {
			a.showItemCatalogDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Refresh from Backend", a.refreshCatalog),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu,
		editMenu,
		planMenu,
		catalogMenu,
		helpMenu,
	))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About LoadPlan",
		"LoadPlan - Container Load Planner\n\n"+
			"A desktop client for a remote container loading optimizer.\n"+
			"Enter a container and a cargo item, run the optimizer and\n"+
			"inspect the resulting plan in 3D.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	viewTab := container.NewTabItem("3D View", widgets.NewSceneView(a.loop))
	floorTab := container.NewTabItem("Floor Plan", a.buildFloorPanel())

	a.tabs = container.NewAppTabs(viewTab, floorTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	toolbar := a.buildToolbar()
	split := container.NewHSplit(a.buildFormPanel(), container.NewBorder(nil, a.buildSummaryBar(), nil, nil, a.tabs))
	split.Offset = 0.28

	a.refresh()
	return container.NewBorder(toolbar, nil, nil, nil, split)
}

// ─── Toolbar ───────────────────────────────────────────────

func (a *App) buildToolbar() fyne.CanvasObject {
	a.backendEntry = widget.NewEntry()
	a.backendEntry.SetText(a.ctrl.State().BackendURL())
	a.backendEntry.SetPlaceHolder(model.DefaultBackendURL)

	a.statusPill = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.statusNote = widget.NewLabel("")
	a.statusNote.Truncation = fyne.TextTruncateEllipsis

	a.actionButtons = map[app.Action]*ttwidget.Button{
		app.ActionHealth:   newButtonWithTooltip("", "Probe the backend URL and remember it when healthy", a.checkHealth),
		app.ActionRun:      newButtonWithTooltip("", "Simulate the form's container and item", a.run),
		app.ActionOptimize: newButtonWithTooltip("", "Optimize against the catalog container", a.optimize),
		app.ActionReport:   newButtonWithTooltip("", "Generate a PDF report of the last plan", a.report),
	}
	a.actionButtons[app.ActionRun].Importance = widget.HighImportance

	a.prevBtn = newIconButtonWithTooltip(theme.NavigateBackIcon(), "Previous run", a.previousRun)
	a.nextBtn = newIconButtonWithTooltip(theme.NavigateNextIcon(), "Next run", a.nextRun)

	left := container.NewHBox(
		widget.NewLabel("Backend"),
	)
	right := container.NewHBox(
		a.actionButtons[app.ActionHealth],
		a.statusPill,
		widget.NewSeparator(),
		a.actionButtons[app.ActionRun],
		a.actionButtons[app.ActionOptimize],
		a.actionButtons[app.ActionReport],
		widget.NewSeparator(),
		a.prevBtn,
		a.nextBtn,
	)
	return container.NewVBox(
		container.NewBorder(nil, nil, left, right, a.backendEntry),
		a.statusNote,
	)
}

// ─── Form Panel ────────────────────────────────────────────

func (a *App) buildFormPanel() fyne.CanvasObject {
	cat := a.ctrl.State().Catalog()
	f := &a.form

	f.containerID = widget.NewSelectEntry(cat.ContainerIDs())
	f.containerID.OnChanged = a.onContainerSelected
	f.containerLength = widget.NewEntry()
	f.containerWidth = widget.NewEntry()
	f.containerHeight = widget.NewEntry()
	f.containerPayload = widget.NewEntry()

	f.itemID = widget.NewEntry()
	f.itemLength = widget.NewEntry()
	f.itemWidth = widget.NewEntry()
	f.itemHeight = widget.NewEntry()
	f.itemWeight = widget.NewEntry()
	f.itemQuantity = widget.NewEntry()
	f.itemRotation = widget.NewSelectEntry([]string{string(model.RotationAll), string(model.RotationNone)})
	f.itemFamily = widget.NewEntry()

	f.gap = widget.NewEntry()

	a.setForm(input.FormFromInputs(a.project.Inputs))

	containerSection := widget.NewCard("Container", "", container.NewGridWithColumns(2,
		widget.NewLabel("ID"), f.containerID,
		widget.NewLabel("Length (mm)"), f.containerLength,
		widget.NewLabel("Width (mm)"), f.containerWidth,
		widget.NewLabel("Height (mm)"), f.containerHeight,
		widget.NewLabel("Max Payload (kg)"), f.containerPayload,
	))

	itemSection := widget.NewCard("Cargo Item", "", container.NewGridWithColumns(2,
		widget.NewLabel("ID"), f.itemID,
		widget.NewLabel("Length (mm)"), f.itemLength,
		widget.NewLabel("Width (mm)"), f.itemWidth,
		widget.NewLabel("Height (mm)"), f.itemHeight,
		widget.NewLabel("Weight (kg)"), f.itemWeight,
		widget.NewLabel("Quantity"), f.itemQuantity,
		widget.NewLabel("Rotation"), f.itemRotation,
		widget.NewLabel("Family"), f.itemFamily,
	))

	rulesSection := widget.NewCard("Rules", "", container.NewGridWithColumns(2,
		widget.NewLabel(fmt.Sprintf("Gap (mm, %d-%d)", input.MinGap, input.MaxGap)), f.gap,
	))

	return container.NewVScroll(container.NewVBox(
		containerSection,
		itemSection,
		rulesSection,
	))
}

// readForm returns the raw text of every form field.
func (a *App) readForm() input.Form {
	f := &a.form
	return input.Form{
		ContainerID:      f.containerID.Text,
		ContainerLength:  f.containerLength.Text,
		ContainerWidth:   f.containerWidth.Text,
		ContainerHeight:  f.containerHeight.Text,
		ContainerPayload: f.containerPayload.Text,
		ItemID:           f.itemID.Text,
		ItemLength:       f.itemLength.Text,
		ItemWidth:        f.itemWidth.Text,
		ItemHeight:       f.itemHeight.Text,
		ItemWeight:       f.itemWeight.Text,
		ItemQuantity:     f.itemQuantity.Text,
		ItemRotation:     f.itemRotation.Text,
		ItemFamily:       f.itemFamily.Text,
		Gap:              f.gap.Text,
	}
}

// onContainerSelected fills the container dimensions when the ID names a
// catalog container.
func (a *App) onContainerSelected(id string) {
	cat := a.ctrl.State().Catalog()
	if ct, ok := cat.FindContainer(id); ok {
		a.fillContainer(ct)
	}
}

// setForm fills every form field from in. Catalog lookups are suspended so
// the given dimensions survive.
func (a *App) setForm(in input.Form) {
	f := &a.form
	f.containerID.OnChanged = nil
	f.containerID.SetText(in.ContainerID)
	f.containerID.OnChanged = a.onContainerSelected
	f.containerLength.SetText(in.ContainerLength)
	f.containerWidth.SetText(in.ContainerWidth)
	f.containerHeight.SetText(in.ContainerHeight)
	f.containerPayload.SetText(in.ContainerPayload)
	f.itemID.SetText(in.ItemID)
	f.itemLength.SetText(in.ItemLength)
	f.itemWidth.SetText(in.ItemWidth)
	f.itemHeight.SetText(in.ItemHeight)
	f.itemWeight.SetText(in.ItemWeight)
	f.itemQuantity.SetText(in.ItemQuantity)
	f.itemRotation.SetText(in.ItemRotation)
	f.itemFamily.SetText(in.ItemFamily)
	f.gap.SetText(in.Gap)
}

// fillContainer copies a catalog container into the form.
func (a *App) fillContainer(ct model.Container) {
	in := input.Collect(a.readForm())
	in.Container = ct
	form := input.FormFromInputs(in)
	f := &a.form
	f.containerLength.SetText(form.ContainerLength)
	f.containerWidth.SetText(form.ContainerWidth)
	f.containerHeight.SetText(form.ContainerHeight)
	f.containerPayload.SetText(form.ContainerPayload)
}

// fillItem copies a catalog item into the form.
func (a *App) fillItem(it model.CargoItem) {
	in := input.Collect(a.readForm())
	in.Item = it
	form := input.FormFromInputs(in)
	f := &a.form
	f.itemID.SetText(form.ItemID)
	f.itemLength.SetText(form.ItemLength)
	f.itemWidth.SetText(form.ItemWidth)
	f.itemHeight.SetText(form.ItemHeight)
	f.itemWeight.SetText(form.ItemWeight)
	f.itemQuantity.SetText(form.ItemQuantity)
	f.itemRotation.SetText(form.ItemRotation)
	f.itemFamily.SetText(form.ItemFamily)
}

// ─── Results ───────────────────────────────────────────────

func (a *App) buildSummaryBar() fyne.CanvasObject {
	a.summaryLabel = widget.NewLabel("")
	a.summaryLabel.Wrapping = fyne.TextWrapWord
	return a.summaryLabel
}

func (a *App) buildFloorPanel() fyne.CanvasObject {
	a.floorContainer = container.NewStack(widgets.RenderFloorPlan(nil))
	return a.floorContainer
}

// refresh mirrors the controller state into the widgets. It runs on the UI
// goroutine.
func (a *App) refresh() {
	if a.summaryLabel == nil {
		return
	}
	st := a.ctrl.State()

	status := st.Status()
	a.statusPill.SetText(status.Indicator.Label())
	switch status.Indicator {
	case app.IndicatorOK:
		a.statusPill.Importance = widget.SuccessImportance
	case app.IndicatorErr:
		a.statusPill.Importance = widget.DangerImportance
	default:
		a.statusPill.Importance = widget.MediumImportance
	}
	a.statusPill.Refresh()
	a.statusNote.SetText(status.Note)

	a.summaryLabel.SetText(st.Summary())

	for action, btn := range a.actionButtons {
		state := st.Action(action)
		btn.SetText(actionLabel(action, state))
		if state == app.StatePending {
			btn.Disable()
		} else {
			btn.Enable()
		}
	}
	setEnabled(a.prevBtn, st.CanPreviousRun())
	setEnabled(a.nextBtn, st.CanNextRun())

	if plan := st.LastPlan(); plan != a.shownPlan {
		a.shownPlan = plan
		a.floorContainer.RemoveAll()
		a.floorContainer.Add(widgets.RenderFloorPlan(plan))
		a.floorContainer.Refresh()
	}
}

type enabler interface {
	Enable()
	Disable()
}

func setEnabled(w enabler, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

// actionLabels holds the idle and pending caption of each toolbar action.
var actionLabels = map[app.Action][2]string{
	app.ActionHealth:   {"Check Backend", "Checking…"},
	app.ActionRun:      {"Run", app.RunningText},
	app.ActionOptimize: {"Optimize", app.OptimizingText},
	app.ActionReport:   {"Report", "Generating…"},
}

// actionLabel returns the button caption for an action in state st.
func actionLabel(a app.Action, st app.ActionState) string {
	labels, ok := actionLabels[a]
	if !ok {
		return a.String()
	}
	if st == app.StatePending {
		return labels[1]
	}
	return labels[0]
}

// ─── Actions ───────────────────────────────────────────────

// background runs an action off the UI goroutine. Failures already reach
// the user through the controller state, so they are only logged here.
func (a *App) background(name string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			a.log.WithError(err).Debug("action finished with error", "action", name)
		}
	}()
}

func (a *App) checkHealth() {
	candidate := a.backendEntry.Text
	a.background("health", func(ctx context.Context) error {
		return a.ctrl.CheckHealth(ctx, candidate)
	})
}

func (a *App) run() {
	form := a.readForm()
	a.tabs.SelectIndex(0)
	a.background("run", func(ctx context.Context) error {
		return a.ctrl.Run(ctx, form)
	})
}

func (a *App) optimize() {
	form := a.readForm()
	a.tabs.SelectIndex(0)
	a.background("optimize", func(ctx context.Context) error {
		return a.ctrl.Optimize(ctx, form)
	})
}

func (a *App) report() {
	a.background("report", a.ctrl.Report)
}

func (a *App) previousRun() {
	go a.ctrl.PreviousRun()
}

func (a *App) nextRun() {
	go a.ctrl.NextRun()
}

func (a *App) refreshCatalog() {
	go func() {
		err := a.ctrl.RefreshCatalog(context.Background())
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to refresh catalog: %w", err), a.window)
				return
			}
			cat := a.ctrl.State().Catalog()
			a.form.containerID.SetOptions(cat.ContainerIDs())
			dialog.ShowInformation("Catalog Refreshed",
				fmt.Sprintf("%d containers and %d items in the catalog.", len(cat.Containers), len(cat.Items)), a.window)
		})
	}()
}

// ─── Projects ──────────────────────────────────────────────

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := project.WithExtension(writer.URI().Path())
		a.project.Inputs = input.Collect(a.readForm())
		a.project.LastPlan = a.ctrl.State().LastPlan()
		if err := project.Save(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberProject(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.FileExtension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		proj, err := project.Load(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.project = proj
		a.setForm(input.FormFromInputs(proj.Inputs))
		if proj.LastPlan != nil {
			plan := proj.LastPlan
			go a.ctrl.RestorePlan(plan)
		}
		a.rememberProject(path)
	}, a.window)
	d.Show()
}

func (a *App) rememberProject(path string) {
	if err := a.config.Update(func(c *model.AppConfig) {
		c.AddRecentProject(path, maxRecentProjects)
	}); err != nil {
		a.log.WithError(err).Warn("failed to record recent project")
	}
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) importCargo() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		go func() {
			rep, err := a.ctrl.ImportItems(context.Background(), path)
			fyne.Do(func() { a.handleImportReport(rep, err) })
		}()
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx", ".xlsm"}))
	d.Show()
}

func (a *App) handleImportReport(rep app.ImportReport, err error) {
	if len(rep.Warnings) > 0 {
		a.log.Info("import warnings", "warnings", rep.Warnings)
	}
	if err != nil && rep.Imported == 0 {
		msg := err.Error()
		if len(rep.Errors) > 0 {
			msg += "\n\n" + strings.Join(rep.Errors, "\n")
		}
		dialog.ShowError(fmt.Errorf("%s", msg), a.window)
		return
	}

	msg := fmt.Sprintf("Successfully imported %d cargo items.", rep.Imported)
	if len(rep.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped:\n%s",
			len(rep.Errors), strings.Join(rep.Errors, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
