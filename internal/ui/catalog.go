package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// ─── Container Catalog Dialog ──────────────────────────────

func (a *App) showContainerCatalogDialog() {
	list := container.NewVBox()
	var refreshList func()
	var d dialog.Dialog

	refreshList = func() {
		list.RemoveAll()

		cat := a.ctrl.State().Catalog()
		if len(cat.Containers) == 0 {
			list.Add(widget.NewLabel("No containers in the catalog."))
			return
		}

		list.Add(container.NewGridWithColumns(6,
			boldLabel("ID"),
			boldLabel("Length"),
			boldLabel("Width"),
			boldLabel("Height"),
			boldLabel("Payload"),
			boldLabel(""),
		))
		list.Add(widget.NewSeparator())

		for _, ct := range cat.Containers {
			ct := ct
			list.Add(container.NewGridWithColumns(6,
				widget.NewLabel(ct.ID),
				widget.NewLabel(fmt.Sprintf("%.0f mm", ct.Length)),
				widget.NewLabel(fmt.Sprintf("%.0f mm", ct.Width)),
				widget.NewLabel(fmt.Sprintf("%.0f mm", ct.Height)),
				widget.NewLabel(fmt.Sprintf("%.0f kg", ct.MaxPayload)),
				widget.NewButtonWithIcon("Use", theme.ConfirmIcon(), func() {
					a.form.containerID.SetText(ct.ID)
					a.fillContainer(ct)
					d.Hide()
				}),
			))
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Container", theme.ContentAddIcon(), func() {
		a.showAddContainerDialog(refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importCatalog(refreshList)
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportCatalog()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d = dialog.NewCustom("Container Catalog", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

func (a *App) showAddContainerDialog(onDone func()) {
	current := a.readForm()

	idEntry := widget.NewEntry()
	idEntry.SetPlaceHolder("Container ID")
	idEntry.SetText(current.ContainerID)

	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(current.ContainerLength)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(current.ContainerWidth)

	heightEntry := widget.NewEntry()
	heightEntry.SetText(current.ContainerHeight)

	payloadEntry := widget.NewEntry()
	payloadEntry.SetText(current.ContainerPayload)

	form := dialog.NewForm("Add Container", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("ID", idEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Height (mm)", heightEntry),
			widget.NewFormItem("Max Payload (kg)", payloadEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, _ := strconv.ParseFloat(lengthEntry.Text, 64)
			width, _ := strconv.ParseFloat(widthEntry.Text, 64)
			height, _ := strconv.ParseFloat(heightEntry.Text, 64)
			payload, _ := strconv.ParseFloat(payloadEntry.Text, 64)

			ct := model.Container{
				ID:         strings.TrimSpace(idEntry.Text),
				Length:     length,
				Width:      width,
				Height:     height,
				MaxPayload: payload,
			}
			if err := ct.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("invalid container: %w", err), a.window)
				return
			}
			go func() {
				err := a.ctrl.SaveContainer(context.Background(), ct)
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(fmt.Errorf("failed to save container: %w", err), a.window)
						return
					}
					cat := a.ctrl.State().Catalog()
					a.form.containerID.SetOptions(cat.ContainerIDs())
					onDone()
				})
			}()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 360))
	form.Show()
}

// ─── Item Catalog Dialog ───────────────────────────────────

func (a *App) showItemCatalogDialog() {
	list := container.NewVBox()
	var refreshList func()
	var d dialog.Dialog

	refreshList = func() {
		list.RemoveAll()

		cat := a.ctrl.State().Catalog()
		if len(cat.Items) == 0 {
			list.Add(widget.NewLabel("No cargo items in the catalog."))
			return
		}

		list.Add(container.NewGridWithColumns(7,
			boldLabel("ID"),
			boldLabel("L x W x H"),
			boldLabel("Weight"),
			boldLabel("Qty"),
			boldLabel("Rotation"),
			boldLabel("Family"),
			boldLabel(""),
		))
		list.Add(widget.NewSeparator())

		for _, it := range cat.Items {
			it := it
			family := it.Family
			if family == "" {
				family = "-"
			}
			list.Add(container.NewGridWithColumns(7,
				widget.NewLabel(it.ID),
				widget.NewLabel(fmt.Sprintf("%.0f x %.0f x %.0f", it.Length, it.Width, it.Height)),
				widget.NewLabel(fmt.Sprintf("%.1f kg", it.Weight)),
				widget.NewLabel(strconv.Itoa(it.Quantity)),
				widget.NewLabel(it.Rotation.String()),
				widget.NewLabel(family),
				widget.NewButtonWithIcon("Use", theme.ConfirmIcon(), func() {
					a.fillItem(it)
					d.Hide()
				}),
			))
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Item", theme.ContentAddIcon(), func() {
		a.showAddItemDialog(refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import Cargo...", theme.FolderOpenIcon(), func() {
		a.importCargo()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d = dialog.NewCustom("Cargo Item Catalog", "Close", content, a.window)
	d.Resize(fyne.NewSize(760, 500))
	d.Show()
}

func (a *App) showAddItemDialog(onDone func()) {
	current := a.readForm()

	idEntry := widget.NewEntry()
	idEntry.SetPlaceHolder("Item ID")
	idEntry.SetText(current.ItemID)

	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(current.ItemLength)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(current.ItemWidth)

	heightEntry := widget.NewEntry()
	heightEntry.SetText(current.ItemHeight)

	weightEntry := widget.NewEntry()
	weightEntry.SetText(current.ItemWeight)

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(current.ItemQuantity)

	rotationSelect := widget.NewSelectEntry([]string{string(model.RotationAll), string(model.RotationNone)})
	rotationSelect.SetText(current.ItemRotation)

	familyEntry := widget.NewEntry()
	familyEntry.SetText(current.ItemFamily)

	stackCheck := widget.NewCheck("", nil)
	stackCheck.SetChecked(true)

	form := dialog.NewForm("Add Cargo Item", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("ID", idEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Height (mm)", heightEntry),
			widget.NewFormItem("Weight (kg)", weightEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Rotation", rotationSelect),
			widget.NewFormItem("Family", familyEntry),
			widget.NewFormItem("Stackable", stackCheck),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, _ := strconv.ParseFloat(lengthEntry.Text, 64)
			width, _ := strconv.ParseFloat(widthEntry.Text, 64)
			height, _ := strconv.ParseFloat(heightEntry.Text, 64)
			weight, _ := strconv.ParseFloat(weightEntry.Text, 64)
			qty, _ := strconv.Atoi(strings.TrimSpace(qtyEntry.Text))

			it := model.CargoItem{
				ID:        strings.TrimSpace(idEntry.Text),
				Length:    length,
				Width:     width,
				Height:    height,
				Weight:    weight,
				Quantity:  qty,
				Rotation:  model.Rotation(strings.TrimSpace(rotationSelect.Text)),
				Family:    strings.TrimSpace(familyEntry.Text),
				Stackable: stackCheck.Checked,
			}
			if err := it.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("invalid cargo item: %w", err), a.window)
				return
			}
			go func() {
				err := a.ctrl.SaveItem(context.Background(), it)
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(fmt.Errorf("failed to save cargo item: %w", err), a.window)
						return
					}
					onDone()
				})
			}()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 500))
	form.Show()
}

// ─── Catalog Files ─────────────────────────────────────────

func (a *App) importCatalog(onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		merged, err := project.ImportCatalog(reader.URI().Path(), a.ctrl.State().Catalog())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import catalog: %w", err), a.window)
			return
		}
		go func() {
			a.ctrl.ReplaceCatalog(merged)
			fyne.Do(func() {
				a.form.containerID.SetOptions(merged.ContainerIDs())
				onDone()
			})
		}()
	}, a.window)
	d.Show()
}

func (a *App) exportCatalog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveCatalog(path, a.ctrl.State().Catalog()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Catalog saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("loadplan-catalog.json")
	d.Show()
}
