package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config.Config()

	backendEntry := widget.NewEntry()
	backendEntry.SetText(cfg.BackendURL)
	backendEntry.SetPlaceHolder(model.DefaultBackendURL)

	tokenEntry := widget.NewPasswordEntry()
	tokenEntry.SetText(cfg.Token)
	tokenEntry.SetPlaceHolder("Bearer token (optional)")

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Backend URL", backendEntry),
		widget.NewFormItem("Access Token", tokenEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level", levelSelect),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			cfg.BackendURL = strings.TrimRight(strings.TrimSpace(backendEntry.Text), "/")
			cfg.Token = strings.TrimSpace(tokenEntry.Text)
			if err := cfg.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("invalid settings: %w", err), a.window)
				return
			}
			if err := a.config.Update(func(c *model.AppConfig) {
				c.BackendURL = cfg.BackendURL
				c.Token = cfg.Token
				c.Theme = cfg.Theme
				c.LogLevel = cfg.LogLevel
			}); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			a.applyTheme(cfg.Theme)
			a.backendEntry.SetText(a.ctrl.State().BackendURL())
			dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 320))
	d.Show()
}

// applyTheme switches the running app to the named theme variant.
func (a *App) applyTheme(name string) {
	if a.theme == nil {
		return
	}
	a.theme.SetVariantName(name)
	fyne.CurrentApp().Settings().SetTheme(a.theme)
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			st := a.ctrl.State()
			if err := project.ExportAllData(path, a.config.Config(), st.Catalog(), st.Runs()); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("loadplan-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings, catalog and run history.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.applyBackup(backup)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings, the catalog cache and the run history to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// applyBackup replaces settings, catalog and history with a backup. The
// stored token is kept since backups never carry one.
func (a *App) applyBackup(backup project.BackupData) {
	imported := backup.Config
	if err := a.config.Update(func(c *model.AppConfig) {
		token := c.Token
		*c = imported
		c.Token = token
	}); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
		return
	}
	a.applyTheme(imported.Theme)
	a.backendEntry.SetText(a.ctrl.State().BackendURL())

	runs := backup.Runs
	cat := backup.Catalog
	go func() {
		a.ctrl.ReplaceCatalog(cat)
		a.ctrl.ReplaceHistory(runs)
		fyne.Do(func() {
			a.form.containerID.SetOptions(cat.ContainerIDs())
			dialog.ShowInformation("Import Complete",
				fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
		})
	}()
}
