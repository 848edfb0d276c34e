// LoadPlan - Container Load Planner
//
// A cross-platform desktop client for a remote container loading
// optimizer: enter a container and a cargo item, run the optimizer and
// inspect the placement plan in 3D.
//
// Build:
//   go build -o loadplan ./cmd/loadplan
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o loadplan.exe ./cmd/loadplan
//   GOOS=darwin  GOARCH=amd64 go build -o loadplan-darwin ./cmd/loadplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/LoadPlan/internal/app"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
	"github.com/piwi3910/LoadPlan/internal/scene"
	"github.com/piwi3910/LoadPlan/internal/ui"
)

func main() {
	store, err := project.OpenConfigStore(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadplan: %v\n", err)
		os.Exit(1)
	}
	cfg := store.Config()

	log := logging.New(&logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Output: os.Stderr,
	})
	log.SetDefault()

	catalogPath := project.DefaultCatalogPath()
	cat, err := project.LoadCatalog(catalogPath)
	if err != nil {
		log.WithError(err).Warn("using the default catalog")
		cat = model.DefaultCatalog()
	}

	application := fyneapp.NewWithID("com.piwi3910.loadplan")
	th := ui.NewLoadPlanTheme(cfg.Theme)
	application.Settings().SetTheme(th)

	window := application.NewWindow("LoadPlan — Container Load Planner")

	sc := scene.New()
	loop := scene.NewLoop(sc)

	ctrl := app.NewController(app.Config{
		Store:       store,
		Scene:       sc,
		Snapshots:   loop,
		Downloader:  ui.Downloader(window, app.DirDownloader{Dir: app.DefaultDownloadDir()}),
		Notifier:    ui.Notifier(window),
		Dispatch:    fyne.DoAndWait,
		Logger:      log,
		Catalog:     cat,
		SaveCatalog: func(c model.Catalog) error { return project.SaveCatalog(catalogPath, c) },
	})

	appUI := ui.NewApp(window, ctrl, loop, store, th, log)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
