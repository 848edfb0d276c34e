package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// ─── Local Exports ─────────────────────────────────────────

// exportName is the default file name for an export of plan.
func exportName(plan *model.LastPlan, suffix, ext string) string {
	id := plan.ContainerID()
	if id == "" {
		id = "plan"
	}
	return fmt.Sprintf("%s-%s%s", sanitizeFileName(id), suffix, ext)
}

// sanitizeFileName replaces characters that are awkward in file names.
func sanitizeFileName(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out[i] = '_'
		}
	}
	return string(out)
}

// currentPlan returns the last plan, telling the user when there is none.
func (a *App) currentPlan() *model.LastPlan {
	plan := a.ctrl.State().LastPlan()
	if plan == nil {
		dialog.ShowInformation("No plan", "Run the optimizer first before exporting.", a.window)
	}
	return plan
}

// saveExport asks for a destination and writes it with write.
func (a *App) saveExport(title, defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%s saved to %s", title, path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPlanPDF() {
	plan := a.currentPlan()
	if plan == nil {
		return
	}
	snapshot, err := a.loop.Snapshot()
	if err != nil {
		a.log.WithError(err).Debug("exporting plan without snapshot")
		snapshot = nil
	}
	a.saveExport("Plan PDF", exportName(plan, "plan", ".pdf"), func(path string) error {
		return export.ExportPDF(path, plan, snapshot)
	})
}

func (a *App) exportLabels() {
	plan := a.currentPlan()
	if plan == nil {
		return
	}
	a.saveExport("Cargo labels", exportName(plan, "labels", ".pdf"), func(path string) error {
		return export.ExportLabels(path, plan)
	})
}

func (a *App) exportExcel() {
	plan := a.currentPlan()
	if plan == nil {
		return
	}
	a.saveExport("Placements", exportName(plan, "placements", ".xlsx"), func(path string) error {
		return export.ExportExcel(path, plan)
	})
}

func (a *App) exportDXF() {
	plan := a.currentPlan()
	if plan == nil {
		return
	}
	a.saveExport("Floor plan", exportName(plan, "floor", ".dxf"), func(path string) error {
		return export.ExportDXF(path, plan)
	})
}
