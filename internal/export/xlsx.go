package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Sheet names of the Excel export.
const (
	SheetSummary    = "Summary"
	SheetPlacements = "Placements"
	SheetNotPlaced  = "Not Placed"
)

// PlacementHeaders is the header row of the Placements sheet.
var PlacementHeaders = []interface{}{"#", "Item", "Family", "X (mm)", "Y (mm)", "Z (mm)", "L (mm)", "W (mm)", "H (mm)", "Volume (m³)"}

// ExportExcel writes the plan to an .xlsx workbook with a Summary sheet,
// a Placements sheet in loading order and, when the optimizer left cargo
// out, a Not Placed sheet.
func ExportExcel(path string, plan *model.LastPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, plan, bold); err != nil {
		return err
	}
	if err := writePlacementsSheet(f, plan.Result.Placements, bold); err != nil {
		return err
	}
	if len(plan.Result.NotPlaced) > 0 {
		if err := writeNotPlacedSheet(f, plan.Result.NotPlaced, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, plan *model.LastPlan, bold int) error {
	ct := planContainer(plan)
	res := plan.Result
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Run", plan.RunID},
		{"Container", ct.ID},
		{"Container Length (mm)", ct.Length},
		{"Container Width (mm)", ct.Width},
		{"Container Height (mm)", ct.Height},
		{"Volume Utilization (%)", res.Utilization.Volume},
		{"Weight Utilization (%)", res.Utilization.Weight},
		{"Total Weight (kg)", res.TotalWeight},
		{"Loaded", res.LoadedCount()},
		{"Not Placed", res.NotPlacedCount()},
		{"Gap (mm)", plan.Inputs.Rules.Gap},
		{"Completed", plan.CompletedAt.UTC().Format("2006-01-02 15:04:05")},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", bold); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "A", 26)
}

func writePlacementsSheet(f *excelize.File, ps []model.Placement, bold int) error {
	if _, err := f.NewSheet(SheetPlacements); err != nil {
		return fmt.Errorf("failed to create placements sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetPlacements, "A1", &PlacementHeaders); err != nil {
		return fmt.Errorf("failed to write placements header: %w", err)
	}
	if err := f.SetCellStyle(SheetPlacements, "A1", "J1", bold); err != nil {
		return fmt.Errorf("failed to style placements header: %w", err)
	}
	for i, p := range ps {
		row := []interface{}{
			i + 1, placementLabel(p, i), p.Family,
			p.X, p.Y, p.Z, p.Length, p.Width, p.Height,
			p.Volume() / 1e9,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetPlacements, cell, &row); err != nil {
			return fmt.Errorf("failed to write placement %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SheetPlacements, "B", "C", 16)
}

func writeNotPlacedSheet(f *excelize.File, ns []model.NotPlaced, bold int) error {
	if _, err := f.NewSheet(SheetNotPlaced); err != nil {
		return fmt.Errorf("failed to create not-placed sheet: %w", err)
	}
	header := []interface{}{"Item", "Quantity"}
	if err := f.SetSheetRow(SheetNotPlaced, "A1", &header); err != nil {
		return fmt.Errorf("failed to write not-placed header: %w", err)
	}
	if err := f.SetCellStyle(SheetNotPlaced, "A1", "B1", bold); err != nil {
		return fmt.Errorf("failed to style not-placed header: %w", err)
	}
	for i, n := range ns {
		row := []interface{}{n.ItemID, n.Quantity}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetNotPlaced, cell, &row); err != nil {
			return fmt.Errorf("failed to write not-placed row %d: %w", i+1, err)
		}
	}
	return nil
}
