package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	planQRSize   = 40.0
	tableRowH    = 6.0
)

// PlanSummary is the data encoded into the plan sheet's QR code.
type PlanSummary struct {
	RunID       string  `json:"run"`
	ContainerID string  `json:"container"`
	VolumePct   float64 `json:"vol"`
	WeightPct   float64 `json:"wt"`
	TotalWeight float64 `json:"totalWt"`
	Loaded      int     `json:"loaded"`
	NotPlaced   int     `json:"notPlaced"`
	CompletedAt string  `json:"at"`
}

// NewPlanSummary extracts the QR summary of plan.
func NewPlanSummary(plan model.LastPlan) PlanSummary {
	return PlanSummary{
		RunID:       plan.RunID,
		ContainerID: plan.ContainerID(),
		VolumePct:   plan.Result.Utilization.Volume,
		WeightPct:   plan.Result.Utilization.Weight,
		TotalWeight: plan.Result.TotalWeight,
		Loaded:      plan.Result.LoadedCount(),
		NotPlaced:   plan.Result.NotPlacedCount(),
		CompletedAt: plan.CompletedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ExportPDF writes an offline plan sheet: a summary page with the 3D
// snapshot and a QR code, a top-view floor plan, and the placement table.
// snapshot is a PNG and may be nil.
func ExportPDF(path string, plan *model.LastPlan, snapshot []byte) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, plan, snapshot); err != nil {
		return err
	}

	pdf.AddPage()
	renderFloorPage(pdf, plan)

	renderPlacementTable(pdf, plan.Result.Placements)

	return pdf.OutputFileAndClose(path)
}

// renderSummaryPage draws the title, utilization figures, snapshot and QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, plan *model.LastPlan, snapshot []byte) error {
	ct := planContainer(plan)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan: "+ct.ID, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Plan Statistics", "", 0, "L", false, 0, "")
	y += 9

	res := plan.Result
	summaryItems := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%s (%.0f x %.0f x %.0f mm)", ct.ID, ct.Length, ct.Width, ct.Height)},
		{"Volume Utilization", formatPercent(res.Utilization.Volume)},
		{"Weight Utilization", formatPercent(res.Utilization.Weight)},
		{"Total Weight", fmt.Sprintf("%.1f kg", res.TotalWeight)},
		{"Items Loaded", fmt.Sprintf("%d", res.LoadedCount())},
		{"Items Not Placed", fmt.Sprintf("%d", res.NotPlacedCount())},
		{"Gap", fmt.Sprintf("%.0f mm", plan.Inputs.Rules.Gap)},
		{"Completed", plan.CompletedAt.UTC().Format("2006-01-02 15:04 UTC")},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(70, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	// QR code with the plan summary, below the figures
	qrData, err := json.Marshal(NewPlanSummary(*plan))
	if err != nil {
		return fmt.Errorf("failed to marshal plan summary: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("plan_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("plan_qr", marginLeft+5, y+4, planQRSize, planQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Snapshot of the 3D view on the right half
	if len(snapshot) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		info := pdf.RegisterImageOptionsReader("snapshot", opts, bytes.NewReader(snapshot))
		if pdf.Ok() && info != nil {
			x := marginLeft + 130
			maxW := pageWidth - marginRight - x
			maxH := pageHeight - marginTop - 18 - marginBottom - 10
			w, h := info.Width(), info.Height()
			scale := math.Min(maxW/w, maxH/h)
			pdf.ImageOptions("snapshot", x, marginTop+18, w*scale, h*scale, false, opts, 0, "")
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to embed snapshot: %w", err)
		}
	}

	if len(res.NotPlaced) > 0 {
		ny := y + planQRSize + 10
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, ny)
		pdf.CellFormat(110, 7, "WARNING: Items Not Placed", "", 0, "L", false, 0, "")
		ny += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, n := range res.NotPlaced {
			if ny > pageHeight-marginBottom-8 {
				break
			}
			pdf.SetXY(marginLeft+5, ny)
			pdf.CellFormat(110, 5, fmt.Sprintf("- %s (qty: %d)", n.ItemID, n.Quantity), "", 0, "L", false, 0, "")
			ny += 5
		}
	}

	renderFooter(pdf)
	return nil
}

// renderFloorPage draws the container floor with every placement footprint,
// looking down the height axis.
func renderFloorPage(pdf *fpdf.Fpdf, plan *model.LastPlan) {
	ct := planContainer(plan)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Floor Plan: %s (%.0f x %.0f mm)", ct.ID, ct.Length, ct.Width)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/ct.Length, drawHeight/ct.Width)
	canvasW := ct.Length * scale
	canvasH := ct.Width * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(243, 244, 246)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range byFloorOrder(plan.Result.Placements) {
		col := familyColor(p.Family)
		px := offsetX + p.X*scale
		py := offsetY + p.Z*scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, p.Length*scale, p.Width*scale, "FD")
	}

	// Dimension annotations
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	lengthLabel := fmt.Sprintf("%.0f mm", ct.Length)
	lw := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lw)/2, offsetY+canvasH+1)
	pdf.CellFormat(lw, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f mm", ct.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	ww := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-ww/2, offsetY+canvasH/2-2)
	pdf.CellFormat(ww, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)

	drawFamilyLegend(pdf, plan.Result.Placements, offsetY+canvasH+7)
	renderFooter(pdf)
}

// drawFamilyLegend renders a color swatch per family below the floor plan.
func drawFamilyLegend(pdf *fpdf.Fpdf, ps []model.Placement, startY float64) {
	if len(ps) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Families:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	for _, fam := range families(ps) {
		col := familyColor(fam)
		label := fam
		if label == "" {
			label = "(none)"
		}
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > pageWidth-marginRight {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderPlacementTable lists the placements, adding pages as rows overflow.
func renderPlacementTable(pdf *fpdf.Fpdf, ps []model.Placement) {
	colWidths := []float64{15, 45, 35, 30, 30, 30, 30, 30, 22}
	headers := []string{"#", "Item", "Family", "X", "Y", "Z", "L", "W", "H"}

	var y float64
	newPage := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginLeft, marginTop)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Placements (mm)", "", 0, "L", false, 0, "")
		y = drawAreaTop

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], tableRowH, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += tableRowH
		renderFooter(pdf)
		pdf.SetFont("Helvetica", "", 9)
	}
	newPage()

	for i, p := range ps {
		if y+tableRowH > pageHeight-marginBottom-6 {
			newPage()
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			placementLabel(p, i),
			p.Family,
			fmt.Sprintf("%.0f", p.X),
			fmt.Sprintf("%.0f", p.Y),
			fmt.Sprintf("%.0f", p.Z),
			fmt.Sprintf("%.0f", p.Length),
			fmt.Sprintf("%.0f", p.Width),
			fmt.Sprintf("%.0f", p.Height),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], tableRowH, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += tableRowH
	}
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by LoadPlan - Container Load Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
