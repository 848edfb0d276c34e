package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// LabelInfo holds the data encoded into each cargo label's QR code.
type LabelInfo struct {
	ItemID      string  `json:"item"`
	Family      string  `json:"family,omitempty"`
	Length      float64 `json:"l_mm"`
	Width       float64 `json:"w_mm"`
	Height      float64 `json:"h_mm"`
	Sequence    int     `json:"seq"` // 1-based position in the loading order
	ContainerID string  `json:"container"`
	X           float64 `json:"x_mm"`
	Y           float64 `json:"y_mm"`
	Z           float64 `json:"z_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
	swatchWidth     = 1.5  // family color bar on the left edge
)

// ExportLabels generates a PDF of QR-coded labels, one per placed box, in
// loading order. Each label carries the item id, its dimensions and its
// position in the container, with the same data as JSON in the QR code.
func ExportLabels(path string, plan *model.LastPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	labels := CollectLabelInfos(*plan)
	if len(labels) == 0 {
		return fmt.Errorf("no items placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label %d for %q: %w", label.Sequence, label.ItemID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	col := familyColor(info.Family)
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Rect(x, y, swatchWidth, labelHeight, "F")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Sequence)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + swatchWidth + labelPadding
	textW := labelWidth - swatchWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	itemLabel := info.ItemID
	if pdf.GetStringWidth(itemLabel) > textW {
		for len(itemLabel) > 0 && pdf.GetStringWidth(itemLabel+"...") > textW {
			itemLabel = itemLabel[:len(itemLabel)-1]
		}
		itemLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, itemLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Length, info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pos := fmt.Sprintf("#%d @ (%.0f, %.0f, %.0f)", info.Sequence, info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, info.ContainerID, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts one label per placement of plan.
func CollectLabelInfos(plan model.LastPlan) []LabelInfo {
	containerID := plan.ContainerID()
	var labels []LabelInfo
	for i, p := range plan.Result.Placements {
		labels = append(labels, LabelInfo{
			ItemID:      placementLabel(p, i),
			Family:      p.Family,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
			Sequence:    i + 1,
			ContainerID: containerID,
			X:           p.X,
			Y:           p.Y,
			Z:           p.Z,
		})
	}
	return labels
}
