package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// DXF layer names used by the floor plan.
const (
	LayerContainer  = "CONTAINER"
	LayerPlacements = "PLACEMENTS"
	LayerLabels     = "LABELS"
)

// minLabelSide is the smallest footprint side, in mm, that gets a text label.
const minLabelSide = 150.0

// ExportDXF writes a top-view floor plan: the container outline and the
// footprint of every placement, drawn with length along X and width along Y.
func ExportDXF(path string, plan *model.LastPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}
	ct := planContainer(plan)

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerContainer, color.White},
		{LayerPlacements, color.Cyan},
		{LayerLabels, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerContainer); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", LayerContainer, err)
	}
	if err := drawRect(d, 0, 0, ct.Length, ct.Width); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerPlacements); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", LayerPlacements, err)
	}
	for _, p := range plan.Result.Placements {
		if err := drawRect(d, p.X, p.Z, p.Length, p.Width); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", LayerLabels, err)
	}
	title := fmt.Sprintf("%s %.0fx%.0f", ct.ID, ct.Length, ct.Width)
	if _, err := d.Text(title, 0, -ct.Width*0.05-50, 0, 100); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	for i, p := range plan.Result.Placements {
		if p.Length < minLabelSide || p.Width < minLabelSide {
			continue
		}
		h := minSide(p) / 5
		if _, err := d.Text(placementLabel(p, i), p.X+h/2, p.Z+p.Width/2-h/2, 0, h); err != nil {
			return fmt.Errorf("failed to write label: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four lines on the current layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [5][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[i+1]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}

func minSide(p model.Placement) float64 {
	if p.Length < p.Width {
		return p.Length
	}
	return p.Width
}
