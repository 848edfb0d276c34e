// Package export writes a computed load plan to local files: a PDF plan
// sheet, QR-coded cargo labels, an Excel workbook and a DXF floor plan.
package export

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/scene"
)

// ErrNoPlan is returned when an export is requested before any plan exists.
var ErrNoPlan = errors.New("no plan to export")

// rgb is an 8-bit color triple in the form fpdf takes it.
type rgb struct {
	R, G, B int
}

// familyColor returns the scene's color for family, so exports match the 3D view.
func familyColor(family string) rgb {
	c := scene.ColorForFamily(family).RGBA()
	return rgb{R: int(c.R), G: int(c.G), B: int(c.B)}
}

// planContainer returns the container a plan was loaded into, preferring the
// one the backend echoed back.
func planContainer(plan *model.LastPlan) model.Container {
	if c := plan.Result.Container; c != nil && c.Length > 0 && c.Width > 0 {
		out := *c
		if out.ID == "" {
			out.ID = plan.ContainerID()
		}
		return out
	}
	c := plan.Inputs.Container
	c.ID = plan.ContainerID()
	return c
}

// checkPlan rejects a missing plan or one whose container has no floor.
func checkPlan(plan *model.LastPlan) error {
	if plan == nil {
		return ErrNoPlan
	}
	c := planContainer(plan)
	if c.Length <= 0 || c.Width <= 0 {
		return fmt.Errorf("container %q has no floor area", c.ID)
	}
	return nil
}

// byFloorOrder returns the placements sorted bottom to top, so a top view
// drawn in order shows the highest box at each spot.
func byFloorOrder(ps []model.Placement) []model.Placement {
	out := append([]model.Placement(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Y+out[i].Height < out[j].Y+out[j].Height
	})
	return out
}

// families returns the distinct families present in placement order.
func families(ps []model.Placement) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range ps {
		if !seen[p.Family] {
			seen[p.Family] = true
			out = append(out, p.Family)
		}
	}
	return out
}

// placementLabel names a placement for tables and labels.
func placementLabel(p model.Placement, i int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("#%d", i+1)
}

// formatPercent renders a utilization value; non-finite values become "-".
func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v)
}
