package widgets

import (
	"fmt"
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/scene"
)

// FloorCanvas draws the top view of a plan: the container floor with the
// footprint of every placement, colored by family.
type FloorCanvas struct {
	widget.BaseWidget
	plan      model.LastPlan
	maxWidth  float32
	maxHeight float32
}

func NewFloorCanvas(plan model.LastPlan, maxW, maxH float32) *FloorCanvas {
	fc := &FloorCanvas{
		plan:      plan,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	fc.ExtendBaseWidget(fc)
	return fc
}

func (fc *FloorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newFloorCanvasRenderer(fc)
}

// floor returns the container floor length and width in mm, preferring the
// container the backend echoed.
func (fc *FloorCanvas) floor() (float32, float32) {
	c := fc.plan.Inputs.Container
	if e := fc.plan.Result.Container; e != nil && e.Length > 0 && e.Width > 0 {
		c = *e
	}
	return float32(c.Length), float32(c.Width)
}

func (fc *FloorCanvas) scale() float32 {
	l, w := fc.floor()
	if l <= 0 || w <= 0 {
		return 0
	}
	s := fc.maxWidth / l
	if sy := fc.maxHeight / w; sy < s {
		s = sy
	}
	return s
}

type floorCanvasRenderer struct {
	fc      *FloorCanvas
	objects []fyne.CanvasObject
}

func newFloorCanvasRenderer(fc *FloorCanvas) *floorCanvasRenderer {
	r := &floorCanvasRenderer{fc: fc}
	r.rebuild()
	return r
}

func (r *floorCanvasRenderer) rebuild() {
	r.objects = nil

	scale := r.fc.scale()
	if scale == 0 {
		return
	}
	floorL, floorW := r.fc.floor()
	canvasW := floorL * scale
	canvasH := floorW * scale

	bg := canvas.NewRectangle(color.NRGBA{R: 229, G: 231, B: 235, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	// Lowest first, so the top of each stack ends up visible.
	placements := append([]model.Placement(nil), r.fc.plan.Result.Placements...)
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Y+placements[i].Height < placements[j].Y+placements[j].Height
	})

	for _, p := range placements {
		c := scene.ColorForFamily(familyOf(p, r.fc.plan)).RGBA()
		pw := float32(p.Length) * scale
		ph := float32(p.Width) * scale
		px := float32(p.X) * scale
		py := float32(p.Z) * scale

		rect := canvas.NewRectangle(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 220})
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, rect)

		edge := canvas.NewRectangle(color.Transparent)
		edge.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		edge.StrokeWidth = 1
		edge.Resize(fyne.NewSize(pw, ph))
		edge.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, edge)

		if pw > 40 && ph > 16 && p.ID != "" {
			label := canvas.NewText(p.ID, color.Black)
			label.TextSize = 9
			label.Move(fyne.NewPos(px+2, py+1))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *floorCanvasRenderer) Layout(size fyne.Size)        {}
func (r *floorCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *floorCanvasRenderer) Destroy()                     {}
func (r *floorCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *floorCanvasRenderer) MinSize() fyne.Size {
	l, w := r.fc.floor()
	s := r.fc.scale()
	return fyne.NewSize(l*s, w*s)
}

// familyOf returns the family a placement is drawn with, falling back to
// the submitted item's family.
func familyOf(p model.Placement, plan model.LastPlan) string {
	if p.Family != "" {
		return p.Family
	}
	return plan.Inputs.Item.Family
}

// RenderFloorPlan creates a scrollable top view of plan with its statistics.
func RenderFloorPlan(plan *model.LastPlan) fyne.CanvasObject {
	if plan == nil || len(plan.Result.Placements) == 0 {
		return widget.NewLabel("No plan yet. Fill in the container and cargo, then click Run.")
	}

	header := widget.NewLabel(fmt.Sprintf(
		"Container %s: %d placed, %.1f%% volume, %.1f%% weight",
		plan.ContainerID(), plan.Result.LoadedCount(),
		plan.Result.Utilization.Volume, plan.Result.Utilization.Weight,
	))
	header.TextStyle = fyne.TextStyle{Bold: true}

	items := []fyne.CanvasObject{header, NewFloorCanvas(*plan, 720, 320), widget.NewSeparator()}

	if n := plan.Result.NotPlacedCount(); n > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d items could not be placed.", n,
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	if lines := buildFamilyBreakdown(*plan); len(lines) > 1 {
		breakdownHeader := widget.NewLabel("Family Breakdown:")
		breakdownHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, breakdownHeader)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	return container.NewVScroll(container.NewVBox(items...))
}

// buildFamilyBreakdown generates per-family statistics lines: placement
// count and share of the container volume, in first-seen order.
func buildFamilyBreakdown(plan model.LastPlan) []string {
	type familyStats struct {
		count  int
		volume float64
	}

	var order []string
	stats := make(map[string]*familyStats)
	for _, p := range plan.Result.Placements {
		f := familyOf(p, plan)
		if _, ok := stats[f]; !ok {
			order = append(order, f)
			stats[f] = &familyStats{}
		}
		stats[f].count++
		stats[f].volume += p.Volume()
	}

	c := plan.Inputs.Container
	if e := plan.Result.Container; e != nil && e.Volume() > 0 {
		c = *e
	}
	total := c.Volume()

	lines := make([]string, 0, len(order))
	for _, f := range order {
		s := stats[f]
		share := 0.0
		if total > 0 {
			share = s.volume / total * 100
		}
		name := f
		if name == "" {
			name = "(none)"
		}
		lines = append(lines, fmt.Sprintf("  %s: %d placed, %.1f%% of volume", name, s.count, share))
	}
	return lines
}
