package widgets

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/scene"
)

// SceneView shows the frames of a scene loop. Dragging orbits the camera,
// shift- or right-dragging pans it and the scroll wheel zooms.
type SceneView struct {
	widget.BaseWidget

	loop   *scene.Loop
	raster *canvas.Raster
	anim   *fyne.Animation

	mu      sync.Mutex
	panning bool
}

var (
	_ fyne.Draggable    = (*SceneView)(nil)
	_ fyne.Scrollable   = (*SceneView)(nil)
	_ desktop.Mouseable = (*SceneView)(nil)
)

// NewSceneView creates a view that redraws loop on every animation frame.
func NewSceneView(loop *scene.Loop) *SceneView {
	v := &SceneView{loop: loop}
	v.raster = canvas.NewRaster(v.draw)
	v.anim = fyne.NewAnimation(time.Second, func(float32) {
		v.raster.Refresh()
	})
	v.anim.Curve = fyne.AnimationLinear
	v.anim.RepeatCount = fyne.AnimationRepeatForever
	v.ExtendBaseWidget(v)
	return v
}

func (v *SceneView) draw(w, h int) image.Image {
	v.loop.Resize(w, h)
	return v.loop.Tick()
}

// CreateRenderer starts the frame animation.
func (v *SceneView) CreateRenderer() fyne.WidgetRenderer {
	v.anim.Start()
	return &sceneViewRenderer{view: v}
}

// MinSize keeps the view usable inside a split.
func (v *SceneView) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Dragged orbits, or pans while a pan drag is active.
func (v *SceneView) Dragged(ev *fyne.DragEvent) {
	v.mu.Lock()
	panning := v.panning
	v.mu.Unlock()
	dx, dy := float64(ev.Dragged.DX), float64(ev.Dragged.DY)
	if panning {
		v.loop.Controls.Pan(dx, dy)
		return
	}
	v.loop.Controls.Rotate(dx, dy)
}

func (v *SceneView) DragEnd() {}

// Scrolled zooms in when the wheel moves up.
func (v *SceneView) Scrolled(ev *fyne.ScrollEvent) {
	v.loop.Controls.Zoom(-float64(ev.Scrolled.DY))
}

func (v *SceneView) MouseDown(ev *desktop.MouseEvent) {
	v.mu.Lock()
	v.panning = ev.Button == desktop.MouseButtonSecondary || ev.Modifier&fyne.KeyModifierShift != 0
	v.mu.Unlock()
}

func (v *SceneView) MouseUp(*desktop.MouseEvent) {
	v.mu.Lock()
	v.panning = false
	v.mu.Unlock()
}

type sceneViewRenderer struct {
	view *SceneView
}

func (r *sceneViewRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
	r.view.raster.Move(fyne.NewPos(0, 0))
}

func (r *sceneViewRenderer) MinSize() fyne.Size           { return r.view.MinSize() }
func (r *sceneViewRenderer) Refresh()                     { r.view.raster.Refresh() }
func (r *sceneViewRenderer) Destroy()                     { r.view.anim.Stop() }
func (r *sceneViewRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.view.raster} }
