package scene

import (
	"math"
	"sync"
)

// Orbit control defaults.
const (
	DampingFactor = 0.08
	MinDistance   = 500.0
	MaxDistance   = 60000.0

	zoomScale = 0.95 // Per wheel step
	polarEps  = 1e-6
)

// Controls orbits, zooms and pans a camera around a target. Input deltas
// accumulate through Rotate, Zoom and Pan; Update applies a damped share of
// them once per frame, so the view keeps gliding after input stops.
type Controls struct {
	mu sync.Mutex

	camera *Camera

	Target        Vec3
	EnableDamping bool
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64

	viewHeight float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  Vec3
}

// NewControls attaches damped orbit controls to cam targeting the origin.
func NewControls(cam *Camera) *Controls {
	c := &Controls{
		camera:        cam,
		EnableDamping: true,
		DampingFactor: DampingFactor,
		MinDistance:   MinDistance,
		MaxDistance:   MaxDistance,
		viewHeight:    DefaultHeight,
		scale:         1,
	}
	cam.LookAt(c.Target)
	return c
}

// SetViewHeight sets the surface height pixel deltas are measured against.
func (c *Controls) SetViewHeight(h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h > 0 {
		c.viewHeight = float64(h)
	}
}

// Rotate orbits by a pointer drag of dx, dy pixels. A drag across the full
// surface height turns the view once around.
func (c *Controls) Rotate(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deltaTheta -= 2 * math.Pi * dx / c.viewHeight
	c.deltaPhi -= 2 * math.Pi * dy / c.viewHeight
}

// Zoom dollies in for negative wheel deltas and out for positive ones.
func (c *Controls) Zoom(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case delta < 0:
		c.scale *= zoomScale
	case delta > 0:
		c.scale /= zoomScale
	}
}

// Pan moves the target in the screen plane by a drag of dx, dy pixels.
func (c *Controls) Pan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset := c.camera.Position.Sub(c.Target)
	dist := offset.Len() * math.Tan(c.camera.FOV*math.Pi/360)
	left := c.camera.Right().Scale(-2 * dx * dist / c.viewHeight)
	up := c.camera.ScreenUp().Scale(2 * dy * dist / c.viewHeight)
	c.panOffset = c.panOffset.Add(left).Add(up)
}

// Distance returns the camera's distance from the target.
func (c *Controls) Distance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera.Position.Sub(c.Target).Len()
}

// Update moves the camera by the pending deltas and reports whether it moved.
func (c *Controls) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.camera.Position
	offset := before.Sub(c.Target)
	radius := offset.Len()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))
	}

	share := 1.0
	if c.EnableDamping {
		share = c.DampingFactor
	}
	theta += c.deltaTheta * share
	phi += c.deltaPhi * share
	phi = math.Max(polarEps, math.Min(math.Pi-polarEps, phi))

	radius *= c.scale
	radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, radius))

	c.Target = c.Target.Add(c.panOffset.Scale(share))

	sinPhi := math.Sin(phi)
	offset = Vec3{
		X: radius * sinPhi * math.Sin(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Cos(theta),
	}
	c.camera.Position = c.Target.Add(offset)
	c.camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Scale(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = Vec3{}
	}
	c.scale = 1

	return c.camera.Position.Sub(before).Len() > 1e-9
}
