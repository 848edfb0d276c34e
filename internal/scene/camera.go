package scene

import "math"

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV    float64 // Vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64

	Position Vec3
	Target   Vec3
	Up       Vec3

	// Derived by UpdateProjection and LookAt.
	focal   float64
	right   Vec3
	up      Vec3
	forward Vec3
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: Vec3{0, 0, 1},
		Up:       Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	c.LookAt(Vec3{})
	return c
}

// UpdateProjection recomputes the projection after FOV or Aspect changed.
func (c *Camera) UpdateProjection() {
	if c.Aspect <= 0 || math.IsNaN(c.Aspect) || math.IsInf(c.Aspect, 0) {
		c.Aspect = 1
	}
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
}

// LookAt points the camera at t and rebuilds its basis.
func (c *Camera) LookAt(t Vec3) {
	c.Target = t
	fwd := t.Sub(c.Position).Normalize()
	if fwd.Len() == 0 {
		fwd = Vec3{0, 0, -1}
	}
	right := fwd.Cross(c.Up).Normalize()
	if right.Len() == 0 {
		// Looking straight along Up.
		right = Vec3{1, 0, 0}
	}
	c.forward = fwd
	c.right = right
	c.up = right.Cross(fwd)
}

// Right returns the camera's screen-right direction in world space.
func (c *Camera) Right() Vec3 { return c.right }

// ScreenUp returns the camera's screen-up direction in world space.
func (c *Camera) ScreenUp() Vec3 { return c.up }

// toView converts a world point to camera space: X right, Y up and Z the
// distance in front of the camera.
func (c *Camera) toView(p Vec3) Vec3 {
	d := p.Sub(c.Position)
	return Vec3{d.Dot(c.right), d.Dot(c.up), d.Dot(c.forward)}
}

// project maps a camera-space point in front of the near plane to pixel
// coordinates on a w×h surface.
func (c *Camera) project(v Vec3, w, h int) (float64, float64) {
	ndcX := v.X * c.focal / c.Aspect / v.Z
	ndcY := v.Y * c.focal / v.Z
	return (ndcX + 1) / 2 * float64(w), (1 - ndcY) / 2 * float64(h)
}

// Project maps a world point to pixel coordinates. ok is false when the
// point lies outside the near/far range.
func (c *Camera) Project(p Vec3, w, h int) (x, y float64, ok bool) {
	v := c.toView(p)
	if v.Z < c.Near || v.Z > c.Far {
		return 0, 0, false
	}
	x, y = c.project(v, w, h)
	return x, y, true
}
