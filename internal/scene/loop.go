package scene

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Loop ties a scene to its camera, controls and renderer. Every Tick
// updates the controls once and then renders, whether or not anything
// changed since the previous frame.
type Loop struct {
	Scene    *Scene
	Camera   *Camera
	Controls *Controls
	Renderer *Renderer

	mu     sync.Mutex // Serializes Tick and Resize
	frames atomic.Uint64
}

// NewLoop sets up the default camera, controls and a renderer at the
// default surface size around s.
func NewLoop(s *Scene) *Loop {
	cam := NewCamera(CameraFOV, float64(DefaultWidth)/float64(DefaultHeight), CameraNear, CameraFar)
	cam.Position = CameraStart
	controls := NewControls(cam)
	return &Loop{
		Scene:    s,
		Camera:   cam,
		Controls: controls,
		Renderer: NewRenderer(DefaultWidth, DefaultHeight),
	}
}

// Resize updates the camera aspect, the projection and the renderer surface
// in one step. Zero dimensions fall back to the defaults.
func (l *Loop) Resize(w, h int) {
	w, h = surfaceSize(w, h)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Camera.Aspect = float64(w) / float64(h)
	l.Camera.UpdateProjection()
	l.Renderer.SetSize(w, h)
	l.Controls.SetViewHeight(h)
}

// Tick advances one frame and returns it.
func (l *Loop) Tick() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Controls.Update()
	frame := l.Renderer.Render(l.Scene, l.Camera)
	l.frames.Add(1)
	return frame
}

// Frames returns the number of frames rendered so far.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Run ticks every interval until ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		l.Tick()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Snapshot encodes the latest frame as PNG.
func (l *Loop) Snapshot() ([]byte, error) { return l.Renderer.Snapshot() }

// DataURL returns the latest frame as a PNG data URL, or "".
func (l *Loop) DataURL() string { return l.Renderer.DataURL() }
