package scene

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sort"
	"sync"

	"golang.org/x/image/vector"
)

// ErrNoFrame is returned by Snapshot before the first frame was rendered.
var ErrNoFrame = errors.New("scene: no frame rendered yet")

const (
	gridLineWidth = 1.0 // px
	wireLineWidth = 1.5 // px
	clipMargin    = 2.0 // px beyond the surface edge kept when clipping
)

// Renderer draws a Scene through a Camera into RGBA frames. Faces are
// Lambert shaded and painted far to near.
type Renderer struct {
	mu     sync.Mutex
	width  int
	height int
	frame  *image.RGBA
	z      *vector.Rasterizer
}

// NewRenderer creates a renderer with a w×h surface.
func NewRenderer(w, h int) *Renderer {
	r := &Renderer{z: vector.NewRasterizer(1, 1)}
	r.SetSize(w, h)
	return r
}

// surfaceSize substitutes the default for a zero or negative dimension.
func surfaceSize(w, h int) (int, int) {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// SetSize resizes the drawing surface. The next Render uses the new size.
func (r *Renderer) SetSize(w, h int) {
	w, h = surfaceSize(w, h)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = w, h
}

// Size returns the surface size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

type point struct{ x, y float64 }

// primitive is a filled screen polygon with its mean camera depth.
type primitive struct {
	poly  []point
	depth float64
	color color.RGBA
}

// Render draws one frame and keeps it as the latest frame. The returned
// image is not reused by later frames.
func (r *Renderer) Render(s *Scene, cam *Camera) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, h := r.width, r.height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.Background.RGBA()), image.Point{}, draw.Src)

	// The grid lies on the floor, under everything else.
	for _, l := range s.Grid.Lines() {
		if p, ok := lineQuad(cam, l.A, l.B, w, h, gridLineWidth); ok {
			r.fill(img, p.poly, l.Color.RGBA())
		}
	}

	light := newLighting(s)
	var prims []primitive
	for _, m := range s.meshes() {
		if m.Material.Wireframe {
			corners := m.Box.Corners()
			for _, e := range boxEdges {
				if p, ok := lineQuad(cam, corners[e[0]], corners[e[1]], w, h, wireLineWidth); ok {
					p.color = m.Material.Color.RGBA()
					prims = append(prims, p)
				}
			}
			continue
		}
		prims = append(prims, meshFaces(cam, m, light, w, h)...)
	}

	sort.SliceStable(prims, func(i, j int) bool { return prims[i].depth > prims[j].depth })
	for _, p := range prims {
		r.fill(img, p.poly, p.color)
	}

	r.frame = img
	return img
}

// Frame returns the latest rendered frame, or nil.
func (r *Renderer) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Snapshot encodes the latest frame as PNG.
func (r *Renderer) Snapshot() ([]byte, error) {
	frame := r.Frame()
	if frame == nil {
		return nil, ErrNoFrame
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the latest frame as a data:image/png;base64 URL, or an
// empty string when nothing was rendered yet.
func (r *Renderer) DataURL() string {
	b, err := r.Snapshot()
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

// fill rasterizes poly over its bounding box only.
func (r *Renderer) fill(dst *image.RGBA, poly []point, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	rect := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).
		Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}

	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	r.z.Reset(rect.Dx(), rect.Dy())
	r.z.MoveTo(float32(poly[0].x-ox), float32(poly[0].y-oy))
	for _, p := range poly[1:] {
		r.z.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	r.z.ClosePath()
	r.z.Draw(dst, rect, image.NewUniform(c), image.Point{})
}

// meshFaces projects the camera-facing faces of a solid box.
func meshFaces(cam *Camera, m Mesh, light lighting, w, h int) []primitive {
	corners := m.Box.Corners()
	out := make([]primitive, 0, 3)
	for _, f := range boxFaces {
		var center Vec3
		for _, ci := range f.corners {
			center = center.Add(corners[ci])
		}
		center = center.Scale(0.25)
		if f.normal.Dot(cam.Position.Sub(center)) <= 0 {
			continue
		}

		view := make([]Vec3, 0, 4)
		for _, ci := range f.corners {
			view = append(view, cam.toView(corners[ci]))
		}
		view = clipNear(view, cam.Near)
		if len(view) < 3 {
			continue
		}

		poly := make([]point, len(view))
		depth := 0.0
		for i, v := range view {
			x, y := cam.project(v, w, h)
			poly[i] = point{x, y}
			depth += v.Z
		}
		poly = clipRect(poly, float64(w), float64(h))
		if len(poly) < 3 {
			continue
		}
		out = append(out, primitive{
			poly:  poly,
			depth: depth / float64(len(view)),
			color: light.shade(m.Material, f.normal),
		})
	}
	return out
}

// lineQuad turns a world segment into a screen quad of the given width.
func lineQuad(cam *Camera, a, b Vec3, w, h int, width float64) (primitive, bool) {
	va, vb := cam.toView(a), cam.toView(b)
	if va.Z < cam.Near && vb.Z < cam.Near {
		return primitive{}, false
	}
	if va.Z < cam.Near {
		va = va.Lerp(vb, (cam.Near-va.Z)/(vb.Z-va.Z))
	} else if vb.Z < cam.Near {
		vb = vb.Lerp(va, (cam.Near-vb.Z)/(va.Z-vb.Z))
	}

	ax, ay := cam.project(va, w, h)
	bx, by := cam.project(vb, w, h)
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return primitive{}, false
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	poly := clipRect([]point{
		{ax + nx, ay + ny},
		{bx + nx, by + ny},
		{bx - nx, by - ny},
		{ax - nx, ay - ny},
	}, float64(w), float64(h))
	if len(poly) < 3 {
		return primitive{}, false
	}
	return primitive{poly: poly, depth: (va.Z + vb.Z) / 2}, true
}

// clipNear clips a camera-space polygon to the half-space in front of the
// near plane.
func clipNear(poly []Vec3, near float64) []Vec3 {
	out := make([]Vec3, 0, len(poly)+2)
	for i, cur := range poly {
		next := poly[(i+1)%len(poly)]
		curIn, nextIn := cur.Z >= near, next.Z >= near
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			out = append(out, cur.Lerp(next, (near-cur.Z)/(next.Z-cur.Z)))
		}
	}
	return out
}

// clipRect clips a screen polygon to the surface plus a small margin so the
// rasterizer never sees far out-of-range coordinates.
func clipRect(poly []point, w, h float64) []point {
	edges := []func(point) float64{
		func(p point) float64 { return p.x + clipMargin },
		func(p point) float64 { return w + clipMargin - p.x },
		func(p point) float64 { return p.y + clipMargin },
		func(p point) float64 { return h + clipMargin - p.y },
	}
	for _, dist := range edges {
		if len(poly) == 0 {
			return nil
		}
		poly = clipEdge(poly, dist)
	}
	return poly
}

// clipEdge keeps the part of poly where dist is non-negative.
func clipEdge(poly []point, dist func(point) float64) []point {
	out := make([]point, 0, len(poly)+2)
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, point{a.x + (b.x-a.x)*t, a.y + (b.y-a.y)*t})
		}
	}
	return out
}

// lighting is the scene's lights reduced to what shading needs.
type lighting struct {
	sky, ground [3]float64
	hemi        float64
	hemiDir     Vec3
	dir         [3]float64
	dirI        float64
	dirVec      Vec3
}

func newLighting(s *Scene) lighting {
	return lighting{
		sky:     s.Hemisphere.Sky.unit(),
		ground:  s.Hemisphere.Ground.unit(),
		hemi:    s.Hemisphere.Intensity,
		hemiDir: s.Hemisphere.Position.Normalize(),
		dir:     s.Directional.Color.unit(),
		dirI:    s.Directional.Intensity,
		dirVec:  s.Directional.Position.Normalize(),
	}
}

// shade returns the lit color of a face with normal n. Metalness takes away
// from the diffuse part.
func (l lighting) shade(m Material, n Vec3) color.RGBA {
	t := 0.5*n.Dot(l.hemiDir) + 0.5
	ndotl := math.Max(0, n.Dot(l.dirVec))
	diffuse := 1 - m.Metalness
	var f [3]float64
	for i := range f {
		hemi := (l.ground[i] + (l.sky[i]-l.ground[i])*t) * l.hemi
		f[i] = (hemi + l.dir[i]*l.dirI*ndotl) * diffuse
	}
	return m.Color.shade(f)
}
