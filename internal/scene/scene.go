// Package scene holds the 3D load-plan scene: a persistent graph with a
// camera, lights, a floor grid, a container wireframe group and a
// placements group, plus orbit controls, a frame loop and a software
// renderer that turns the graph into images.
package scene

import "sync"

// Scene defaults.
const (
	Background Color = 0x0e1624

	CameraFOV  = 55.0
	CameraNear = 0.1
	CameraFar  = 100000.0

	GridSize        = 20000.0 // mm
	GridDivisions   = 20
	GridCenterColor = Color(0x334155)
	GridLineColor   = Color(0x1f2937)

	ContainerWireColor Color = 0x66ccff

	PlacementRoughness = 0.6
	PlacementMetalness = 0.1

	// DefaultWidth and DefaultHeight are used when a surface reports a zero size.
	DefaultWidth  = 640
	DefaultHeight = 380
)

// CameraStart is the initial camera position in mm.
var CameraStart = Vec3{8000, 6000, 9000}

// Material describes how a mesh is drawn.
type Material struct {
	Color     Color
	Wireframe bool
	Roughness float64
	Metalness float64
}

// Mesh is a box with a material.
type Mesh struct {
	Box      Box
	Material Material
}

// HemisphereLight blends between a sky and a ground color by surface
// orientation.
type HemisphereLight struct {
	Sky       Color
	Ground    Color
	Intensity float64
	Position  Vec3 // Direction towards the sky
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  Vec3
}

// Grid is a square floor grid on the XZ plane centered on the origin.
type Grid struct {
	Size        float64
	Divisions   int
	CenterColor Color
	LineColor   Color
}

// Line is a colored segment.
type Line struct {
	A, B  Vec3
	Color Color
}

// Lines expands the grid into segments. The two lines through the origin
// get CenterColor.
func (g Grid) Lines() []Line {
	if g.Divisions <= 0 {
		return nil
	}
	half := g.Size / 2
	step := g.Size / float64(g.Divisions)
	center := g.Divisions / 2
	lines := make([]Line, 0, 2*(g.Divisions+1))
	for i := 0; i <= g.Divisions; i++ {
		k := -half + float64(i)*step
		c := g.LineColor
		if g.Divisions%2 == 0 && i == center {
			c = g.CenterColor
		}
		lines = append(lines,
			Line{A: Vec3{-half, 0, k}, B: Vec3{half, 0, k}, Color: c},
			Line{A: Vec3{k, 0, -half}, B: Vec3{k, 0, half}, Color: c},
		)
	}
	return lines
}

// Scene is the persistent scene graph. The container and placements groups
// are replaced between runs; lights and grid are fixed. All methods are safe
// for concurrent use.
type Scene struct {
	mu sync.RWMutex

	Background  Color
	Hemisphere  HemisphereLight
	Directional DirectionalLight
	Grid        Grid

	container  []Mesh
	placements []Mesh
}

// New creates a scene with the default lights and grid and empty groups.
func New() *Scene {
	return &Scene{
		Background: Background,
		Hemisphere: HemisphereLight{
			Sky:       0xffffff,
			Ground:    0x444444,
			Intensity: 0.8,
			Position:  Vec3{0, 1, 0},
		},
		Directional: DirectionalLight{
			Color:     0xffffff,
			Intensity: 0.6,
			Position:  Vec3{5000, 8000, 5000},
		},
		Grid: Grid{
			Size:        GridSize,
			Divisions:   GridDivisions,
			CenterColor: GridCenterColor,
			LineColor:   GridLineColor,
		},
	}
}

// SetContainer replaces the container group with a wireframe box spanning
// the origin to (l, h, w): length along X, height along Y, width along Z.
func (s *Scene) SetContainer(l, w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = []Mesh{{
		Box:      BoxAt(Vec3{}, Vec3{l, h, w}),
		Material: Material{Color: ContainerWireColor, Wireframe: true},
	}}
}

// ClearContainer empties the container group.
func (s *Scene) ClearContainer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = nil
}

// ClearPlacements removes every placement mesh. The container group is
// left alone.
func (s *Scene) ClearPlacements() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements = nil
}

// AddPlacement adds a solid box with its near corner at (x, y, z) and
// extending l along X, h along Y and w along Z.
func (s *Scene) AddPlacement(x, y, z, l, w, h float64, c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements = append(s.placements, Mesh{
		Box: BoxAt(Vec3{x, y, z}, Vec3{l, h, w}),
		Material: Material{
			Color:     c,
			Roughness: PlacementRoughness,
			Metalness: PlacementMetalness,
		},
	})
}

// Container returns a copy of the container group.
func (s *Scene) Container() []Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mesh(nil), s.container...)
}

// Placements returns a copy of the placements group.
func (s *Scene) Placements() []Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mesh(nil), s.placements...)
}

// PlacementCount returns the number of placement meshes.
func (s *Scene) PlacementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.placements)
}

// meshes returns both groups, container first.
func (s *Scene) meshes() []Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Mesh, 0, len(s.container)+len(s.placements))
	out = append(out, s.container...)
	return append(out, s.placements...)
}
