package scene

import "math"

// Vec3 is a point or direction in scene space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector, or the zero vector unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Lerp interpolates between a and b.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// Box is an axis-aligned box given by its min and max corners.
type Box struct {
	Min, Max Vec3
}

// BoxAt returns the box with its near corner at c spanning size.
func BoxAt(c, size Vec3) Box {
	return Box{Min: c, Max: c.Add(size)}
}

func (b Box) Size() Vec3   { return b.Max.Sub(b.Min) }
func (b Box) Center() Vec3 { return b.Min.Lerp(b.Max, 0.5) }

// Corners returns the eight corners. Bit 0 of the index selects X, bit 1 Y
// and bit 2 Z, each min when clear and max when set.
func (b Box) Corners() [8]Vec3 {
	var out [8]Vec3
	for i := range out {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		out[i] = p
	}
	return out
}

// boxEdges indexes Corners pairwise.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

type boxFace struct {
	corners [4]int
	normal  Vec3
}

// boxFaces lists the six faces with outward normals.
var boxFaces = [6]boxFace{
	{[4]int{0, 2, 6, 4}, Vec3{-1, 0, 0}},
	{[4]int{1, 5, 7, 3}, Vec3{1, 0, 0}},
	{[4]int{0, 4, 5, 1}, Vec3{0, -1, 0}},
	{[4]int{2, 3, 7, 6}, Vec3{0, 1, 0}},
	{[4]int{0, 1, 3, 2}, Vec3{0, 0, -1}},
	{[4]int{4, 6, 7, 5}, Vec3{0, 0, 1}},
}
