package model

import (
	"image/color"
	"math"

	"synthdet/internal/mathutil"
)

// Triangle indexes into a mesh's Verts and UVs. TI entries are -1 when the
// face has no texture coordinates.
type Triangle struct {
	VI [3]int
	TI [3]int
}

// Mesh holds geometry for one part of a model, in model-local space.
type Mesh struct {
	Name  string
	Verts []mathutil.Vec3
	UVs   [][2]float64
	Tris  []Triangle
	Color color.NRGBA // base color when no texture is bound
}

// Model is a named collection of meshes sharing one local frame.
type Model struct {
	Name   string
	Meshes []Mesh
}

// Bounds returns the local-space axis-aligned bounds over all vertices.
// An empty model reports a zero box at the origin.
func (m *Model) Bounds() (mathutil.Vec3, mathutil.Vec3) {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := 0
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Verts {
			lo = lo.Min(v)
			hi = hi.Max(v)
			n++
		}
	}
	if n == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	return lo, hi
}

// BoundCorners returns the 8 corners of the local bounds, ordered
// (-x-y-z, -x-y+z, -x+y+z, -x+y-z, +x-y-z, +x-y+z, +x+y+z, +x+y-z).
func (m *Model) BoundCorners() [8]mathutil.Vec3 {
	lo, hi := m.Bounds()
	return [8]mathutil.Vec3{
		{lo[0], lo[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{hi[0], hi[1], lo[2]},
	}
}

// TriangleCount returns the number of triangles over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Tris)
	}
	return n
}

// Transform applies r to every vertex in place.
func (m *Model) Transform(r mathutil.Mat3) {
	for mi := range m.Meshes {
		verts := m.Meshes[mi].Verts
		for vi := range verts {
			verts[vi] = r.MulVec3(verts[vi])
		}
	}
}

// Ground recenters the model so its footprint is centered on the origin
// and its lowest point rests on z = 0.
func (m *Model) Ground() {
	lo, hi := m.Bounds()
	off := mathutil.Vec3{-(lo[0] + hi[0]) / 2, -(lo[1] + hi[1]) / 2, -lo[2]}
	for mi := range m.Meshes {
		verts := m.Meshes[mi].Verts
		for vi := range verts {
			verts[vi] = verts[vi].Add(off)
		}
	}
}
