package model

import (
	"image/color"

	"synthdet/internal/mathutil"
)

// Chair dimensions in scene units (meters). The origin sits on the floor
// under the seat center, so a pose with z = 0 stands the chair on the floor.
const (
	seatSize      = 0.46
	seatHeight    = 0.45
	seatThickness = 0.04
	legSize       = 0.04
	backHeight    = 0.50
	backThickness = 0.04
)

var (
	woodColor  = color.NRGBA{R: 139, G: 94, B: 60, A: 255}
	seatColor  = color.NRGBA{R: 122, G: 40, B: 36, A: 255}
	floorColor = color.NRGBA{R: 178, G: 178, B: 170, A: 255}
)

// Chair builds a four-legged chair with a seat and a backrest.
func Chair() *Model {
	h := seatSize / 2
	legTop := seatHeight - seatThickness

	m := &Model{Name: "Chair"}
	m.Meshes = append(m.Meshes, Box("seat",
		mathutil.Vec3{-h, -h, legTop}, mathutil.Vec3{h, h, seatHeight}, seatColor))

	legs := []struct {
		name string
		x, y float64
	}{
		{"leg_fl", -h, -h},
		{"leg_fr", h - legSize, -h},
		{"leg_bl", -h, h - legSize},
		{"leg_br", h - legSize, h - legSize},
	}
	for _, l := range legs {
		m.Meshes = append(m.Meshes, Box(l.name,
			mathutil.Vec3{l.x, l.y, 0}, mathutil.Vec3{l.x + legSize, l.y + legSize, legTop}, woodColor))
	}

	m.Meshes = append(m.Meshes, Box("back",
		mathutil.Vec3{-h, h - backThickness, seatHeight}, mathutil.Vec3{h, h, seatHeight + backHeight}, woodColor))
	return m
}

// Floor builds a flat square of the given half size on the z = 0 plane.
func Floor(half float64) *Model {
	return &Model{
		Name: "Floor",
		Meshes: []Mesh{{
			Name: "floor",
			Verts: []mathutil.Vec3{
				{-half, -half, 0}, {half, -half, 0}, {half, half, 0}, {-half, half, 0},
			},
			UVs: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Tris: []Triangle{
				{VI: [3]int{0, 1, 2}, TI: [3]int{0, 1, 2}},
				{VI: [3]int{0, 2, 3}, TI: [3]int{0, 2, 3}},
			},
			Color: floorColor,
		}},
	}
}

// Box builds an axis-aligned cuboid between lo and hi with per-face UVs.
func Box(name string, lo, hi mathutil.Vec3, c color.NRGBA) Mesh {
	mesh := Mesh{Name: name, Color: c}
	faces := [6][4]mathutil.Vec3{
		{{lo[0], lo[1], lo[2]}, {lo[0], hi[1], lo[2]}, {hi[0], hi[1], lo[2]}, {hi[0], lo[1], lo[2]}}, // -z
		{{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]}}, // +z
		{{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], lo[1], hi[2]}, {lo[0], lo[1], hi[2]}}, // -y
		{{hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]}, {lo[0], hi[1], hi[2]}, {hi[0], hi[1], hi[2]}}, // +y
		{{lo[0], hi[1], lo[2]}, {lo[0], lo[1], lo[2]}, {lo[0], lo[1], hi[2]}, {lo[0], hi[1], hi[2]}}, // -x
		{{hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {hi[0], hi[1], hi[2]}, {hi[0], lo[1], hi[2]}}, // +x
	}
	mesh.UVs = [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, f := range faces {
		base := len(mesh.Verts)
		mesh.Verts = append(mesh.Verts, f[0], f[1], f[2], f[3])
		mesh.Tris = append(mesh.Tris,
			Triangle{VI: [3]int{base, base + 1, base + 2}, TI: [3]int{0, 1, 2}},
			Triangle{VI: [3]int{base, base + 2, base + 3}, TI: [3]int{0, 2, 3}},
		)
	}
	return mesh
}
