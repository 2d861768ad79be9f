// Package projection maps an object's 3D bounds into normalized camera-view
// coordinates and decides whether the result is visible.
//
// Normalized coordinates place the camera's view frame at [0,1]×[0,1]:
// u runs left to right and v runs bottom to top.
package projection

import (
	"math"

	"synthdet/internal/mathutil"
)

// Camera is the geometry the projector needs from a camera.
type Camera interface {
	WorldMatrix() mathutil.Mat4
	// ViewFrame returns the frame corners in camera-local space ordered
	// top-left, top-right, bottom-right, bottom-left.
	ViewFrame() [4]mathutil.Vec3
}

// Bounded is the geometry the projector needs from an object.
type Bounded interface {
	WorldMatrix() mathutil.Mat4
	BoundCorners() [8]mathutil.Vec3
}

// Fallback is returned for cameras whose frame has zero width or height.
var Fallback = mathutil.Vec3{0.5, 0.5, 0}

// WorldToCameraView projects a world-space point to (u, v, depth). Depth is
// the distance in front of the camera along its view axis.
func WorldToCameraView(cam Camera, co mathutil.Vec3) mathutil.Vec3 {
	inv, err := cam.WorldMatrix().Normalized().Inverse()
	if err != nil {
		return Fallback
	}
	local := inv.MulPoint(co)

	frame := cam.ViewFrame()
	left := frame[0][0]
	right := frame[1][0]
	bottom := frame[2][1]
	top := frame[0][1]

	width := right - left
	height := top - bottom
	if width == 0 || height == 0 {
		return Fallback
	}

	return mathutil.Vec3{
		(local[0] - left) / width,
		(local[1] - bottom) / height,
		-local[2],
	}
}

// Box2D is an axis-aligned box in normalized camera-view coordinates.
type Box2D struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// BoxFromExtents builds a box from its min and max corners.
func BoxFromExtents(minX, minY, maxX, maxY float64) Box2D {
	return Box2D{
		CenterX: (minX + maxX) / 2,
		CenterY: (minY + maxY) / 2,
		Width:   maxX - minX,
		Height:  maxY - minY,
	}
}

// Min returns the lower-left corner.
func (b Box2D) Min() (float64, float64) {
	return b.CenterX - b.Width/2, b.CenterY - b.Height/2
}

// Max returns the upper-right corner.
func (b Box2D) Max() (float64, float64) {
	return b.CenterX + b.Width/2, b.CenterY + b.Height/2
}

// Projection is the 2D footprint of an object. Raw is the unclamped box;
// Clamped has both extents clamped into [0,1] per axis.
type Projection struct {
	Raw     Box2D
	Clamped Box2D
}

// Project transforms the object's bound corners to world space, projects
// each one and takes the per-axis min and max.
func Project(obj Bounded, cam Camera) Projection {
	world := obj.WorldMatrix()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range obj.BoundCorners() {
		p := WorldToCameraView(cam, world.MulPoint(corner))
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	return Projection{
		Raw:     BoxFromExtents(minX, minY, maxX, maxY),
		Clamped: BoxFromExtents(clamp01(minX), clamp01(minY), clamp01(maxX), clamp01(maxY)),
	}
}

// BoundingBox2D returns the clamped normalized bounding box of obj as seen by cam.
func BoundingBox2D(obj Bounded, cam Camera) Box2D {
	return Project(obj, cam).Clamped
}

// InView reports whether b overlaps the unit square on both axes.
func InView(b Box2D) bool {
	minX, minY := b.Min()
	maxX, maxY := b.Max()
	if maxX < 0 || minX > 1 {
		return false
	}
	if maxY < 0 || minY > 1 {
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
