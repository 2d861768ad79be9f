package scene

import (
	"synthdet/internal/mathutil"
)

// Frame is the camera's visible rectangle in camera-local space at distance Depth
// along the view axis (-Z).
type Frame struct {
	Left, Right float64
	Bottom, Top float64
	Depth       float64
}

// Camera is an orthographic camera looking down its local -Z axis.
type Camera struct {
	Name  string
	World mathutil.Mat4
	Frame Frame
}

// NewOrthoCamera places an orthographic camera at pos with Euler XYZ rotation rot.
// orthoScale spans the larger of the two render dimensions; the other axis
// follows the resolution aspect ratio.
func NewOrthoCamera(pos, rot mathutil.Vec3, orthoScale float64, resX, resY int) Camera {
	halfW, halfH := orthoScale/2, orthoScale/2
	if resX > 0 && resY > 0 {
		if resX >= resY {
			halfH = halfW * float64(resY) / float64(resX)
		} else {
			halfW = halfH * float64(resX) / float64(resY)
		}
	}
	return Camera{
		Name:  "Camera",
		World: Pose{Position: pos, Rotation: rot}.Matrix(),
		Frame: Frame{Left: -halfW, Right: halfW, Bottom: -halfH, Top: halfH, Depth: 1},
	}
}

func (c Camera) WorldMatrix() mathutil.Mat4 { return c.World }

// ViewFrame returns the frame corners in camera-local space, ordered
// top-left, top-right, bottom-right, bottom-left.
func (c Camera) ViewFrame() [4]mathutil.Vec3 {
	f := c.Frame
	z := -f.Depth
	return [4]mathutil.Vec3{
		{f.Left, f.Top, z},
		{f.Right, f.Top, z},
		{f.Right, f.Bottom, z},
		{f.Left, f.Bottom, z},
	}
}
