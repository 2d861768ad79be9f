package raster

import (
	"image"
	"image/color"
	"math"

	"synthdet/internal/mathutil"
)

// Vertices is a projected mesh: screen positions plus the camera-space points
// they came from (for face normals).
type Vertices struct {
	PX, PY, PZ []float64
	Cam        []mathutil.Vec3
}

// RasterizeTriangle fills one triangle with texture mapping, z-buffer,
// sRGB color space, flat lighting and ACES tone mapping.
//
// This is the hot path; the pixel loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	vs *Vertices,
	uvs [][2]float64,
	vi [3]int, ti [3]int,
	tex *image.NRGBA,
	base color.NRGBA,
	lc *LightConfig,
) {
	nv := len(vs.PX)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := vs.PX[vi[0]], vs.PY[vi[0]], vs.PZ[vi[0]]
	x1, y1, z1 := vs.PX[vi[1]], vs.PY[vi[1]], vs.PZ[vi[1]]
	x2, y2, z2 := vs.PX[vi[2]], vs.PY[vi[2]], vs.PZ[vi[2]]

	// Behind the camera plane
	if z0 >= 0 || z1 >= 0 || z2 >= 0 {
		return
	}

	nuv := len(uvs)
	hasUV := tex != nil
	for _, i := range ti {
		if i < 0 || i >= nuv {
			hasUV = false
			break
		}
	}

	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = uvs[ti[0]][0], uvs[ti[0]][1]
		u1, v1 = uvs[ti[1]][0], uvs[ti[1]][1]
		u2, v2 = uvs[ti[2]][0], uvs[ti[2]][1]
	}

	// Face normal for flat shading
	c0, c1, c2 := vs.Cam[vi[0]], vs.Cam[vi[1]], vs.Cam[vi[2]]
	normal := c1.Sub(c0).Cross(c2.Sub(c0))
	if normal.Len() < 1e-12 {
		return
	}
	shade := lc.ComputeShade(normal.Normalize())

	// Screen bounds
	w, h := fb.Width, fb.Height
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, w-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, h-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := base.R, base.G, base.B, base.A
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.Shade(cr, shade)
			fb.Color[pxIdx+1] = lc.Shade(cg, shade)
			fb.Color[pxIdx+2] = lc.Shade(cb, shade)
			fb.Color[pxIdx+3] = 255
		}
	}
}
