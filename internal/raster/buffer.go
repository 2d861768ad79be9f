package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // camera-space z per pixel; larger is nearer, initialized to -inf
}

// NewFrameBuffer allocates a color buffer filled with bg and a -inf z-buffer.
func NewFrameBuffer(w, h int, bg color.NRGBA) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	pix := make([]uint8, n*4)
	for i := 0; i < n; i++ {
		pix[i*4] = bg.R
		pix[i*4+1] = bg.G
		pix[i*4+2] = bg.B
		pix[i*4+3] = bg.A
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  pix,
		ZBuf:   zbuf,
	}
}

// Image copies the color buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
