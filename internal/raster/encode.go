package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Format is a lossless output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat accepts "png" or "webp" (case-insensitive). Empty means png.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	}
	return "", fmt.Errorf("raster: unsupported image format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatWebP:
		// nativewebp only writes lossless VP8L.
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("raster: unsupported image format %q", f)
}
