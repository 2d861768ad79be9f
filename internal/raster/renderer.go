package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"synthdet/internal/mathutil"
	"synthdet/internal/postprocess"
	"synthdet/internal/scene"
)

// ErrDegenerateFrame is returned when the camera frame has zero width or height.
var ErrDegenerateFrame = errors.New("raster: degenerate camera frame")

// DefaultBackground is the clear color behind the floor.
var DefaultBackground = color.NRGBA{R: 205, G: 215, B: 228, A: 255}

// Renderer draws a scene through its orthographic camera. Pixel (0,0) is
// the top-left of the view frame, so a point at normalized (u, v) lands at
// (u·Width, (1−v)·Height).
type Renderer struct {
	Width       int
	Height      int
	Supersample int
	Format      Format
	Light       LightConfig
	Background  color.NRGBA
}

// NewRenderer returns a renderer with default lighting and background.
func NewRenderer(width, height, supersample int, format Format) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	return &Renderer{
		Width:       width,
		Height:      height,
		Supersample: supersample,
		Format:      format,
		Light:       DefaultLightConfig(),
		Background:  DefaultBackground,
	}
}

// Render draws sc and writes the encoded image to path.
func (r *Renderer) Render(sc scene.Scene, path string) (err error) {
	img, err := r.RenderImage(sc)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("raster: close %s: %w", path, cerr)
		}
	}()

	if err := Encode(f, img, r.Format); err != nil {
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return nil
}

// RenderImage draws sc into an image of Width×Height.
func (r *Renderer) RenderImage(sc scene.Scene) (*image.NRGBA, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", r.Width, r.Height)
	}
	cam, err := sc.Camera()
	if err != nil {
		return nil, err
	}
	view, err := cam.World.Normalized().Inverse()
	if err != nil {
		return nil, fmt.Errorf("raster: camera transform: %w", err)
	}
	frame := cam.Frame
	fw := frame.Right - frame.Left
	fh := frame.Top - frame.Bottom
	if fw == 0 || fh == 0 {
		return nil, ErrDegenerateFrame
	}

	ss := max(r.Supersample, 1)
	w, h := r.Width*ss, r.Height*ss
	fb := NewFrameBuffer(w, h, r.Background)
	lc := r.Light

	for _, obj := range sc.Objects {
		if obj.Model == nil {
			continue
		}
		toCam := mathutil.Mat4Mul(view, obj.World)

		for _, mesh := range obj.Model.Meshes {
			if len(mesh.Verts) == 0 {
				continue
			}

			n := len(mesh.Verts)
			vs := &Vertices{
				PX:  make([]float64, n),
				PY:  make([]float64, n),
				PZ:  make([]float64, n),
				Cam: make([]mathutil.Vec3, n),
			}
			for i, v := range mesh.Verts {
				p := toCam.MulPoint(v)
				vs.Cam[i] = p
				vs.PX[i] = (p[0] - frame.Left) / fw * float64(w)
				vs.PY[i] = (1 - (p[1]-frame.Bottom)/fh) * float64(h)
				vs.PZ[i] = p[2]
			}

			for _, tri := range mesh.Tris {
				RasterizeTriangle(fb, vs, mesh.UVs, tri.VI, tri.TI, obj.Texture, mesh.Color, &lc)
			}
		}
	}

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, r.Width, r.Height)
	}
	return img, nil
}
