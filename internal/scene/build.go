package scene

import (
	"fmt"
	"math"

	"synthdet/internal/mathutil"
	"synthdet/internal/model"
	"synthdet/internal/texture"
)

// floorMargin pads the floor beyond the sampling region so chairs near the
// edge still stand on it.
const floorMargin = 2.0

// Options describes the single scene layout.
type Options struct {
	TargetName  string
	ModelPath   string // empty uses the built-in chair
	ModelYUp    bool
	TexturePath string
	HalfExtent  float64

	CameraPosition mathutil.Vec3
	CameraRotation mathutil.Vec3
	OrthoScale     float64
	ResolutionX    int
	ResolutionY    int
}

// Build assembles the floor, the target object and the camera.
func Build(opts Options) (Scene, error) {
	target := model.Chair()
	if opts.ModelPath != "" {
		m, err := model.LoadOBJ(opts.ModelPath)
		if err != nil {
			return Scene{}, fmt.Errorf("scene: load model: %w", err)
		}
		if opts.ModelYUp {
			m.Transform(mathutil.RotX(math.Pi / 2))
		}
		m.Ground()
		target = m
	}

	obj := Object{Name: opts.TargetName, Model: target, World: mathutil.Mat4Identity()}
	if opts.TexturePath != "" {
		tex, err := texture.Load(opts.TexturePath)
		if err != nil {
			return Scene{}, fmt.Errorf("scene: load texture: %w", err)
		}
		obj.Texture = tex
	}

	floor := Object{
		Name:  "Floor",
		Model: model.Floor(math.Max(opts.HalfExtent, 0) + floorMargin),
		World: mathutil.Mat4Identity(),
	}
	cam := NewOrthoCamera(opts.CameraPosition, opts.CameraRotation, opts.OrthoScale, opts.ResolutionX, opts.ResolutionY)

	return Scene{Objects: []Object{floor, obj}, Cam: &cam}, nil
}
