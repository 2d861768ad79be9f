package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"synthdet/internal/projection"
	"synthdet/internal/sampler"
	"synthdet/internal/scene"
)

// DefaultMaxAttempts bounds pose sampling per image.
const DefaultMaxAttempts = 1000

// ErrVisibilitySamplingExhausted matches any *VisibilitySamplingExhaustedError.
var ErrVisibilitySamplingExhausted = errors.New("dataset: visibility sampling exhausted")

// VisibilitySamplingExhaustedError reports that no sampled pose put the
// target in view within the attempt cap. This usually means the sampling
// region and the camera frame barely overlap.
type VisibilitySamplingExhaustedError struct {
	Index    int
	Attempts int
}

func (e *VisibilitySamplingExhaustedError) Error() string {
	return fmt.Sprintf("dataset: image %d: no visible pose after %d attempts; check half_extent and camera placement",
		e.Index, e.Attempts)
}

func (e *VisibilitySamplingExhaustedError) Is(target error) bool {
	return target == ErrVisibilitySamplingExhausted
}

// Renderer renders the current scene to an image file.
type Renderer interface {
	Render(sc scene.Scene, path string) error
}

// Result records one accepted image.
type Result struct {
	Index    int              `json:"index"`
	Image    string           `json:"image"`
	Label    string           `json:"label"`
	Attempts int              `json:"attempts"`
	Pose     scene.Pose       `json:"pose"`
	Box      projection.Box2D `json:"box"`
}

// Generator runs the sample → project → render → label cycle.
type Generator struct {
	Layout      Layout
	Sampler     sampler.Sampler
	Renderer    Renderer
	Log         zerolog.Logger
	ClassID     int
	MaxAttempts int    // <= 0 uses DefaultMaxAttempts
	ImageExt    string // "png" when empty
}

// Run produces n images of the object named target. It stops at the first
// error and returns the results accepted so far.
func (g *Generator) Run(sc scene.Scene, target string, n int) ([]Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("dataset: image count must be positive, got %d", n)
	}
	obj, err := sc.Object(target)
	if err != nil {
		return nil, err
	}
	cam, err := sc.Camera()
	if err != nil {
		return nil, err
	}

	ext := g.ImageExt
	if ext == "" {
		ext = "png"
	}

	results := make([]Result, 0, n)
	start := time.Now()
	for i := 1; i <= n; i++ {
		c, err := g.accept(i, obj, cam)
		if err != nil {
			return results, err
		}
		sc = sc.WithObject(c.obj)

		r := Result{
			Index:    i,
			Image:    g.Layout.ImagePath(i, ext),
			Label:    g.Layout.LabelPath(i),
			Attempts: c.attempts,
			Pose:     c.pose,
			Box:      c.proj.Clamped,
		}

		if err := g.Renderer.Render(sc, r.Image); err != nil {
			return results, fmt.Errorf("dataset: render image %d: %w", i, err)
		}
		if err := WriteLabel(r.Label, Label{ClassID: g.ClassID, Box: r.Box}); err != nil {
			return results, fmt.Errorf("dataset: image %d: %w", i, err)
		}
		results = append(results, r)

		g.Log.Info().
			Int("image", i).
			Int("total", n).
			Int("attempts", c.attempts).
			Float64("center_x", r.Box.CenterX).
			Float64("center_y", r.Box.CenterY).
			Dur("elapsed", time.Since(start)).
			Msg("image accepted")
	}
	return results, nil
}

type candidate struct {
	pose     scene.Pose
	obj      scene.Object
	proj     projection.Projection
	attempts int
}

// accept samples poses until the raw (unclamped) box overlaps the frame.
func (g *Generator) accept(index int, obj scene.Object, cam scene.Camera) (candidate, error) {
	limit := g.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}
	for attempt := 1; attempt <= limit; attempt++ {
		pose := g.Sampler.Sample()
		placed := obj.WithPose(pose)
		proj := projection.Project(placed, cam)
		if projection.InView(proj.Raw) {
			return candidate{pose: pose, obj: placed, proj: proj, attempts: attempt}, nil
		}
		g.Log.Debug().
			Int("image", index).
			Int("attempt", attempt).
			Float64("raw_center_x", proj.Raw.CenterX).
			Float64("raw_center_y", proj.Raw.CenterY).
			Msg("pose out of view")
	}
	return candidate{}, &VisibilitySamplingExhaustedError{Index: index, Attempts: limit}
}
