package raster

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdet/internal/mathutil"
	"synthdet/internal/model"
	"synthdet/internal/projection"
	"synthdet/internal/scene"
)

// chairOnly is a chair under a top-down camera with no floor, so every
// non-background pixel belongs to the chair.
func chairOnly(pose scene.Pose) scene.Scene {
	cam := scene.NewOrthoCamera(mathutil.Vec3{0, 0, 10}, mathutil.Vec3{}, 2, 64, 36)
	chair := scene.Object{Name: "Chair", Model: model.Chair()}.WithPose(pose)
	return scene.Scene{Objects: []scene.Object{chair}, Cam: &cam}
}

func TestRenderImage_Size(t *testing.T) {
	r := NewRenderer(64, 36, 2, FormatPNG)
	img, err := r.RenderImage(chairOnly(scene.Pose{}))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 36, img.Bounds().Dy())
}

func TestRenderImage_ChairCoversCenter(t *testing.T) {
	r := NewRenderer(64, 36, 1, FormatPNG)
	img, err := r.RenderImage(chairOnly(scene.Pose{}))
	require.NoError(t, err)

	assert.Equal(t, DefaultBackground, img.NRGBAAt(0, 0))
	assert.Equal(t, DefaultBackground, img.NRGBAAt(63, 35))
	assert.NotEqual(t, DefaultBackground, img.NRGBAAt(32, 18))
}

func TestRenderImage_PixelsInsideProjectedBox(t *testing.T) {
	pose := scene.Pose{Position: mathutil.Vec3{0.1, -0.1, 0}, Rotation: mathutil.Vec3{0.3, 0.2, 1.0}}
	sc := chairOnly(pose)
	r := NewRenderer(64, 36, 1, FormatPNG)
	img, err := r.RenderImage(sc)
	require.NoError(t, err)

	obj, err := sc.Object("Chair")
	require.NoError(t, err)
	cam, err := sc.Camera()
	require.NoError(t, err)
	box := projection.BoundingBox2D(obj, cam)
	minU, minV := box.Min()
	maxU, maxV := box.Max()

	const w, h = 64.0, 36.0
	covered := 0
	for y := 0; y < 36; y++ {
		for x := 0; x < 64; x++ {
			if img.NRGBAAt(x, y) == DefaultBackground {
				continue
			}
			covered++
			u := (float64(x) + 0.5) / w
			v := 1 - (float64(y)+0.5)/h
			assert.True(t, u >= minU-1/w && u <= maxU+1/w, "pixel (%d,%d) u=%.3f outside [%.3f,%.3f]", x, y, u, minU, maxU)
			assert.True(t, v >= minV-1/h && v <= maxV+1/h, "pixel (%d,%d) v=%.3f outside [%.3f,%.3f]", x, y, v, minV, maxV)
		}
	}
	assert.Positive(t, covered)
}

func TestRenderImage_Errors(t *testing.T) {
	r := NewRenderer(8, 8, 1, FormatPNG)

	_, err := r.RenderImage(scene.Scene{})
	assert.ErrorIs(t, err, scene.ErrNoCamera)

	sc := chairOnly(scene.Pose{})
	flat := *sc.Cam
	flat.Frame.Right = flat.Frame.Left
	sc.Cam = &flat
	_, err = r.RenderImage(sc)
	assert.ErrorIs(t, err, ErrDegenerateFrame)

	bad := NewRenderer(0, 8, 1, FormatPNG)
	_, err = bad.RenderImage(chairOnly(scene.Pose{}))
	assert.Error(t, err)
}

func TestRender_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img_1.png")
	r := NewRenderer(32, 18, 1, FormatPNG)
	require.NoError(t, r.Render(chairOnly(scene.Pose{}), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 18, img.Bounds().Dy())
}

func TestRender_WritesWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img_1.webp")
	r := NewRenderer(32, 18, 1, FormatWebP)
	require.NoError(t, r.Render(chairOnly(scene.Pose{}), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestRender_BadPath(t *testing.T) {
	r := NewRenderer(8, 8, 1, FormatPNG)
	err := r.Render(chairOnly(scene.Pose{}), filepath.Join(t.TempDir(), "missing", "img.png"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"webp", FormatWebP, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
