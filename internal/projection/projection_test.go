package projection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdet/internal/mathutil"
	"synthdet/internal/model"
	"synthdet/internal/scene"
)

// topDown looks straight down -Z from height 10 with a frame of the given half size.
func topDown(half float64) scene.Camera {
	return scene.Camera{
		World: mathutil.FromMat3Translation(mathutil.Mat3Identity(), mathutil.Vec3{0, 0, 10}),
		Frame: scene.Frame{Left: -half, Right: half, Bottom: -half, Top: half, Depth: 1},
	}
}

func chairAt(x, y float64) scene.Object {
	o := scene.Object{Name: "Chair", Model: model.Chair()}
	return o.WithPose(scene.Pose{Position: mathutil.Vec3{x, y, 0}})
}

func TestWorldToCameraView_DegenerateFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame scene.Frame
	}{
		{"zero width", scene.Frame{Left: 1, Right: 1, Bottom: -1, Top: 1, Depth: 1}},
		{"zero height", scene.Frame{Left: -1, Right: 1, Bottom: 0.5, Top: 0.5, Depth: 1}},
		{"zero both", scene.Frame{}},
	}
	points := []mathutil.Vec3{{0, 0, 0}, {3, -4, 5}, {-100, 100, -1}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := topDown(1)
			cam.Frame = tt.frame
			for _, p := range points {
				assert.Equal(t, mathutil.Vec3{0.5, 0.5, 0}, WorldToCameraView(cam, p))
			}
		})
	}
}

func TestWorldToCameraView_FrameCornersMapToUnitSquare(t *testing.T) {
	cam := scene.NewOrthoCamera(
		mathutil.Vec3{0, -12, 16}, mathutil.Vec3{0.6435011087932844, 0, 0}, 20, 1920, 1080)
	frame := cam.ViewFrame()
	want := [4][2]float64{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	for i, corner := range frame {
		p := WorldToCameraView(cam, cam.World.MulPoint(corner))
		assert.InDelta(t, want[i][0], p[0], 1e-9, "u of corner %d", i)
		assert.InDelta(t, want[i][1], p[1], 1e-9, "v of corner %d", i)
		assert.InDelta(t, 1.0, p[2], 1e-9, "depth of corner %d", i)
	}
}

func TestWorldToCameraView_Depth(t *testing.T) {
	cam := topDown(1)
	p := WorldToCameraView(cam, mathutil.Vec3{0, 0, 4})
	assert.InDelta(t, 6.0, p[2], 1e-12)
	assert.InDelta(t, 0.5, p[0], 1e-12)
	assert.InDelta(t, 0.5, p[1], 1e-12)
}

func TestWorldToCameraView_IgnoresCameraScale(t *testing.T) {
	cam := topDown(1)
	scaled := cam
	scaled.World = mathutil.FromMat3Translation(mathutil.Mat3Diag(3, 3, 3), mathutil.Vec3{0, 0, 10})

	p := mathutil.Vec3{0.4, -0.2, 1}
	assert.Equal(t, WorldToCameraView(cam, p), WorldToCameraView(scaled, p))
}

func TestInView(t *testing.T) {
	tests := []struct {
		name string
		box  Box2D
		want bool
	}{
		{"full frame", Box2D{CenterX: 0.5, CenterY: 0.5, Width: 1, Height: 1}, true},
		{"left of frame", Box2D{CenterX: -0.1, CenterY: 0.5, Width: 0.1, Height: 0.1}, false},
		{"right of frame", Box2D{CenterX: 1.2, CenterY: 0.5, Width: 0.1, Height: 0.1}, false},
		{"below frame", Box2D{CenterX: 0.5, CenterY: -0.3, Width: 0.1, Height: 0.2}, false},
		{"above frame", Box2D{CenterX: 0.5, CenterY: 1.3, Width: 0.1, Height: 0.2}, false},
		{"touching left edge", Box2D{CenterX: -0.05, CenterY: 0.5, Width: 0.1, Height: 0.1}, true},
		{"straddling corner", Box2D{CenterX: 1.0, CenterY: 0.0, Width: 0.4, Height: 0.4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InView(tt.box))
		})
	}
}

func TestProject_CenteredChair(t *testing.T) {
	p := Project(chairAt(0, 0), topDown(1))

	// Seat spans [-0.23, 0.23] in x and y; frame spans [-1, 1].
	assert.InDelta(t, 0.5, p.Clamped.CenterX, 1e-9)
	assert.InDelta(t, 0.5, p.Clamped.CenterY, 1e-9)
	assert.InDelta(t, 0.23, p.Clamped.Width, 1e-9)
	assert.InDelta(t, 0.23, p.Clamped.Height, 1e-9)
	assert.Equal(t, p.Raw, p.Clamped)
	assert.Equal(t, p.Clamped, BoundingBox2D(chairAt(0, 0), topDown(1)))
}

func TestProject_PartiallyOutOfFrame(t *testing.T) {
	p := Project(chairAt(1, 0), topDown(1))

	// Raw box spans u in [0.885, 1.115]; clamped to [0.885, 1].
	assert.InDelta(t, 0.23, p.Raw.Width, 1e-9)
	assert.InDelta(t, 0.115, p.Clamped.Width, 1e-9)
	assert.InDelta(t, (0.885+1)/2, p.Clamped.CenterX, 1e-9)
	assert.True(t, InView(p.Raw))
}

func TestProject_FarLateralOffsetLeavesView(t *testing.T) {
	cam := topDown(1)
	seenOut := false
	for x := 0.0; x <= 20; x += 0.25 {
		visible := InView(Project(chairAt(x, 0), cam).Raw)
		if x == 0 {
			require.True(t, visible)
		}
		if seenOut {
			assert.False(t, visible, "visible again at x=%v", x)
		}
		if !visible {
			seenOut = true
		}
	}
	assert.True(t, seenOut)
}

func TestProject_ClampedBoxHidesOutOfFrameObject(t *testing.T) {
	p := Project(chairAt(5, 0), topDown(1))

	assert.False(t, InView(p.Raw))
	// Clamping collapses the box onto the right edge, where it still "overlaps".
	assert.InDelta(t, 1.0, p.Clamped.CenterX, 1e-12)
	assert.Zero(t, p.Clamped.Width)
	assert.True(t, InView(p.Clamped))
}

func TestProject_ClampInvariant(t *testing.T) {
	cam := scene.NewOrthoCamera(
		mathutil.Vec3{0, -12, 16}, mathutil.Vec3{0.6435011087932844, 0, 0}, 12, 1920, 1080)
	rng := rand.New(rand.NewPCG(7, 11))
	obj := scene.Object{Name: "Chair", Model: model.Chair()}

	for i := 0; i < 500; i++ {
		pose := scene.Pose{
			Position: mathutil.Vec3{rng.Float64()*30 - 15, rng.Float64()*30 - 15, 0},
			Rotation: mathutil.Vec3{rng.Float64() * 2 * math.Pi, rng.Float64() * 2 * math.Pi, rng.Float64() * 2 * math.Pi},
		}
		b := BoundingBox2D(obj.WithPose(pose), cam)
		minX, minY := b.Min()
		maxX, maxY := b.Max()

		const eps = 1e-12
		require.GreaterOrEqual(t, minX, -eps)
		require.GreaterOrEqual(t, minY, -eps)
		require.LessOrEqual(t, maxX, 1+eps)
		require.LessOrEqual(t, maxY, 1+eps)
		require.GreaterOrEqual(t, b.Width, 0.0)
		require.GreaterOrEqual(t, b.Height, 0.0)
		require.LessOrEqual(t, b.Width, 1.0)
		require.LessOrEqual(t, b.Height, 1.0)
	}
}
