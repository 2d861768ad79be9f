package sampler

import (
	"math"
	"math/rand/v2"

	"synthdet/internal/mathutil"
	"synthdet/internal/scene"
)

// Sampler produces candidate poses for the target object.
type Sampler interface {
	Sample() scene.Pose
}

// Uniform samples x, y uniformly in [-HalfExtent, HalfExtent] on the floor
// (z = 0) and each Euler angle uniformly in [0, 2π).
type Uniform struct {
	HalfExtent float64
	rng        *rand.Rand
}

// NewUniform returns a sampler over the square of half size h. A nil src
// seeds from the runtime's random source.
func NewUniform(h float64, src rand.Source) *Uniform {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Uniform{HalfExtent: h, rng: rand.New(src)}
}

func (u *Uniform) Sample() scene.Pose {
	return scene.Pose{
		Position: mathutil.Vec3{u.coord(), u.coord(), 0},
		Rotation: mathutil.Vec3{u.angle(), u.angle(), u.angle()},
	}
}

// coord draws from [-H, H]; a non-positive H collapses the region to 0.
func (u *Uniform) coord() float64 {
	if u.HalfExtent <= 0 {
		return 0
	}
	return (u.rng.Float64()*2 - 1) * u.HalfExtent
}

func (u *Uniform) angle() float64 {
	return u.rng.Float64() * 2 * math.Pi
}

// Sequence replays a fixed list of poses, wrapping around at the end.
type Sequence struct {
	Poses []scene.Pose
	next  int
}

func (s *Sequence) Sample() scene.Pose {
	if len(s.Poses) == 0 {
		return scene.Pose{}
	}
	p := s.Poses[s.next%len(s.Poses)]
	s.next++
	return p
}

// Calls returns how many poses have been drawn.
func (s *Sequence) Calls() int { return s.next }
