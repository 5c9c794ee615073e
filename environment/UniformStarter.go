package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting values uniformly from an
// axis-aligned box, defined by one r1.Interval per dimension.
// Degenerate intervals (Min == Max) are legal and always produce the
// interval endpoint, so a UniformStarter can also represent a fixed
// starting value.
type UniformStarter struct {
	features int
	bounds   []r1.Interval
	rand     *distmv.Uniform
}

// NewUniformStarter returns a UniformStarter sampling within bounds,
// with randomness driven by seed
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	return NewUniformStarterFrom(bounds, rand.NewSource(seed))
}

// NewUniformStarterFrom returns a UniformStarter sampling within
// bounds, drawing its randomness from source. Multiple starters built
// from the same source share one stream, so their draws are
// independent of one another rather than replaying identical values.
func NewUniformStarterFrom(bounds []r1.Interval,
	source rand.Source) UniformStarter {
	rand := distmv.NewUniform(bounds, source)

	return UniformStarter{len(bounds), bounds, rand}
}

// Start samples a single starting value
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// StartN samples n independent starting values, one per row of the
// returned matrix. Start is equivalent to the first row of StartN(1).
func (u UniformStarter) StartN(n int) *mat.Dense {
	samples := mat.NewDense(n, u.features, nil)
	for i := 0; i < n; i++ {
		samples.SetRow(i, u.rand.Rand(nil))
	}
	return samples
}

// Bounds returns the sampling box of the UniformStarter
func (u UniformStarter) Bounds() []r1.Interval {
	bounds := make([]r1.Interval, len(u.bounds))
	copy(bounds, u.bounds)
	return bounds
}

// Reseed replaces the starter's source of randomness with one seeded
// by seed
func (u *UniformStarter) Reseed(seed uint64) {
	source := rand.NewSource(seed)
	u.rand = distmv.NewUniform(u.bounds, source)
}
