// Package candgen implements the candidate generator: given an origin
// candidate, a parameter spec, and a relative std-dev, it samples a new
// candidate respecting each dimension's bounds and kind.
package candgen

import (
	"math"
	"math/rand"

	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/param"
)

// Generator samples new candidates around a given origin. It wraps a
// *rand.Rand so callers can seed it deterministically, making runs
// reproducible given identical input and call sequence.
type Generator struct {
	spec           param.Spec
	relativeStdDev float64
	rng            *rand.Rand
}

// New returns a Generator for spec, sampling with the given relative
// std-dev and an RNG seeded from seed.
func New(spec param.Spec, relativeStdDev float64, seed int64) *Generator {
	return &Generator{
		spec:           spec,
		relativeStdDev: relativeStdDev,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Create samples a new candidate from the origin, per-dimension, in spec
// order — the same order every call, so successive draws from the shared
// *rand.Rand are deterministic given a fixed seed and fixed call sequence.
func (g *Generator) Create(origin domain.Candidate) domain.Candidate {
	names := make([]string, len(g.spec.Dims))
	values := make([]domain.Value, len(g.spec.Dims))

	for i, dim := range g.spec.Dims {
		names[i] = dim.Name
		fromValue, _ := origin.Get(dim.Name)

		switch dim.Kind {
		case param.KindBoolean:
			values[i] = g.sampleBoolean(fromValue)
		case param.KindReal:
			values[i] = g.sampleReal(dim, fromValue)
		case param.KindInteger:
			values[i] = g.sampleInteger(dim, fromValue)
		}
	}

	return domain.NewCandidate(names, values)
}

// sampleBoolean draws flip ~ Bernoulli(min(relative_std_dev, 1.0)) and
// returns flip XOR from_value.
func (g *Generator) sampleBoolean(from domain.Value) domain.Value {
	p := math.Min(g.relativeStdDev, 1.0)
	flip := g.rng.Float64() < p
	return domain.BoolValue(flip != from.Bool)
}

// sampleReal draws v ~ Normal(from_value, relative_std_dev*(max-min)) and
// clamps to the closed interval [min, max], including the upper bound.
func (g *Generator) sampleReal(dim param.Dim, from domain.Value) domain.Value {
	sigma := g.relativeStdDev * (dim.MaxReal - dim.MinReal)
	v := g.rng.NormFloat64()*sigma + from.Real
	return domain.RealValue(clampFloat(v, dim.MinReal, dim.MaxReal))
}

// sampleInteger draws a continuous Normal sample with the same sigma as
// sampleReal, truncates toward zero, and clamps to [min, max].
func (g *Generator) sampleInteger(dim param.Dim, from domain.Value) domain.Value {
	sigma := g.relativeStdDev * float64(dim.MaxInt-dim.MinInt)
	v := g.rng.NormFloat64()*sigma + float64(from.Integer)
	truncated := int64(math.Trunc(v))
	return domain.IntValue(clampInt(truncated, dim.MinInt, dim.MaxInt))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
