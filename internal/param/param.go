// Package param implements the ParamSpec data model: ordered typed
// dimensions with bounds, plus a spec-file JSON parser.
package param

import (
	"fmt"
	"math"

	"github.com/ssgier/momonc-service/internal/domain"
)

// DimKind tags which variant of Dim is populated.
type DimKind int

const (
	KindBoolean DimKind = iota
	KindReal
	KindInteger
)

// Dim is a single tagged parameter-space dimension.
type Dim struct {
	Kind DimKind
	Name string

	InitialBool bool

	InitialReal float64
	MinReal     float64
	MaxReal     float64

	InitialInt int64
	MinInt     int64
	MaxInt     int64
}

// NewBooleanDim builds a Boolean dimension.
func NewBooleanDim(name string, initial bool) Dim {
	return Dim{Kind: KindBoolean, Name: name, InitialBool: initial}
}

// NewRealDim builds a RealNumber dimension, validating that
// min_incl <= initial < max_excl, min_incl < max_excl, and all three are
// finite.
func NewRealDim(name string, initial, min, max float64) (Dim, error) {
	if !isFinite(initial) || !isFinite(min) || !isFinite(max) {
		return Dim{}, fmt.Errorf("dim %q: bounds and initial value must be finite", name)
	}
	if !(min < max) {
		return Dim{}, fmt.Errorf("dim %q: min_incl (%v) must be < max_excl (%v)", name, min, max)
	}
	if !(min <= initial && initial < max) {
		return Dim{}, fmt.Errorf("dim %q: initial value %v must be in [%v, %v)", name, initial, min, max)
	}
	return Dim{Kind: KindReal, Name: name, InitialReal: initial, MinReal: min, MaxReal: max}, nil
}

// NewIntegerDim builds an Integer dimension, validating the same ordering
// invariants as NewRealDim.
func NewIntegerDim(name string, initial, min, max int64) (Dim, error) {
	if !(min < max) {
		return Dim{}, fmt.Errorf("dim %q: min_incl (%d) must be < max_excl (%d)", name, min, max)
	}
	if !(min <= initial && initial < max) {
		return Dim{}, fmt.Errorf("dim %q: initial value %d must be in [%d, %d)", name, initial, min, max)
	}
	return Dim{Kind: KindInteger, Name: name, InitialInt: initial, MinInt: min, MaxInt: max}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Spec is an ordered sequence of dimensions with unique names.
type Spec struct {
	Dims []Dim
}

// New builds a Spec from dims, validating name uniqueness.
func New(dims []Dim) (Spec, error) {
	seen := make(map[string]struct{}, len(dims))
	for _, d := range dims {
		if _, dup := seen[d.Name]; dup {
			return Spec{}, fmt.Errorf("duplicate dim name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return Spec{Dims: append([]Dim(nil), dims...)}, nil
}

// Names returns the dimension names in spec order.
func (s Spec) Names() []string {
	names := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		names[i] = d.Name
	}
	return names
}

// InitialGuess builds the Candidate corresponding to each dim's initial
// value, in spec order. This is always the first candidate evaluated in
// the first iteration of a search.
func (s Spec) InitialGuess() domain.Candidate {
	names := make([]string, len(s.Dims))
	values := make([]domain.Value, len(s.Dims))
	for i, d := range s.Dims {
		names[i] = d.Name
		switch d.Kind {
		case KindBoolean:
			values[i] = domain.BoolValue(d.InitialBool)
		case KindReal:
			values[i] = domain.RealValue(d.InitialReal)
		case KindInteger:
			values[i] = domain.IntValue(d.InitialInt)
		}
	}
	return domain.NewCandidate(names, values)
}
