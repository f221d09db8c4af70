package param

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/bytedance/sonic"
)

// specFileJSON is the on-disk spec-file format:
//
//	{"initial_guess": {name: number, ...},
//	 "definition":   {name: [lower_bound, upper_bound], ...}}
//
// Only real-number dimensions are expressible in this file format; Boolean
// and Integer dims exist in the data model (see Dim) but are not reachable
// through FromSpecFile.
type specFileJSON struct {
	InitialGuess map[string]float64  `json:"initial_guess"`
	Definition   map[string][]float64 `json:"definition"`
}

// FromSpecFile reads and parses the spec file at path: unmarshal into a
// typed struct, then validate cross-field invariants by hand, since struct
// tags alone cannot express "these two maps must have identical key sets".
func FromSpecFile(path string) (Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read spec file: %w", err)
	}
	return fromSpecFileJSON(raw)
}

func fromSpecFileJSON(raw []byte) (Spec, error) {
	var parsed specFileJSON
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return Spec{}, fmt.Errorf("parse spec file json: %w", err)
	}
	if parsed.InitialGuess == nil {
		return Spec{}, fmt.Errorf("spec file missing initial_guess property")
	}
	if parsed.Definition == nil {
		return Spec{}, fmt.Errorf("spec file missing definition property")
	}
	if len(parsed.InitialGuess) != len(parsed.Definition) {
		return Spec{}, fmt.Errorf(
			"initial_guess and definition key sets differ in size (%d vs %d)",
			len(parsed.InitialGuess), len(parsed.Definition))
	}

	// Deterministic dim order: sort names so repeated parses of the same
	// file yield identical Spec.Dims ordering (Go map iteration order is
	// randomized, but the wire format is an unordered JSON object anyway,
	// so any stable order is equally valid).
	names := make([]string, 0, len(parsed.Definition))
	for name := range parsed.Definition {
		names = append(names, name)
	}
	sort.Strings(names)

	dims := make([]Dim, 0, len(names))
	for _, name := range names {
		bounds, ok := parsed.Definition[name]
		if !ok {
			return Spec{}, fmt.Errorf("missing definition for %q", name)
		}
		if len(bounds) != 2 {
			return Spec{}, fmt.Errorf("bounds for %q must have exactly two elements, got %d", name, len(bounds))
		}
		lower, upper := bounds[0], bounds[1]
		if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) {
			return Spec{}, fmt.Errorf("bounds for %q are not finite", name)
		}
		if !(lower < upper) {
			return Spec{}, fmt.Errorf("bounds for %q must satisfy lower_bound < upper_bound", name)
		}

		initial, ok := parsed.InitialGuess[name]
		if !ok {
			return Spec{}, fmt.Errorf(
				"initial_guess not aligned with definition: %q not found in initial_guess", name)
		}
		if !(lower <= initial && initial <= upper) {
			return Spec{}, fmt.Errorf(
				"initial guess for %q (%v) must satisfy lower_bound <= initial <= upper_bound", name, initial)
		}

		// The data model's RealNumber invariant requires initial < max_excl
		// (strict), but the spec-file format allows initial == upper_bound.
		// Widen max_excl by one ULP above the upper bound in that edge case
		// so the dim's own invariant is never violated by a legal spec file.
		maxExcl := upper
		if initial == upper {
			maxExcl = math.Nextafter(upper, math.Inf(1))
		}

		dim, err := NewRealDim(name, initial, lower, maxExcl)
		if err != nil {
			return Spec{}, fmt.Errorf("dim %q: %w", name, err)
		}
		dims = append(dims, dim)
	}

	return New(dims)
}
