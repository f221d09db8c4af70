// Package algo holds the algorithm-configuration variants accepted by a
// processing job. Currently a single variant, ParallelHillClimbing, is
// supported, as a tagged AlgoConf.
package algo

import (
	"fmt"
)

// ParallelHillClimbingConfig configures the parallel hill-climbing search:
// relative_std_dev scales the per-dimension proposal spread, degree_of_par
// is the evaluation batch size per iteration.
type ParallelHillClimbingConfig struct {
	RelativeStdDev float64 `json:"relative_std_dev"`
	DegreeOfPar    int     `json:"degree_of_par"`
}

// Validate enforces relative_std_dev ∈ (0,1], degree_of_par ≥ 1.
func (c ParallelHillClimbingConfig) Validate() error {
	if !(c.RelativeStdDev > 0 && c.RelativeStdDev <= 1.0) {
		return fmt.Errorf("relative_std_dev must be in (0,1], got %v", c.RelativeStdDev)
	}
	if c.DegreeOfPar < 1 {
		return fmt.Errorf("degree_of_par must be >= 1, got %d", c.DegreeOfPar)
	}
	return nil
}

// Config is the tagged AlgoConf variant. Only ParallelHillClimbing is
// populated at present; the shape leaves room for future variants without
// breaking the wire format.
type Config struct {
	ParallelHillClimbing *ParallelHillClimbingConfig `json:"ParallelHillClimbing,omitempty"`
}

// Validate dispatches to whichever variant is populated.
func (c Config) Validate() error {
	switch {
	case c.ParallelHillClimbing != nil:
		return c.ParallelHillClimbing.Validate()
	default:
		return fmt.Errorf("algo config has no populated variant")
	}
}

