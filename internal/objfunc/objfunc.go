// Package objfunc spawns the user-supplied objective-function child process
// per candidate, capturing its stdout/stderr and parsing the scalar result.
package objfunc

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/ssgier/momonc-service/internal/domain"
)

// Call describes how to invoke the objective function: the program and its
// fixed leading arguments. The candidate JSON is appended as the final argv
// entry at call time.
type Call struct {
	Program string
	Args    []string
}

type childResult struct {
	ObjFuncVal float64 `json:"obj_func_val"`
}

// Invoker evaluates candidates by spawning call.Program as a child process.
// It is stateless and safe for concurrent use by multiple evaluations.
type Invoker struct {
	call Call
}

// New returns an Invoker bound to the given objective-function call
// definition.
func New(call Call) *Invoker {
	return &Invoker{call: call}
}

// Evaluate spawns the child process with the candidate serialized as the
// final argv entry, and returns its obj_func_val, or an absent (nil) value:
// spawn failure, non-empty stderr, unparseable stdout, and non-finite
// results are all reported as absent rather than propagated as an error, so
// the driver never stops on a single bad evaluation.
func (inv *Invoker) Evaluate(ctx context.Context, candidate domain.Candidate) *float64 {
	candidateJSON, err := sonic.Marshal(candidate)
	if err != nil {
		log.Error().Err(err).Msg("objfunc: failed to marshal candidate")
		return nil
	}

	args := make([]string, 0, len(inv.call.Args)+1)
	args = append(args, inv.call.Args...)
	args = append(args, string(candidateJSON))

	cmd := exec.CommandContext(ctx, inv.call.Program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Error().Err(err).Str("program", inv.call.Program).Msg("objfunc: failed to spawn or run child")
		return nil
	}

	if stderr.Len() > 0 {
		log.Warn().
			Str("program", inv.call.Program).
			Str("stderr", stderr.String()).
			Msg("objfunc: child wrote to stderr, treating evaluation as absent")
		return nil
	}

	var result childResult
	if err := sonic.Unmarshal(stdout.Bytes(), &result); err != nil {
		log.Error().
			Err(err).
			Str("stdout", stdout.String()).
			Msg("objfunc: child stdout did not parse as {\"obj_func_val\": <number>}, invariant violation")
		return nil
	}

	if math.IsNaN(result.ObjFuncVal) || math.IsInf(result.ObjFuncVal, 0) {
		log.Warn().
			Float64("obj_func_val", result.ObjFuncVal).
			Msg("objfunc: non-finite objective value, treating as absent")
		return nil
	}

	val := result.ObjFuncVal
	return &val
}

// String formats a human-readable description of the call, for logging.
func (c Call) String() string {
	return fmt.Sprintf("%s %v", c.Program, c.Args)
}
