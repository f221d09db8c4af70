// Package search implements the search driver (parallel hill climbing): an
// iteration loop that builds a candidate batch, fans out evaluations, and
// updates a shared best-seen aggregate.
package search

import (
	"context"
	"time"

	gotaskflow "github.com/noneback/go-taskflow"

	"github.com/ssgier/momonc-service/internal/algo"
	"github.com/ssgier/momonc-service/internal/candgen"
	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/objfunc"
	"github.com/ssgier/momonc-service/internal/param"
)

// deterministicSeed is the fixed RNG seed (0) so runs are reproducible
// given identical input and identical candidate ordering.
const deterministicSeed = 0

// Run drives a parallel hill-climbing search until ctx is cancelled,
// emitting one CandidateEvalReport per candidate evaluation onto reports.
// It never closes reports and never returns until ctx is done, matching the
// Controller FSM's expectation that the driver is a cancellable background
// task.
func Run(
	ctx context.Context,
	spec param.Spec,
	conf algo.ParallelHillClimbingConfig,
	call objfunc.Call,
	reports chan<- domain.CandidateEvalReport,
	startInstant time.Time,
) {
	invoker := objfunc.New(call)
	generator := candgen.New(spec, conf.RelativeStdDev, deterministicSeed)
	initialGuess := spec.InitialGuess()
	executor := gotaskflow.NewExecutor(uint(conf.DegreeOfPar))

	var agg seen

	for iteration := 0; ; iteration++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		origin := currentOriginOrInitial(&agg, initialGuess)

		iterationStartTime := time.Since(startInstant).Seconds()

		batch := make([]domain.Candidate, conf.DegreeOfPar)
		for i := range batch {
			if iteration == 0 && i == 0 {
				batch[i] = initialGuess
			} else {
				batch[i] = generator.Create(origin)
			}
		}

		if cancelled := evaluateBatch(
			ctx, executor, invoker, &agg, batch, iterationStartTime, startInstant, reports,
		); cancelled {
			return
		}
	}
}

// currentOriginOrInitial reads the driver's current best candidate under
// lock, falling back to the initial guess if no evaluation has completed
// yet.
func currentOriginOrInitial(agg *seen, initialGuess domain.Candidate) domain.Candidate {
	candidate, _, ok := agg.current()
	if !ok {
		return initialGuess
	}
	return candidate
}

// evaluateBatch fans out one iteration's candidates using a go-taskflow
// TaskFlow of independent tasks (no Precede edges between them, since
// completion order within a batch is unconstrained), and blocks until
// every task completes. Returns true if ctx was cancelled before the batch
// could be dispatched.
func evaluateBatch(
	ctx context.Context,
	executor gotaskflow.Executor,
	invoker *objfunc.Invoker,
	agg *seen,
	batch []domain.Candidate,
	iterationStartTime float64,
	startInstant time.Time,
	reports chan<- domain.CandidateEvalReport,
) (cancelled bool) {
	select {
	case <-ctx.Done():
		return true
	default:
	}

	tf := gotaskflow.NewTaskFlow("iteration")

	for _, candidate := range batch {
		candidate := candidate
		tf.NewTask("evaluate", func() {
			evaluateOne(ctx, invoker, agg, candidate, iterationStartTime, startInstant, reports)
		})
	}

	executor.Run(tf).Wait()
	return false
}

// evaluateOne runs a single candidate through the objective invoker and
// updates the shared best-seen aggregate.
func evaluateOne(
	ctx context.Context,
	invoker *objfunc.Invoker,
	agg *seen,
	candidate domain.Candidate,
	iterationStartTime float64,
	startInstant time.Time,
	reports chan<- domain.CandidateEvalReport,
) {
	startUnixTimestamp := float64(time.Now().UnixNano()) / 1e9
	objFuncVal := invoker.Evaluate(ctx, candidate)
	completionTime := time.Since(startInstant).Seconds()

	result := agg.recordCompletion(objFuncVal, candidate, completionTime, iterationStartTime)

	report := domain.CandidateEvalReport{
		IterationStartTime:               iterationStartTime,
		StartUnixTimestamp:               startUnixTimestamp,
		CompletionTime:                   completionTime,
		ObjFuncVal:                       objFuncVal,
		BestSeenObjFuncValBefore:         result.bestObjFuncValBefore,
		Candidate:                        candidate,
		LatestInterleavingCompletionTime: result.latestInterleavingCompletionTime,
	}

	select {
	case reports <- report:
	case <-ctx.Done():
	}
}
