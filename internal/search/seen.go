package search

import (
	"sync"

	"github.com/ssgier/momonc-service/internal/domain"
)

// seen is the shared "best observed so far" aggregate: guarded by a single
// non-reentrant mutex, acquired at most twice per evaluation (a read to
// seed the batch, a write on completion). No I/O is ever performed while
// the lock is held.
type seen struct {
	mu sync.Mutex

	hasValue             bool
	bestCandidate         domain.Candidate
	bestObjFuncVal        float64
	latestCompletionTime        float64
	latestCompletionTimeEverSet bool
}

// current returns the best candidate/value under lock, or ok=false if no
// evaluation has completed yet.
func (s *seen) current() (candidate domain.Candidate, objFuncVal float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestCandidate, s.bestObjFuncVal, s.hasValue
}

// completionResult is everything a single evaluation's completion needs to
// report back, computed entirely under the seen lock.
type completionResult struct {
	bestObjFuncValBefore             *float64
	latestCompletionTimeBefore        *float64
	latestInterleavingCompletionTime *float64
}

// recordCompletion applies one evaluation's completion to the shared
// aggregate: captures the "before" snapshot, conditionally replaces the
// incumbent on strict improvement (ties favor the incumbent), and
// unconditionally advances latestCompletionTime — all under a single
// critical section, which is what makes the "before" values observed by
// concurrent completions consistent with a definite arrival order.
func (s *seen) recordCompletion(
	objFuncVal *float64,
	candidate domain.Candidate,
	completionTime float64,
	iterationStartTime float64,
) completionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result completionResult
	if s.hasValue {
		before := s.bestObjFuncVal
		result.bestObjFuncValBefore = &before
	}

	var latestBefore *float64
	if s.latestCompletionTimeEverSet {
		t := s.latestCompletionTime
		latestBefore = &t
	}
	result.latestCompletionTimeBefore = latestBefore

	if latestBefore != nil && *latestBefore > iterationStartTime {
		t := *latestBefore
		result.latestInterleavingCompletionTime = &t
	}

	if objFuncVal != nil && (!s.hasValue || *objFuncVal < s.bestObjFuncVal) {
		s.hasValue = true
		s.bestCandidate = candidate
		s.bestObjFuncVal = *objFuncVal
	}
	s.latestCompletionTime = completionTime
	s.latestCompletionTimeEverSet = true

	return result
}
