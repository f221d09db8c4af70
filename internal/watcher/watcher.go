// Package watcher implements the progress watcher: a monotonic
// per-processing-job accumulator of recent reports and a best-seen table,
// snapshotted on demand for subscribers.
package watcher

import (
	"sort"
	"time"

	"github.com/ssgier/momonc-service/internal/domain"
)

// DefaultNBest is the default capacity of the best-seen table (size is
// kept at or below N_best, 5 by default).
const DefaultNBest = 5

// DefaultWindowLengthHint is the size hint published to consumers so they
// can prune their own view of an unbounded recent-reports queue.
const DefaultWindowLengthHint = 250

// Watcher accumulates CandidateEvalReports for a single processing job.
// It is not safe for concurrent use; the FSM event loop is its only caller.
type Watcher struct {
	startTime time.Time
	lastTime  float64

	recentReports []domain.CandidateEvalReport
	bestSeen      []domain.BestSeenEntry

	nBest            int
	windowLengthHint int
}

// New returns a Watcher whose elapsed-time clock is relative to startTime,
// keeping at most nBest best-seen entries and publishing windowLengthHint
// as the recent-reports size hint. Non-positive values fall back to
// DefaultNBest/DefaultWindowLengthHint.
func New(startTime time.Time, nBest, windowLengthHint int) *Watcher {
	if nBest <= 0 {
		nBest = DefaultNBest
	}
	if windowLengthHint <= 0 {
		windowLengthHint = DefaultWindowLengthHint
	}
	return &Watcher{
		startTime:        startTime,
		nBest:            nBest,
		windowLengthHint: windowLengthHint,
	}
}

// Update advances last_time = now - start_time, in seconds.
func (w *Watcher) Update(now time.Time) {
	w.lastTime = now.Sub(w.startTime).Seconds()
}

// Elapsed returns the last_time computed by the most recent Update call.
func (w *Watcher) Elapsed() float64 {
	return w.lastTime
}

// OnReport appends report to the recent-reports queue (preserving arrival
// order) and, if it carries a present objective value, considers it for the
// best-seen table: insert, re-sort ascending, and truncate to nBest. A
// candidate value equal to the current worst kept entry does not evict it —
// only strictly smaller entries enter the table once it is at capacity.
func (w *Watcher) OnReport(report domain.CandidateEvalReport) {
	w.recentReports = append(w.recentReports, report)

	if report.ObjFuncVal == nil {
		return
	}
	val := *report.ObjFuncVal

	if len(w.bestSeen) >= w.nBest {
		worst := w.bestSeen[len(w.bestSeen)-1].ObjFuncVal
		if !(val < worst) {
			return
		}
	}

	w.bestSeen = append(w.bestSeen, domain.BestSeenEntry{
		Candidate:  report.Candidate,
		ObjFuncVal: val,
	})
	sort.SliceStable(w.bestSeen, func(i, j int) bool {
		return w.bestSeen[i].ObjFuncVal < w.bestSeen[j].ObjFuncVal
	})
	if len(w.bestSeen) > w.nBest {
		w.bestSeen = w.bestSeen[:w.nBest]
	}
}

// Snapshot clones the recent-reports queue, the best-seen table, last_time,
// and the size hints into a ProcessingState for a subscriber.
func (w *Watcher) Snapshot() domain.ProcessingState {
	reports := make([]domain.CandidateEvalReport, len(w.recentReports))
	copy(reports, w.recentReports)
	bestSeen := make([]domain.BestSeenEntry, len(w.bestSeen))
	copy(bestSeen, w.bestSeen)

	return domain.ProcessingState{
		RecentReports:         reports,
		BestSeen:               bestSeen,
		Time:                   w.lastTime,
		WindowLengthHint:       w.windowLengthHint,
		BestSeenTableSizeHint: w.nBest,
	}
}
