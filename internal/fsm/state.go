package fsm

import (
	"context"

	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/watcher"
)

// state is the controller's internal (not wire-serialized) representation
// of the FSM's current state: Idle carries the recalled default job,
// Processing carries the means to cancel the driver and the watcher
// accumulating its reports.
type state interface {
	isState()
	// toDomainState renders the wire-level snapshot sent to a subscriber on
	// (re)subscription.
	toDomainState() domain.DomainState
}

type idleState struct {
	job domain.DefaultJob
}

type processingState struct {
	cancel  context.CancelFunc
	watcher *watcher.Watcher
}

type terminalState struct{}

type errorState struct{}

func (idleState) isState()       {}
func (*processingState) isState() {}
func (terminalState) isState()   {}
func (errorState) isState()      {}

func (s idleState) toDomainState() domain.DomainState {
	job := s.job
	return domain.DomainState{Idle: &job}
}

func (s *processingState) toDomainState() domain.DomainState {
	snapshot := s.watcher.Snapshot()
	return domain.DomainState{Processing: &snapshot}
}

func (terminalState) toDomainState() domain.DomainState {
	return domain.DomainState{Terminal: true}
}

func (errorState) toDomainState() domain.DomainState {
	return domain.DomainState{Error: true}
}
