// Package fsm implements the controller FSM: a single-consumer event loop
// driving the Idle/Processing/Terminal/Error state machine.
package fsm

import (
	"github.com/ssgier/momonc-service/internal/algo"
	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/objfunc"
	"github.com/ssgier/momonc-service/internal/param"
)

// Event is the FSM's single input type. Only certain (state, event) pairs
// are legal transitions; any other combination falls through to the
// "illegal event" branch and is logged at debug without a state change.
type Event interface {
	isEvent()
}

// NewSubscriberEvent installs or replaces the at-most-one status sink.
type NewSubscriberEvent struct {
	Sink chan<- domain.StatusMessage
}

// ProcessingJobEvent starts a job. A client's Request message is translated
// into either ProcessingJob or RequestStop before it reaches the event
// loop, not inside it — so there is no separate RequestEvent case here; the
// translation lives in the websocket ingress handler, which reads the spec
// file and constructs this event directly.
//
// Job carries the raw request fields alongside the already-parsed Spec and
// Call so the controller can persist the recollection without re-parsing
// the spec file or re-deriving the objective-function invocation.
type ProcessingJobEvent struct {
	Job      domain.ProcessingJobData
	Spec     param.Spec
	AlgoConf algo.Config
	Call     objfunc.Call
}

// PublishTimeEvent is the periodic tick from the event clock.
type PublishTimeEvent struct{}

// RequestStopEvent stops the current job, whether the request originated
// from the client or internally.
type RequestStopEvent struct{}

// DelegateStatusMessageEvent is a progress message from the driver (or
// elsewhere) to be folded into the watcher, if Processing, and forwarded to
// the subscriber.
type DelegateStatusMessageEvent struct {
	Msg domain.StatusMessage
}

func (NewSubscriberEvent) isEvent()         {}
func (ProcessingJobEvent) isEvent()         {}
func (PublishTimeEvent) isEvent()           {}
func (RequestStopEvent) isEvent()           {}
func (DelegateStatusMessageEvent) isEvent() {}
