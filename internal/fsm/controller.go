package fsm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ssgier/momonc-service/internal/diskcache"
	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/search"
	"github.com/ssgier/momonc-service/internal/watcher"
)

// eventBufferSize is a generously sized buffer standing in for an unbounded
// event channel; Go has no standard unbounded channel, and the FSM's only
// producers (clock ticks, websocket ingress, the driver's report forwarder)
// are all well below this rate in practice.
const eventBufferSize = 4096

// reportBufferSize sizes the channel between a running SearchDriver and its
// report-forwarding goroutine, decoupling the driver's evaluation rate from
// however fast the FSM loop drains events.
const reportBufferSize = 1024

// Controller runs the single-consumer event loop. All state is owned
// exclusively by the goroutine running Run; Events() returns the only
// channel by which outside code may affect that state.
type Controller struct {
	events     chan Event
	defaultJob domain.DefaultJob
	store      *diskcache.Store

	nBest            int
	windowLengthHint int
}

// NewController returns a Controller that starts in Idle(defaultJob) —
// defaultJob is the recollection used to pre-populate the client UI,
// ordinarily the value persisted in internal/diskcache. store, if non-nil,
// is written to every time a ProcessingJobEvent successfully starts a job,
// so the next restart recalls the client's last job instead of defaultJob.
// nBest and windowLengthHint are forwarded to every watcher.Watcher the
// controller creates for a new processing job.
func NewController(defaultJob domain.DefaultJob, store *diskcache.Store, nBest, windowLengthHint int) *Controller {
	return &Controller{
		events:           make(chan Event, eventBufferSize),
		defaultJob:       defaultJob,
		store:            store,
		nBest:            nBest,
		windowLengthHint: windowLengthHint,
	}
}

// Events returns the send side of the controller's event channel.
func (c *Controller) Events() chan<- Event {
	return c.events
}

// Send delivers event to the controller, or abandons the send if ctx is
// done first.
func (c *Controller) Send(ctx context.Context, event Event) {
	select {
	case c.events <- event:
	case <-ctx.Done():
	}
}

// Run drives the event loop until ctx is done or the event channel is
// closed. It owns the controller state exclusively for its lifetime.
func (c *Controller) Run(ctx context.Context) {
	var cur state = idleState{job: c.defaultJob}
	var subscriber chan<- domain.StatusMessage

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.events:
			if !ok {
				return
			}
			cur = c.step(ctx, cur, event, &subscriber)
		}
	}
}

// step applies one event to the current state, one (state, event) case at
// a time. Any pair not handled here falls through to the illegal-event
// branch: log at debug, no change.
func (c *Controller) step(ctx context.Context, cur state, event Event, subscriber *chan<- domain.StatusMessage) state {
	switch ev := event.(type) {
	case ProcessingJobEvent:
		switch cur.(type) {
		case idleState, terminalState:
			next := c.startProcessing(ctx, ev)
			c.handleSubscription(next, subscriber)
			return next
		default:
			log.Debug().Interface("event", ev).Msg("fsm: illegal ProcessingJob event in current state")
			return cur
		}

	case NewSubscriberEvent:
		*subscriber = ev.Sink
		c.handleSubscription(cur, subscriber)
		return cur

	case DelegateStatusMessageEvent:
		if ps, ok := cur.(*processingState); ok {
			ps.watcher.Update(time.Now())
			if ev.Msg.IsReport() {
				ps.watcher.OnReport(*ev.Msg.CandidateEvalReport)
			}
		}
		c.sendToSubscriber(subscriber, ev.Msg)
		return cur

	case RequestStopEvent:
		if ps, ok := cur.(*processingState); ok {
			log.Debug().Msg("fsm: stop requested")
			ps.cancel()
			next := idleState{job: c.defaultJob}
			c.handleSubscription(next, subscriber)
			return next
		}
		log.Debug().Msg("fsm: illegal RequestStop event in current state")
		return cur

	case PublishTimeEvent:
		if ps, ok := cur.(*processingState); ok {
			ps.watcher.Update(time.Now())
			c.sendToSubscriber(subscriber, domain.NewTimeMessage(ps.watcher.Elapsed()))
		}
		return cur

	default:
		log.Debug().Msg("fsm: unrecognized event")
		return cur
	}
}

// startProcessing captures start_instant, spawns the search driver under a
// context derived from ctx (so RequestStop can cancel it independently of
// the controller's own lifetime), and returns the new Processing state.
func (c *Controller) startProcessing(ctx context.Context, ev ProcessingJobEvent) *processingState {
	c.persistAsDefaultJob(ev.Job)

	startInstant := time.Now()
	driverCtx, cancel := context.WithCancel(ctx)

	reports := make(chan domain.CandidateEvalReport, reportBufferSize)
	conf := *ev.AlgoConf.ParallelHillClimbing

	go search.Run(driverCtx, ev.Spec, conf, ev.Call, reports, startInstant)
	go c.forwardReports(driverCtx, reports)

	return &processingState{
		cancel:  cancel,
		watcher: watcher.New(startInstant, c.nBest, c.windowLengthHint),
	}
}

// persistAsDefaultJob writes job to the disk cache so a restarted service
// recalls it instead of falling back to the built-in seed job. A failed
// write is logged and otherwise ignored: losing the recollection never
// prevents the job that's starting right now from running.
func (c *Controller) persistAsDefaultJob(job domain.ProcessingJobData) {
	if c.store == nil {
		return
	}
	if err := c.store.Store(domain.DefaultJob{ProcessingJobData: job}); err != nil {
		log.Warn().Err(err).Msg("fsm: failed to persist default job")
	}
}

// forwardReports relays the driver's reports back into the controller's own
// event channel as DelegateStatusMessageEvents.
func (c *Controller) forwardReports(ctx context.Context, reports <-chan domain.CandidateEvalReport) {
	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-reports:
			if !ok {
				return
			}
			c.Send(ctx, DelegateStatusMessageEvent{Msg: domain.NewCandidateEvalReportMessage(report)})
		}
	}
}

// handleSubscription pushes a full state snapshot to the subscriber, if
// present. Snapshot messages are built lazily, only when a subscriber is
// present.
func (c *Controller) handleSubscription(cur state, subscriber *chan<- domain.StatusMessage) {
	if *subscriber == nil {
		return
	}
	c.sendToSubscriber(subscriber, domain.NewDomainStateMessage(cur.toDomainState()))
}

// sendToSubscriber attempts a non-blocking send to the subscriber and
// clears the slot on failure, since Go channels don't surface a distinct
// notification when the receiving side has gone away.
func (c *Controller) sendToSubscriber(subscriber *chan<- domain.StatusMessage, msg domain.StatusMessage) {
	if *subscriber == nil {
		return
	}
	select {
	case *subscriber <- msg:
	default:
		log.Debug().Msg("fsm: subscriber send failed, clearing slot")
		*subscriber = nil
	}
}
