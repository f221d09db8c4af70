// Package clock implements the event clock: an independent task emitting
// PublishTime events to the Controller FSM at a fixed interval, driving
// channerics.NewTicker off ctx.Done().
package clock

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/ssgier/momonc-service/internal/fsm"
)

// DefaultInterval is the default time-event emission interval.
const DefaultInterval = 250 * time.Millisecond

// Run emits PublishTimeEvent on controller at interval until ctx is done,
// terminating silently thereafter.
func Run(ctx context.Context, controller *fsm.Controller, interval time.Duration) {
	ticks := channerics.NewTicker(ctx.Done(), interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			controller.Send(ctx, fsm.PublishTimeEvent{})
		}
	}
}
