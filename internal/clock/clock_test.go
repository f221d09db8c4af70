package clock

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ssgier/momonc-service/internal/algo"
	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/fsm"
	"github.com/ssgier/momonc-service/internal/objfunc"
	"github.com/ssgier/momonc-service/internal/param"
)

func TestRun(t *testing.T) {
	Convey("Given a controller with a subscriber attached", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		controller := fsm.NewController(domain.DefaultJob{}, nil, 0, 0)
		go controller.Run(ctx)

		sub := make(chan domain.StatusMessage, 32)
		controller.Send(ctx, fsm.NewSubscriberEvent{Sink: sub})

		select {
		case <-sub: // initial Idle snapshot
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for initial snapshot")
		}

		Convey("Run emits Time status messages at roughly the given interval while Processing", func() {
			// The controller only answers PublishTime with a Time message while
			// a job is Processing; a slow objective keeps reports from crowding
			// the subscriber channel.
			dim, err := param.NewRealDim("x", 0.5, 0.0, 1.0)
			if err != nil {
				t.Fatal(err)
			}
			spec, err := param.New([]param.Dim{dim})
			if err != nil {
				t.Fatal(err)
			}
			conf := algo.Config{ParallelHillClimbing: &algo.ParallelHillClimbingConfig{RelativeStdDev: 0.1, DegreeOfPar: 1}}
			call := objfunc.Call{Program: "sh", Args: []string{"-c", `sleep 5; echo '{"obj_func_val": 1.0}'`}}
			controller.Send(ctx, fsm.ProcessingJobEvent{Spec: spec, AlgoConf: conf, Call: call})

			go Run(ctx, controller, 20*time.Millisecond)

			var sawTime bool
			for i := 0; i < 20; i++ {
				select {
				case msg := <-sub:
					if msg.Time != nil {
						sawTime = true
					}
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for a Time status message")
				}
				if sawTime {
					break
				}
			}
			So(sawTime, ShouldBeTrue)
		})

		Convey("Run terminates promptly once ctx is cancelled", func() {
			done := make(chan struct{})
			go func() {
				Run(ctx, controller, 20*time.Millisecond)
				close(done)
			}()

			cancel()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Run did not terminate after ctx cancellation")
			}
		})
	})
}
