package fsm

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ssgier/momonc-service/internal/algo"
	"github.com/ssgier/momonc-service/internal/diskcache"
	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/objfunc"
	"github.com/ssgier/momonc-service/internal/param"
)

func testDefaultJob() domain.DefaultJob {
	return domain.DefaultJob{ProcessingJobData: domain.ProcessingJobData{
		Program: "echo",
	}}
}

func testSpec(t *testing.T) param.Spec {
	dim, err := param.NewRealDim("x", 0.5, 0.0, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := param.New([]param.Dim{dim})
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func drainOne(t *testing.T, ch chan domain.StatusMessage) domain.StatusMessage {
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status message")
		return domain.StatusMessage{}
	}
}

func TestControllerSubscription(t *testing.T) {
	Convey("Given a controller in its initial Idle state", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		defaultJob := testDefaultJob()
		c := NewController(defaultJob, nil, 0, 0)
		go c.Run(ctx)

		Convey("NewSubscriber immediately receives an Idle snapshot", func() {
			sub := make(chan domain.StatusMessage, 8)
			c.Send(ctx, NewSubscriberEvent{Sink: sub})

			msg := drainOne(t, sub)
			So(msg.DomainState, ShouldNotBeNil)
			So(msg.DomainState.Idle, ShouldNotBeNil)
			So(msg.DomainState.Idle.Program, ShouldEqual, defaultJob.Program)
		})
	})
}

func TestControllerProcessingLifecycle(t *testing.T) {
	Convey("Given a controller with a subscriber already attached", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := NewController(testDefaultJob(), nil, 0, 0)
		go c.Run(ctx)

		sub := make(chan domain.StatusMessage, 64)
		c.Send(ctx, NewSubscriberEvent{Sink: sub})
		drainOne(t, sub) // initial Idle snapshot

		Convey("ProcessingJob transitions to Processing and pushes a Processing snapshot", func() {
			spec := testSpec(t)
			conf := algo.Config{ParallelHillClimbing: &algo.ParallelHillClimbingConfig{
				RelativeStdDev: 0.1, DegreeOfPar: 1,
			}}
			call := objfunc.Call{Program: "sh", Args: []string{"-c", `echo '{"obj_func_val": 1.0}'`}}

			c.Send(ctx, ProcessingJobEvent{
				Job:      domain.ProcessingJobData{Program: call.Program, Args: call.Args, AlgoConf: conf},
				Spec:     spec,
				AlgoConf: conf,
				Call:     call,
			})

			msg := drainOne(t, sub)
			So(msg.DomainState, ShouldNotBeNil)
			So(msg.DomainState.Processing, ShouldNotBeNil)

			Convey("CandidateEvalReports are forwarded to the subscriber while Processing", func() {
				var sawReport bool
				for i := 0; i < 20; i++ {
					m := drainOne(t, sub)
					if m.CandidateEvalReport != nil {
						sawReport = true
						break
					}
				}
				So(sawReport, ShouldBeTrue)
			})

			Convey("RequestStop returns to Idle and pushes an Idle snapshot", func() {
				c.Send(ctx, RequestStopEvent{})

				var sawIdle bool
				for i := 0; i < 40; i++ {
					m := drainOne(t, sub)
					if m.DomainState != nil && m.DomainState.Idle != nil {
						sawIdle = true
						break
					}
				}
				So(sawIdle, ShouldBeTrue)
			})
		})
	})
}

func TestControllerPersistsDefaultJob(t *testing.T) {
	Convey("Given a controller backed by a disk cache", t, func() {
		store, err := diskcache.Open(filepath.Join(t.TempDir(), "momonc.db"))
		So(err, ShouldBeNil)
		defer store.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := NewController(testDefaultJob(), store, 0, 0)
		go c.Run(ctx)

		Convey("starting a ProcessingJob persists it as the new recollection", func() {
			spec := testSpec(t)
			conf := algo.Config{ParallelHillClimbing: &algo.ParallelHillClimbingConfig{
				RelativeStdDev: 0.1, DegreeOfPar: 1,
			}}
			call := objfunc.Call{Program: "sh", Args: []string{"-c", `echo '{"obj_func_val": 1.0}'`}}
			job := domain.ProcessingJobData{
				Program:  call.Program,
				Args:     call.Args,
				SpecFile: "spec.json",
				AlgoConf: conf,
			}

			c.Send(ctx, ProcessingJobEvent{Job: job, Spec: spec, AlgoConf: conf, Call: call})

			So(waitFor(func() bool {
				return store.Retrieve().Program == job.Program
			}), ShouldBeTrue)
			So(store.Retrieve().SpecFile, ShouldEqual, job.SpecFile)
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
