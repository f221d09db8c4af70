package domain

import (
	"testing"

	"github.com/bytedance/sonic"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDomainStateJSON(t *testing.T) {
	Convey("Given a Terminal DomainState", t, func() {
		d := DomainState{Terminal: true}

		Convey("it marshals to the bare string \"Terminal\"", func() {
			raw, err := sonic.Marshal(d)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `"Terminal"`)
		})

		Convey("it round-trips through UnmarshalJSON", func() {
			raw, _ := sonic.Marshal(d)
			var decoded DomainState
			So(sonic.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded.Terminal, ShouldBeTrue)
		})
	})

	Convey("Given an Idle DomainState", t, func() {
		job := DefaultJob{ProcessingJobData: ProcessingJobData{Program: "python"}}
		d := DomainState{Idle: &job}

		Convey("it marshals as a single-key {\"Idle\": ...} object", func() {
			raw, err := sonic.Marshal(d)
			So(err, ShouldBeNil)

			var decoded DomainState
			So(sonic.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded.Idle, ShouldNotBeNil)
			So(decoded.Idle.Program, ShouldEqual, "python")
		})
	})
}

func TestStatusMessageConstructors(t *testing.T) {
	Convey("NewTimeMessage wraps a Time variant", t, func() {
		msg := NewTimeMessage(12.5)
		So(msg.Time, ShouldNotBeNil)
		So(*msg.Time, ShouldEqual, 12.5)
		So(msg.IsReport(), ShouldBeFalse)
	})

	Convey("NewCandidateEvalReportMessage wraps a report and IsReport is true", t, func() {
		report := CandidateEvalReport{Candidate: NewCandidate(nil, nil)}
		msg := NewCandidateEvalReportMessage(report)
		So(msg.IsReport(), ShouldBeTrue)
	})
}

func TestRequestMessageJSON(t *testing.T) {
	Convey("Given a StartProcessing request", t, func() {
		raw := []byte(`{"StartProcessing": {"program": "python", "args": ["obj.py"],
			"spec_file": "spec.json",
			"algo_conf": {"ParallelHillClimbing": {"relative_std_dev": 0.1, "degree_of_par": 4}}}}`)

		Convey("it unmarshals with StopProcessing nil", func() {
			var msg RequestMessage
			So(sonic.Unmarshal(raw, &msg), ShouldBeNil)
			So(msg.StartProcessing, ShouldNotBeNil)
			So(msg.StopProcessing, ShouldBeNil)
			So(msg.StartProcessing.Program, ShouldEqual, "python")

			So(msg.StartProcessing.AlgoConf.Validate(), ShouldBeNil)
		})
	})
}
