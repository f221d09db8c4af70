package objfunc

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ssgier/momonc-service/internal/domain"
)

func trivialCandidate() domain.Candidate {
	return domain.NewCandidate([]string{"x"}, []domain.Value{domain.RealValue(0.5)})
}

func TestEvaluate(t *testing.T) {
	Convey("Given a child that writes a well-formed result to stdout", t, func() {
		inv := New(Call{
			Program: "sh",
			Args:    []string{"-c", `echo '{"obj_func_val": 1.5}'`},
		})

		Convey("Evaluate returns the parsed value", func() {
			val := inv.Evaluate(context.Background(), trivialCandidate())
			So(val, ShouldNotBeNil)
			So(*val, ShouldEqual, 1.5)
		})
	})

	Convey("Given a child that writes to stderr", t, func() {
		inv := New(Call{
			Program: "sh",
			Args:    []string{"-c", `echo oops 1>&2; echo '{"obj_func_val": 1.0}'`},
		})

		Convey("Evaluate treats the evaluation as absent", func() {
			val := inv.Evaluate(context.Background(), trivialCandidate())
			So(val, ShouldBeNil)
		})
	})

	Convey("Given a child whose stdout does not parse", t, func() {
		inv := New(Call{Program: "sh", Args: []string{"-c", `echo not json`}})

		Convey("Evaluate treats the evaluation as absent", func() {
			val := inv.Evaluate(context.Background(), trivialCandidate())
			So(val, ShouldBeNil)
		})
	})

	Convey("Given a child reporting a non-finite result", t, func() {
		inv := New(Call{Program: "sh", Args: []string{"-c", `echo '{"obj_func_val": 1e400}'`}})

		Convey("Evaluate treats the evaluation as absent", func() {
			val := inv.Evaluate(context.Background(), trivialCandidate())
			So(val, ShouldBeNil)
		})
	})

	Convey("Given a program that cannot be spawned", t, func() {
		inv := New(Call{Program: "/no/such/program"})

		Convey("Evaluate treats the evaluation as absent", func() {
			val := inv.Evaluate(context.Background(), trivialCandidate())
			So(val, ShouldBeNil)
		})
	})
}
