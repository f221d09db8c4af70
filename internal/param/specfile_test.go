package param

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFromSpecFileJSON(t *testing.T) {
	Convey("Given a well-formed spec file", t, func() {
		raw := []byte(`{
			"initial_guess": {"a": 0.5, "b": 2.0},
			"definition":   {"a": [0.0, 1.0], "b": [1.0, 3.0]}
		}`)

		Convey("it parses into a Spec sorted by dim name", func() {
			spec, err := fromSpecFileJSON(raw)
			So(err, ShouldBeNil)
			So(spec.Names(), ShouldResemble, []string{"a", "b"})
		})
	})

	Convey("Given initial_guess and definition with mismatched key-set sizes", t, func() {
		raw := []byte(`{
			"initial_guess": {"a": 0.5},
			"definition":   {"a": [0.0, 1.0], "b": [1.0, 3.0]}
		}`)

		Convey("parsing fails", func() {
			_, err := fromSpecFileJSON(raw)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given bounds with the wrong array length", t, func() {
		raw := []byte(`{
			"initial_guess": {"a": 0.5},
			"definition":   {"a": [0.0, 1.0, 2.0]}
		}`)

		Convey("parsing fails rather than silently truncating", func() {
			_, err := fromSpecFileJSON(raw)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given initial_guess[name] == upper_bound (legal per the wire contract)", t, func() {
		raw := []byte(`{
			"initial_guess": {"a": 1.0},
			"definition":   {"a": [0.0, 1.0]}
		}`)

		Convey("it still parses, widening max_excl by one ULP", func() {
			spec, err := fromSpecFileJSON(raw)
			So(err, ShouldBeNil)
			So(spec.Dims[0].InitialReal, ShouldEqual, 1.0)
			So(spec.Dims[0].MaxReal, ShouldBeGreaterThan, 1.0)
		})
	})

	Convey("Given an initial guess outside its bounds", t, func() {
		raw := []byte(`{
			"initial_guess": {"a": 5.0},
			"definition":   {"a": [0.0, 1.0]}
		}`)

		Convey("parsing fails", func() {
			_, err := fromSpecFileJSON(raw)
			So(err, ShouldNotBeNil)
		})
	})
}
