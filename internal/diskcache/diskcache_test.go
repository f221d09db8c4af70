package diskcache

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ssgier/momonc-service/internal/domain"
)

func TestStore(t *testing.T) {
	Convey("Given a fresh disk cache", t, func() {
		path := filepath.Join(t.TempDir(), "momonc.db")

		Convey("Retrieve returns the built-in seed default before anything is stored", func() {
			store, err := Open(path)
			So(err, ShouldBeNil)
			defer store.Close()

			job := store.Retrieve()
			So(job.Program, ShouldEqual, "python")
			So(job.AlgoConf.ParallelHillClimbing, ShouldNotBeNil)
		})

		Convey("Store then Retrieve round-trips the persisted job", func() {
			store, err := Open(path)
			So(err, ShouldBeNil)
			defer store.Close()

			job := domain.DefaultJob{ProcessingJobData: domain.ProcessingJobData{
				Program:  "custom",
				SpecFile: "custom-spec.json",
			}}
			So(store.Store(job), ShouldBeNil)

			reloaded := store.Retrieve()
			So(reloaded.Program, ShouldEqual, "custom")
			So(reloaded.SpecFile, ShouldEqual, "custom-spec.json")
		})

		Convey("A value persisted survives reopening the database", func() {
			store, err := Open(path)
			So(err, ShouldBeNil)

			job := domain.DefaultJob{ProcessingJobData: domain.ProcessingJobData{Program: "reopened"}}
			So(store.Store(job), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := Open(path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			So(reopened.Retrieve().Program, ShouldEqual, "reopened")
		})
	})
}
