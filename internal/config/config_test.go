package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Defaults returns the built-in knobs", t, func() {
		cfg := Defaults()
		So(cfg.Addr, ShouldEqual, "127.0.0.1:3000")
		So(cfg.NBest, ShouldEqual, 5)
		So(cfg.CandidateWindowSizeHint, ShouldEqual, 250)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given no config file and no flag overrides", t, func() {
		flags := &Flags{ConfigPath: strPtr(""), Addr: strPtr(""), Debug: boolPtr(false)}

		Convey("Load returns the defaults unchanged", func() {
			cfg, err := Load(flags)
			So(err, ShouldBeNil)
			So(cfg, ShouldResemble, Defaults())
		})
	})

	Convey("Given a config file overriding addr and nBest", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		yaml := "addr: 0.0.0.0:9000\nnBest: 10\n"
		So(os.WriteFile(path, []byte(yaml), 0644), ShouldBeNil)

		flags := &Flags{ConfigPath: strPtr(path), Addr: strPtr(""), Debug: boolPtr(false)}

		Convey("Load applies the file's values over the defaults", func() {
			cfg, err := Load(flags)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, "0.0.0.0:9000")
			So(cfg.NBest, ShouldEqual, 10)
			So(cfg.CandidateWindowSizeHint, ShouldEqual, 250)
		})

		Convey("An explicit -addr flag overrides the file's value", func() {
			flags.Addr = strPtr("127.0.0.1:4242")
			cfg, err := Load(flags)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, "127.0.0.1:4242")
			So(cfg.NBest, ShouldEqual, 10)
		})

		Convey("The -debug flag sets Debug regardless of the config file", func() {
			flags.Debug = boolPtr(true)
			cfg, err := Load(flags)
			So(err, ShouldBeNil)
			So(cfg.Debug, ShouldBeTrue)
		})
	})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
