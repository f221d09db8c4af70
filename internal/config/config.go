// Package config loads momoncd's runtime configuration: a YAML file via
// github.com/spf13/viper, overridden by CLI flags.
package config

import (
	"flag"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the wiring entrypoint (cmd/momoncd) needs at
// startup: the service's external interface (listen address) plus ambient
// knobs (worker count, timing/window hints, disk cache path).
type Config struct {
	Addr                    string        `mapstructure:"addr"`
	NumWorkerThreads        int           `mapstructure:"numWorkerThreads"`
	TimeEventInterval       time.Duration `mapstructure:"timeEventInterval"`
	CandidateWindowSizeHint int           `mapstructure:"candidateWindowSizeHint"`
	NBest                   int           `mapstructure:"nBest"`
	DiskCachePath           string        `mapstructure:"diskCachePath"`
	Debug                   bool          `mapstructure:"-"`
}

// Defaults returns the built-in configuration used when no config file is
// present and no flags override it.
func Defaults() Config {
	return Config{
		Addr:                    "127.0.0.1:3000",
		NumWorkerThreads:        1,
		TimeEventInterval:       250 * time.Millisecond,
		CandidateWindowSizeHint: 250,
		NBest:                   5,
		DiskCachePath:           "momonc.db",
	}
}

// Flags holds the parsed CLI override values, as registered by
// RegisterFlags.
type Flags struct {
	ConfigPath *string
	Addr       *string
	Debug      *bool
}

// RegisterFlags declares the CLI flags momoncd accepts. Call flag.Parse()
// after this (and any other flag registration) completes.
func RegisterFlags() *Flags {
	return &Flags{
		ConfigPath: flag.String("config", "", "path to config.yaml"),
		Addr:       flag.String("addr", "", "listen address, overrides config file"),
		Debug:      flag.Bool("debug", false, "enable debug-level logging"),
	}
}

// Load builds the effective Config: defaults, overridden by the config file
// at flags.ConfigPath (if set; a set path that cannot be read or parsed is
// an error), overridden by any explicitly-set CLI flags.
func Load(flags *Flags) (Config, error) {
	cfg := Defaults()

	if flags.ConfigPath != nil && *flags.ConfigPath != "" {
		vp := viper.New()
		vp.SetConfigFile(*flags.ConfigPath)
		vp.SetConfigType("yaml")

		if err := vp.ReadInConfig(); err != nil {
			return Config{}, err
		}
		if err := vp.Unmarshal(&cfg); err != nil {
			return Config{}, err
		}
	}

	if flags.Addr != nil && *flags.Addr != "" {
		cfg.Addr = *flags.Addr
	}
	if flags.Debug != nil {
		cfg.Debug = *flags.Debug
	}

	return cfg, nil
}
