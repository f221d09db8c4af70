// Package logging configures the process-wide github.com/rs/zerolog logger:
// pretty console output in debug/dev mode, structured JSON otherwise. Every
// package that logs (objfunc, fsm, wsserver, cmd/momoncd) writes
// through github.com/rs/zerolog/log's global logger rather than holding its
// own, so a single call here governs format and level for the whole binary.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the global zerolog logger. debug selects both the
// console-pretty writer and the Debug level; otherwise logs are emitted as
// one JSON object per line at Info level, suited to log aggregation.
func Init(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().
			Timestamp().
			Logger()
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
