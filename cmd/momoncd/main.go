// momoncd is the momonc-service server binary: it wires together the
// Controller FSM, the event clock, the disk-backed default-job cache, and
// the websocket/HTTP transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ssgier/momonc-service/internal/clock"
	"github.com/ssgier/momonc-service/internal/config"
	"github.com/ssgier/momonc-service/internal/diskcache"
	"github.com/ssgier/momonc-service/internal/fsm"
	"github.com/ssgier/momonc-service/internal/logging"
	"github.com/ssgier/momonc-service/internal/wsserver"
)

func main() {
	flags := config.RegisterFlags()
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "momoncd: load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Debug)

	if err := runApp(cfg); err != nil {
		log.Fatal().Err(err).Msg("momoncd: fatal error")
	}
}

func runApp(cfg config.Config) error {
	runtime.GOMAXPROCS(cfg.NumWorkerThreads)

	cache, err := diskcache.Open(cfg.DiskCachePath)
	if err != nil {
		return fmt.Errorf("open disk cache: %w", err)
	}
	defer cache.Close()

	ctx, cancel := signalContext()
	defer cancel()

	controller := fsm.NewController(cache.Retrieve(), cache, cfg.NBest, cfg.CandidateWindowSizeHint)
	go controller.Run(ctx)
	go clock.Run(ctx, controller, cfg.TimeEventInterval)

	router := wsserver.NewRouter(controller)
	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info().Str("addr", cfg.Addr).Msg("momoncd: listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()
	return ctx, cancel
}
