// Command todo-fakeapi serves an in-memory todo API for local development.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/fakeapi"
	"github.com/idilsaglam/todo/internal/logger"
)

func main() {
	cfg := config.MustLoad()

	// the server owns its terminal, so it logs to stdout
	log, _, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := fakeapi.New(
		fakeapi.WithSecret(cfg.FakeAPI.JWTSecret),
		fakeapi.WithTokenTTL(cfg.FakeAPI.TokenTTL),
		fakeapi.WithLogger(log),
	)
	if err := srv.Run(ctx, cfg.FakeAPI.Addr); err != nil {
		log.Error("fake api stopped", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
