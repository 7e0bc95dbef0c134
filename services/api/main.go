package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sgostarter/i/l"

	"github.com/hplc-lab/trace-viewer/services/api/config"
	"github.com/hplc-lab/trace-viewer/services/api/db"
	httpserver "github.com/hplc-lab/trace-viewer/services/api/http"
)

func main() {
	logger := l.NewConsoleLoggerWrapper()

	cfg, err := config.Load()
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("config error")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("db connection error")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("schema error")
	}

	srv := httpserver.New(cfg, store, logger)
	logger.WithFields(l.StringField("addr", cfg.ListenAddr())).Info("REST API listening")

	if err := srv.Run(ctx); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("server error")
	}
}
