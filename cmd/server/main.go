package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/filedrive/filedrive/internal/app"
	"github.com/filedrive/filedrive/internal/config"
	"github.com/filedrive/filedrive/internal/logger"
	"github.com/filedrive/filedrive/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	// Purge sweeper runs independently of request handling
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go app.SweepService.Start(sweepCtx)

	handler := routes.SetupRoutes(app)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
