package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/templui/pixelskins/internal/app"
	"github.com/templui/pixelskins/internal/config"
	"github.com/templui/pixelskins/internal/logger"
	"github.com/templui/pixelskins/internal/routes"
	"github.com/templui/pixelskins/internal/service"
)

const requestMargin = 10 * time.Second

// requestBudget is the longest a generation request can take: the provider
// call, the optional mirror upload and some slack for the rest of the handler.
func requestBudget(cfg *config.Config) time.Duration {
	return cfg.ImageTimeout + service.MirrorTimeout + requestMargin
}

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.AppEnv, cfg.SentryDSN)
	defer logger.Flush()

	err := run(cfg)
	if err != nil {
		slog.Error("server failed", "error", err)
		logger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	app, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      requestBudget(cfg),
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		// In-flight generations may run for the full request budget before their save is queued.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), requestBudget(cfg))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
