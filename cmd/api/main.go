package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfextract-backend/internal/bootstrap"
	"pdfextract-backend/internal/shared/config"
	"pdfextract-backend/internal/shared/server"
	"pdfextract-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	workerDone := make(chan error, 1)
	if app.EmbeddedWorker() {
		telemetry.Info("api.embedded_worker", map[string]any{
			"record_store": cfg.RecordStoreType,
			"work_queue":   cfg.WorkQueueType,
		})
		go func() { workerDone <- app.NewWorker().Run(ctx) }()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	telemetry.Info("api.shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err})
	}
	<-workerDone
}
