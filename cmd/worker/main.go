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
	"pdfextract-backend/internal/shared/metrics"
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

	if app.EmbeddedWorker() {
		// Nothing else can reach an in-memory queue; run the API binary instead.
		log.Fatalf("worker needs shared backends: RECORD_STORE=%s WORK_QUEUE=%s", cfg.RecordStoreType, cfg.WorkQueueType)
	}

	metricsSrv := startMetricsServer(cfg.MetricsAddr)

	if err := app.NewWorker().Run(ctx); err != nil {
		telemetry.Error("worker.run_failed", map[string]any{"error": err})
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		telemetry.Info("worker.metrics.listening", map[string]any{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("worker.metrics.failed", map[string]any{"error": err})
		}
	}()
	return srv
}
