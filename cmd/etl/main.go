package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/bloom-season-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/bloom-season-etl/internal/adapter/kafka"
	"github.com/couchcryptid/bloom-season-etl/internal/config"
	"github.com/couchcryptid/bloom-season-etl/internal/observability"
	"github.com/couchcryptid/bloom-season-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	logger.Info("analysis defaults",
		"year_span", cfg.YearSpan,
		"rolling_window", cfg.RollingWindow,
		"threshold_mode", cfg.ThresholdMode,
		"intensity_metric", cfg.IntensityMetric,
		"workers", cfg.AnalysisWorkers,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	analyzer := pipeline.NewAnalyzer(cfg.AnalysisDefaults, cfg.TopYears, logger, metrics)

	p := pipeline.New(reader, analyzer, writer, logger, metrics, pipeline.Options{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.AnalysisWorkers,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, analyzer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// Let the in-flight batch finish before closing the clients it uses.
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
