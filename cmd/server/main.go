package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/buoy-report-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/buoy-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/buoy-report-service/internal/cache"
	"github.com/couchcryptid/buoy-report-service/internal/config"
	"github.com/couchcryptid/buoy-report-service/internal/fetch"
	"github.com/couchcryptid/buoy-report-service/internal/observability"
	"github.com/couchcryptid/buoy-report-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := fetch.New(cfg.SourceURLs, cfg.FetchTimeout, logger, metrics)
	reportCache := cache.New(cfg.CacheTTL)

	// Observation publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.ObservationPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("kafka observation publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka observation publishing disabled")
	}

	svc := pipeline.New(fetcher, reportCache, publisher, cfg.StationID, cfg.StationName, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.StaleAfter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("buoy report service started",
		"station", cfg.StationID,
		"sources", len(cfg.SourceURLs),
		"cache_ttl", cfg.CacheTTL,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
