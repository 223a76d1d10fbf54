// Package pipeline sequences one report request: cache check, fetch,
// parse, extract, normalize, validate, store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/domain"
	"github.com/couchcryptid/buoy-report-service/internal/observability"
)

// FeedFetcher retrieves the raw report body from the first healthy
// candidate source, returning the body and the winning URL.
type FeedFetcher interface {
	Fetch(ctx context.Context) (body string, source string, err error)
}

// ReportCache memoizes the last normalized observation.
type ReportCache interface {
	Read() (domain.Observation, bool)
	Write(domain.Observation)
}

// ObservationPublisher forwards freshly built observations to an external
// sink. Publish failures never fail the report itself.
type ObservationPublisher interface {
	Publish(ctx context.Context, o domain.Observation) error
}

// Result is one served report: the observation, its advisory range
// warnings, and whether the cache short-circuited the run.
type Result struct {
	Observation domain.Observation
	Warnings    []domain.Warning
	FromCache   bool
}

// Service orchestrates the report pipeline for one configured station.
type Service struct {
	fetcher   FeedFetcher
	cache     ReportCache
	publisher ObservationPublisher // nil disables publishing

	stationID   string
	stationName string

	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service. Pass a nil publisher to disable observation
// publishing.
func New(fetcher FeedFetcher, cache ReportCache, publisher ObservationPublisher, stationID, stationName string, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher:     fetcher,
		cache:       cache,
		publisher:   publisher,
		stationID:   stationID,
		stationName: stationName,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the service has served at least one
// report.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no report served yet")
	}
	return nil
}

// Report serves one normalized observation: from the cache when the entry
// is warm, otherwise by running the full pipeline. A failed run never
// writes to the cache, so a prior good entry keeps serving until it
// expires.
func (s *Service) Report(ctx context.Context) (Result, error) {
	if obs, ok := s.cache.Read(); ok {
		s.metrics.ReportsServed.WithLabelValues("cache").Inc()
		s.ready.Store(true)
		return Result{Observation: obs, Warnings: s.validate(obs), FromCache: true}, nil
	}

	start := time.Now()

	body, source, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, s.fail("upstream_unavailable", err)
	}

	feed, err := domain.ParseFeed(body)
	if err != nil {
		return Result{}, s.fail("malformed_feed", fmt.Errorf("%s: %w", source, err))
	}

	obs, err := domain.BuildObservation(feed, s.stationID, s.stationName, source)
	if err != nil {
		return Result{}, s.fail(failureReason(err), fmt.Errorf("%s: %w", source, err))
	}

	warnings := s.validate(obs)

	s.cache.Write(obs)
	s.publish(ctx, obs)

	s.metrics.ReportsServed.WithLabelValues("upstream").Inc()
	s.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	s.ready.Store(true)

	s.logger.Info("report built",
		"station", s.stationID,
		"source", source,
		"observed_at", obs.ObservedAt,
		"warnings", len(warnings),
	)

	return Result{Observation: obs, Warnings: warnings}, nil
}

func (s *Service) validate(obs domain.Observation) []domain.Warning {
	warnings := domain.ValidateObservation(obs)
	for _, w := range warnings {
		s.metrics.RangeWarnings.WithLabelValues(w.Field).Inc()
		s.logger.Warn("observation value out of plausible range",
			"station", s.stationID,
			"field", w.Field,
			"value", w.Value,
		)
	}
	return warnings
}

func (s *Service) publish(ctx context.Context, obs domain.Observation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, obs); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("observation publish failed", "station", s.stationID, "error", err)
	}
}

func (s *Service) fail(reason string, err error) error {
	s.metrics.PipelineFailures.WithLabelValues(reason).Inc()
	s.logger.Error("report pipeline failed", "station", s.stationID, "reason", reason, "error", err)
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingTimestamp):
		return "missing_timestamp"
	case errors.Is(err, domain.ErrMalformedFeed):
		return "malformed_feed"
	default:
		return "other"
	}
}
