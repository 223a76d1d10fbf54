package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/cache"
	"github.com/couchcryptid/buoy-report-service/internal/domain"
	"github.com/couchcryptid/buoy-report-service/internal/observability"
	"github.com/couchcryptid/buoy-report-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStation = "46042"
	testSource  = "https://www.ndbc.noaa.gov/data/realtime2/46042.txt"

	goodFeed = "#YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP\n" +
		"2024 03 15 18 00 270 5.1 6.3 1.20 11.0 9.0 250 1015.2 15.6 14.8\n"
	outlierFeed = "#YY MM DD hh mm WVHT\n2024 03 15 18 00 30.0\n" // ~98 ft wave
	brokenFeed  = "no header here\n"
)

// --- mocks ---

type mockFetcher struct {
	body   string
	source string
	err    error
	calls  int
}

func (m *mockFetcher) Fetch(_ context.Context) (string, string, error) {
	m.calls++
	if m.err != nil {
		return "", "", m.err
	}
	return m.body, m.source, nil
}

type mockPublisher struct {
	published []domain.Observation
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, o domain.Observation) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, o)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(f pipeline.FeedFetcher, c pipeline.ReportCache, p pipeline.ObservationPublisher) *pipeline.Service {
	return pipeline.New(f, c, p, testStation, "Monterey Bay", discardLogger(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestReport_HappyPath(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	c := cache.New(5 * time.Minute)

	svc := newService(fetcher, c, nil)

	res, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, testStation, res.Observation.StationID)
	assert.Equal(t, "Monterey Bay", res.Observation.StationName)
	assert.Equal(t, testSource, res.Observation.Source)
	assert.Equal(t, time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC), res.Observation.ObservedAt)
	require.NotNil(t, res.Observation.WindKts)
	assert.InDelta(t, 9.9136, *res.Observation.WindKts, 0.01)

	cached, ok := c.Read()
	require.True(t, ok, "successful run writes the cache")
	assert.Equal(t, res.Observation, cached)

	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestReport_SecondCallWithinTTLSkipsFetch(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	clk := clockwork.NewFakeClock()
	c := cache.NewWithClock(5*time.Minute, clk)

	svc := newService(fetcher, c, nil)

	first, err := svc.Report(context.Background())
	require.NoError(t, err)

	clk.Advance(time.Minute)
	second, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls, "warm cache short-circuits the fetch")
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Observation, second.Observation, "cached run reproduces the report exactly")
}

func TestReport_ExpiredCacheRefetches(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	clk := clockwork.NewFakeClock()
	c := cache.NewWithClock(5*time.Minute, clk)

	svc := newService(fetcher, c, nil)

	_, err := svc.Report(context.Background())
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	res, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
	assert.False(t, res.FromCache)
}

func TestReport_UpstreamFailureLeavesCacheUntouched(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("all 4 candidate sources failed")}
	c := cache.New(5 * time.Minute)

	svc := newService(fetcher, c, nil)

	_, err := svc.Report(context.Background())
	require.Error(t, err)

	_, ok := c.Read()
	assert.False(t, ok, "failed run never writes the cache")
	assert.Error(t, svc.CheckReadiness(context.Background()))
}

func TestReport_MalformedFeed(t *testing.T) {
	fetcher := &mockFetcher{body: brokenFeed, source: testSource}
	c := cache.New(5 * time.Minute)

	svc := newService(fetcher, c, nil)

	_, err := svc.Report(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedFeed)

	_, ok := c.Read()
	assert.False(t, ok)
}

func TestReport_MissingTimestamp(t *testing.T) {
	fetcher := &mockFetcher{
		body:   "#YY MM DD hh mm WSPD\n24 03 15 MM 00 5.0\n",
		source: testSource,
	}
	c := cache.New(5 * time.Minute)

	svc := newService(fetcher, c, nil)

	_, err := svc.Report(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingTimestamp)
}

func TestReport_PriorEntryServesThroughFailures(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	clk := clockwork.NewFakeClock()
	c := cache.NewWithClock(5*time.Minute, clk)

	svc := newService(fetcher, c, nil)

	_, err := svc.Report(context.Background())
	require.NoError(t, err)

	// Upstream goes down, but the warm entry keeps serving.
	fetcher.err = errors.New("upstream down")
	clk.Advance(time.Minute)

	res, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, res.FromCache)
}

func TestReport_OutOfRangeValuesWarnButSucceed(t *testing.T) {
	fetcher := &mockFetcher{body: outlierFeed, source: testSource}
	c := cache.New(5 * time.Minute)

	svc := newService(fetcher, c, nil)

	res, err := svc.Report(context.Background())
	require.NoError(t, err, "range warnings never fail the run")

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "wave_height_ft", res.Warnings[0].Field)
	require.NotNil(t, res.Observation.WaveHeightFt)
	assert.InDelta(t, 98.4252, *res.Observation.WaveHeightFt, 0.001, "outlier is reported, not nulled")
}

func TestReport_PublishesFreshObservations(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	c := cache.New(5 * time.Minute)
	pub := &mockPublisher{}

	svc := newService(fetcher, c, pub)

	res, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, res.Observation, pub.published[0])

	// Cache hit: nothing new to publish.
	_, err = svc.Report(context.Background())
	require.NoError(t, err)
	assert.Len(t, pub.published, 1)
}

func TestReport_PublishFailureIsNotFatal(t *testing.T) {
	fetcher := &mockFetcher{body: goodFeed, source: testSource}
	c := cache.New(5 * time.Minute)
	pub := &mockPublisher{err: errors.New("broker unavailable")}

	svc := newService(fetcher, c, pub)

	res, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testStation, res.Observation.StationID)

	_, ok := c.Read()
	assert.True(t, ok, "publish failure does not roll back the cache write")
}
