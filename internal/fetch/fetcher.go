package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/observability"
)

// Attempt records the outcome of one candidate fetch.
type Attempt struct {
	URL string
	Err error
}

// UpstreamError means every candidate source failed or timed out. It
// carries the ordered per-candidate failures for diagnostics.
type UpstreamError struct {
	Attempts []Attempt
}

func (e *UpstreamError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.URL, a.Err)
	}
	return fmt.Sprintf("all %d candidate sources failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

// Fetcher retrieves the raw report body from an ordered list of candidate
// sources. Candidates are tried strictly in order, one attempt each, so
// resilience never multiplies load on the upstream.
type Fetcher struct {
	client  *http.Client
	sources []string
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Fetcher over the given candidate URLs with a per-attempt
// timeout.
func New(sources []string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		client:  &http.Client{},
		sources: sources,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the body and URL of the first candidate that answers with a
// 2xx within the per-attempt timeout. On total failure it returns an
// *UpstreamError listing every attempt in order.
func (f *Fetcher) Fetch(ctx context.Context) (string, string, error) {
	attempts := make([]Attempt, 0, len(f.sources))

	for _, source := range f.sources {
		start := time.Now()
		body, err := f.attempt(ctx, source)
		if err != nil {
			f.metrics.FetchAttempts.WithLabelValues(source, "error").Inc()
			f.logger.Warn("fetch attempt failed", "source", source, "error", err)
			attempts = append(attempts, Attempt{URL: source, Err: err})
			continue
		}
		f.metrics.FetchAttempts.WithLabelValues(source, "success").Inc()
		f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		return body, source, nil
	}

	return "", "", &UpstreamError{Attempts: attempts}
}

func (f *Fetcher) attempt(ctx context.Context, source string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("feed source error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
