// Package httpadapter exposes the report, health, readiness, and metrics
// HTTP endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/domain"
	"github.com/couchcryptid/buoy-report-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportProvider serves one normalized observation per call.
type ReportProvider interface {
	Report(ctx context.Context) (pipeline.Result, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	reports    ReportProvider
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/v1/report, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, reports ReportProvider, ready ReadinessChecker, staleAfter time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports:    reports,
		staleAfter: staleAfter,
		logger:     logger,
	}

	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// reportResponse is the outbound record: the observation plus the display
// staleness flag and the advisory warning side channel.
type reportResponse struct {
	domain.Observation
	Stale    bool     `json:"stale"`
	Cached   bool     `json:"cached"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	res, err := s.reports.Report(r.Context())
	if err != nil {
		// Pipeline detail stays in logs and metrics; the boundary
		// returns one generic failure shape.
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "report unavailable"})
		return
	}

	resp := reportResponse{
		Observation: res.Observation,
		Stale:       res.Observation.Stale(s.staleAfter),
		Cached:      res.FromCache,
	}
	for _, warning := range res.Warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
