package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	"github.com/couchcryptid/bloom-season-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxRequestBytes = 32 << 20
	exportFilename  = "bloom_season_analysis.csv"
)

// Analyzer runs season detection for a decoded request.
// *pipeline.Analyzer satisfies it.
type Analyzer interface {
	ParseRequest(data []byte) (domain.AnalysisRequest, error)
	Analyze(ctx context.Context, req domain.AnalysisRequest, source string) (domain.AnalysisReport, error)
}

// Server exposes health, readiness, metrics, and synchronous analysis endpoints.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/analyses routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, analyzer Analyzer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer: analyzer,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/analyses", s.handleAnalyze)

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

// handleAnalyze runs one analysis synchronously. The report is returned as
// JSON, or as the CSV export when ?format=csv is given. Failed analyses
// return 422 with the failed report so warnings still reach the caller.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}

	req, err := s.analyzer.ParseRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req, pipeline.SourceHTTP)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
		w.WriteHeader(http.StatusOK)
		if err := domain.WriteCSV(w, report.Seasons); err != nil {
			s.logger.Warn("csv export failed", "request_id", report.RequestID, "error", err)
		}
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
