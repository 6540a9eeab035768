package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	"github.com/couchcryptid/bloom-season-etl/internal/observability"
)

// Request sources, used as a metric label.
const (
	SourceKafka = "kafka"
	SourceHTTP  = "http"
)

// Analyzer implements Transformer by running season detection on each
// request. It is also used directly by the HTTP adapter.
type Analyzer struct {
	defaults func() domain.AnalysisSettings
	topK     int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAnalyzer creates an Analyzer. defaults is called per request so that
// year ranges anchored to the current year stay current in a long-running
// process. topK applies when a request does not set its own.
func NewAnalyzer(defaults func() domain.AnalysisSettings, topK int, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		defaults: defaults,
		topK:     topK,
		logger:   logger,
		metrics:  metrics,
	}
}

// ParseRequest decodes a JSON request over the current defaults.
func (a *Analyzer) ParseRequest(data []byte) (domain.AnalysisRequest, error) {
	return domain.ParseAnalysisRequest(data, a.defaults())
}

// Transform decodes a request message and analyzes it. Only undecodable
// messages produce an error; a request with no usable rows yields a failed
// report so the caller hears back.
func (a *Analyzer) Transform(ctx context.Context, raw domain.RawEvent) (domain.AnalysisReport, error) {
	req, err := a.ParseRequest(raw.Value)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}

	report, _ := a.Analyze(ctx, req, SourceKafka)
	return report, nil
}

// Analyze runs detection for a request, assigning an ID when it has none.
// The returned error mirrors a failed report (domain.ErrNoValidData or
// domain.ErrMissingColumns).
func (a *Analyzer) Analyze(_ context.Context, req domain.AnalysisRequest, source string) (domain.AnalysisReport, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.TopK <= 0 {
		req.TopK = a.topK
	}

	start := time.Now()
	report, err := domain.Analyze(req)
	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	a.metrics.Analyses.WithLabelValues(source, report.Status).Inc()
	a.metrics.RowWarnings.Add(float64(len(report.Warnings)))

	if err != nil {
		a.logger.Warn("analysis failed",
			"request_id", report.RequestID,
			"source", source,
			"rows", len(req.Rows),
			"warnings", len(report.Warnings),
			"error", err,
		)
		return report, err
	}

	a.recordOutcomes(report.Seasons)
	a.logger.Info("analysis complete",
		"request_id", report.RequestID,
		"source", source,
		"observations", report.ObservationCount,
		"warnings", len(report.Warnings),
		"years", len(report.Seasons),
		"threshold", report.Threshold,
	)
	return report, nil
}

func (a *Analyzer) recordOutcomes(seasons []domain.SeasonResult) {
	for _, s := range seasons {
		outcome := "none"
		switch {
		case s.Unresolved():
			outcome = "unresolved"
		case s.SeasonStart != nil && s.SeasonEnd != nil:
			outcome = "complete"
		}
		a.metrics.Seasons.WithLabelValues(outcome).Inc()
	}
}
