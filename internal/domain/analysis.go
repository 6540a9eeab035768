package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMissingColumns is returned when the date or value column is neither
// given nor detectable from the column names.
var ErrMissingColumns = errors.New("date and value columns are required")

// Report statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// AnalysisRequest is a detection job: raw rows, the columns to read, and
// the settings to apply.
type AnalysisRequest struct {
	ID             string           `json:"id,omitempty"`
	DateColumn     string           `json:"date_column,omitempty"`
	ValueColumn    string           `json:"value_column,omitempty"`
	LocationColumn string           `json:"location_column,omitempty"`
	Columns        []string         `json:"columns,omitempty"` // header order, used for column detection
	Rows           []Row            `json:"rows"`
	Settings       AnalysisSettings `json:"settings"`
	TopK           int              `json:"top_k,omitempty"`
}

// AnalysisReport is the outcome of one request. Warnings are always
// included, even for failed runs.
type AnalysisReport struct {
	RequestID        string           `json:"request_id"`
	Status           string           `json:"status"`
	Error            string           `json:"error,omitempty"`
	Columns          Columns          `json:"columns"`
	Settings         AnalysisSettings `json:"settings"`
	Threshold        float64          `json:"threshold"`
	ObservationCount int              `json:"observation_count"`
	Warnings         []string         `json:"warnings"`
	Seasons          []SeasonResult   `json:"seasons"`
	TopYears         []SeasonResult   `json:"top_years"`
	ProcessedAt      time.Time        `json:"processed_at"`
}

// ParseAnalysisRequest decodes a JSON request. Settings fields absent from
// the payload keep the values from defaults.
func ParseAnalysisRequest(data []byte, defaults AnalysisSettings) (AnalysisRequest, error) {
	req := AnalysisRequest{Settings: defaults}
	if err := json.Unmarshal(data, &req); err != nil {
		return AnalysisRequest{}, fmt.Errorf("parse analysis request: %w", err)
	}
	return req, nil
}

// ResolveColumns fills any column the request leaves empty using
// DetectColumns over the declared header, or over the row keys when no
// header is given.
func (r AnalysisRequest) ResolveColumns() Columns {
	cols := Columns{Date: r.DateColumn, Value: r.ValueColumn, Location: r.LocationColumn}
	if cols.Date != "" && cols.Value != "" {
		return cols
	}

	names := r.Columns
	if len(names) == 0 {
		names = ColumnNames(r.Rows)
	}
	detected := DetectColumns(names)
	if cols.Date == "" {
		cols.Date = detected.Date
	}
	if cols.Value == "" {
		cols.Value = detected.Value
	}
	if cols.Location == "" {
		cols.Location = detected.Location
	}
	return cols
}

// Analyze runs the full detection pipeline for a request. It always returns
// a report; the error is non-nil (ErrMissingColumns or ErrNoValidData) when
// the report status is failed.
func Analyze(req AnalysisRequest) (AnalysisReport, error) {
	settings := req.Settings.Sanitize()
	cols := req.ResolveColumns()

	report := AnalysisReport{
		RequestID:   req.ID,
		Status:      StatusOK,
		Columns:     cols,
		Settings:    settings,
		Warnings:    []string{},
		Seasons:     []SeasonResult{},
		TopYears:    []SeasonResult{},
		ProcessedAt: clock.Now().UTC(),
	}

	if cols.Date == "" || cols.Value == "" {
		return failReport(report, ErrMissingColumns), ErrMissingColumns
	}

	obs, warnings := Normalize(req.Rows, cols.Date, cols.Value, cols.Location)
	if warnings != nil {
		report.Warnings = warnings
	}
	report.ObservationCount = len(obs)

	seasons, threshold, err := detect(obs, settings)
	if err != nil {
		return failReport(report, err), err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopYears
	}

	report.Threshold = threshold
	report.Seasons = seasons
	report.TopYears = TopYears(seasons, topK)
	return report, nil
}

func failReport(report AnalysisReport, err error) AnalysisReport {
	report.Status = StatusFailed
	report.Error = err.Error()
	return report
}
