package domain

import (
	"context"
	"time"
)

// Row is a raw input record mapping column names to untyped cell values.
type Row map[string]any

// Observation is a single typed sample after normalization.
type Observation struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Location string    `json:"location,omitempty"`
}

// ThresholdMode selects how the season cutoff is derived.
type ThresholdMode string

const (
	ThresholdDynamic ThresholdMode = "dynamic"
	ThresholdStatic  ThresholdMode = "static"
)

// IntensityMetric selects the scalar reported as a season's intensity.
type IntensityMetric string

const (
	MetricArea    IntensityMetric = "area"
	MetricPeak    IntensityMetric = "peak"
	MetricAverage IntensityMetric = "average"
)

// AnalysisSettings configures a single detection run.
type AnalysisSettings struct {
	YearRange         [2]int          `json:"year_range"` // inclusive [start, end]
	RollingWindow     int             `json:"rolling_window"`
	ThresholdMode     ThresholdMode   `json:"threshold_mode"`
	DynamicPercentile int             `json:"dynamic_percentile"`
	StaticThreshold   float64         `json:"static_threshold"`
	StartPersistence  int             `json:"start_persistence"`
	EndPersistence    int             `json:"end_persistence"`
	IntensityMetric   IntensityMetric `json:"intensity_metric"`
}

// SeasonResult describes the season detected for one calendar year.
// SeasonStart and SeasonEnd are nil when no boundary was confirmed.
type SeasonResult struct {
	Year         int        `json:"year"`
	SeasonStart  *time.Time `json:"season_start"`
	SeasonEnd    *time.Time `json:"season_end"`
	DurationDays int        `json:"duration_days"`
	Intensity    float64    `json:"intensity"`
	PeakDate     *time.Time `json:"peak_date,omitempty"`
	PeakValue    *float64   `json:"peak_value,omitempty"`
}

// Unresolved reports whether the season started but never ended.
func (r SeasonResult) Unresolved() bool {
	return r.SeasonStart != nil && r.SeasonEnd == nil
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
