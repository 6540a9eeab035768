package domain

// Analysis defaults used when a request leaves a setting out.
const (
	DefaultYearSpan          = 10
	DefaultRollingWindow     = 5
	DefaultDynamicPercentile = 95
	DefaultStaticThreshold   = 50
	DefaultPersistence       = 7
	DefaultTopYears          = 3
)

// DefaultSettings returns the default analysis settings, covering the last
// DefaultYearSpan years up to and including the current year.
func DefaultSettings() AnalysisSettings {
	year := clock.Now().UTC().Year()
	return AnalysisSettings{
		YearRange:         [2]int{year - DefaultYearSpan + 1, year},
		RollingWindow:     DefaultRollingWindow,
		ThresholdMode:     ThresholdDynamic,
		DynamicPercentile: DefaultDynamicPercentile,
		StaticThreshold:   DefaultStaticThreshold,
		StartPersistence:  DefaultPersistence,
		EndPersistence:    DefaultPersistence,
		IntensityMetric:   MetricArea,
	}
}

// Sanitize returns a copy with out-of-range values clamped instead of
// rejected: window and persistences to at least 1, the percentile into
// [1, 100], unknown threshold modes to dynamic, and unknown metrics to area.
// The year range is left as given; an inverted range simply matches no year.
func (s AnalysisSettings) Sanitize() AnalysisSettings {
	s.RollingWindow = max(s.RollingWindow, 1)
	s.StartPersistence = max(s.StartPersistence, 1)
	s.EndPersistence = max(s.EndPersistence, 1)
	s.DynamicPercentile = min(max(s.DynamicPercentile, 1), 100)

	if s.ThresholdMode != ThresholdStatic {
		s.ThresholdMode = ThresholdDynamic
	}

	switch s.IntensityMetric {
	case MetricArea, MetricPeak, MetricAverage:
	default:
		s.IntensityMetric = MetricArea
	}
	return s
}

// InYearRange reports whether year falls inside the inclusive range.
func (s AnalysisSettings) InYearRange(year int) bool {
	return year >= s.YearRange[0] && year <= s.YearRange[1]
}
