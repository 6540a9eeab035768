package domain

import (
	"time"
)

// dailySeries builds one observation per day starting at from.
func dailySeries(from time.Time, values ...float64) []Observation {
	obs := make([]Observation, len(values))
	for i, v := range values {
		obs[i] = Observation{Date: from.AddDate(0, 0, i), Value: v}
	}
	return obs
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// staticSettings returns settings with no smoothing and a fixed cutoff.
func staticSettings(threshold float64, startP, endP int) AnalysisSettings {
	return AnalysisSettings{
		YearRange:         [2]int{1900, 2100},
		RollingWindow:     1,
		ThresholdMode:     ThresholdStatic,
		DynamicPercentile: 95,
		StaticThreshold:   threshold,
		StartPersistence:  startP,
		EndPersistence:    endP,
		IntensityMetric:   MetricArea,
	}
}

// bloomYear is a single-season shape: low, a ramp to a plateau, then low.
func bloomYear(year int) []Observation {
	values := []float64{
		5, 7, 6, 8, 12, 20, 35, 55, 70, 82, 90, 95, 88, 76, 60, 48, 30, 18, 10, 8, 6, 5,
	}
	return dailySeries(day(year, time.March, 1), values...)
}
