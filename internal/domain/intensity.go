package domain

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the intensity figures for one season window.
type Summary struct {
	Intensity float64
	PeakDate  *time.Time
	PeakValue *float64
}

// Summarize computes the intensity metric and peak over the observations
// dated within [start, end] inclusive. The peak is the first maximum in
// date order. An empty window yields zero intensity and no peak.
func Summarize(sorted []Observation, start, end time.Time, metric IntensityMetric) Summary {
	values := make([]float64, 0, len(sorted))
	var peak *Observation
	for i := range sorted {
		o := &sorted[i]
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		values = append(values, o.Value)
		if peak == nil || o.Value > peak.Value {
			peak = o
		}
	}

	if peak == nil {
		return Summary{}
	}

	peakDate, peakValue := peak.Date, peak.Value
	summary := Summary{
		PeakDate:  &peakDate,
		PeakValue: &peakValue,
	}
	switch metric {
	case MetricPeak:
		summary.Intensity = peak.Value
	case MetricAverage:
		summary.Intensity = stat.Mean(values, nil)
	default:
		summary.Intensity = floats.Sum(values)
	}
	return summary
}

// DurationDays returns end-start in whole days, rounded to the nearest day.
func DurationDays(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours() / 24))
}
