package domain

import "slices"

// Threshold returns the season cutoff. In static mode it is the configured
// value. In dynamic mode it is the raw value at index floor(N*p/100) of the
// ascending values, clamped to the last element. Returns 0 for an empty
// series in dynamic mode.
func Threshold(obs []Observation, s AnalysisSettings) float64 {
	s = s.Sanitize()
	if s.ThresholdMode == ThresholdStatic {
		return s.StaticThreshold
	}
	if len(obs) == 0 {
		return 0
	}

	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	slices.Sort(values)

	idx := len(values) * s.DynamicPercentile / 100
	idx = min(idx, len(values)-1)
	return values[idx]
}
