package domain

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

// ErrNoValidData is returned when a run has no observations to analyze,
// which usually means the wrong columns were selected.
var ErrNoValidData = errors.New("no valid data rows after processing")

// DetectSeasons finds at most one season per calendar year in the settings'
// year range. The rolling mean and threshold are computed once over the
// whole dataset. Results are sorted by year, newest first. Only an empty
// input is an error; a year without a season is a normal result.
func DetectSeasons(obs []Observation, settings AnalysisSettings) ([]SeasonResult, error) {
	results, _, err := detect(obs, settings)
	return results, err
}

// detect is DetectSeasons that also returns the threshold it applied.
func detect(obs []Observation, settings AnalysisSettings) ([]SeasonResult, float64, error) {
	if len(obs) == 0 {
		return nil, 0, ErrNoValidData
	}
	settings = settings.Sanitize()

	smoothed := RollingMean(obs, settings.RollingWindow)
	threshold := Threshold(obs, settings)

	years := groupByYear(obs, settings)
	results := make([]SeasonResult, 0, len(years))
	for year, yearObs := range years {
		results = append(results, detectYear(year, sortedByDate(yearObs), smoothed, threshold, settings))
	}

	slices.SortFunc(results, func(a, b SeasonResult) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return results, threshold, nil
}

// groupByYear buckets observations by UTC calendar year, dropping years
// outside the configured range.
func groupByYear(obs []Observation, settings AnalysisSettings) map[int][]Observation {
	years := make(map[int][]Observation)
	for _, o := range obs {
		year := o.Date.UTC().Year()
		if !settings.InYearRange(year) {
			continue
		}
		years[year] = append(years[year], o)
	}
	return years
}

// detectYear runs the persistence-gated scan over one year's sorted samples.
func detectYear(year int, sorted []Observation, smoothed Smoothed, threshold float64, settings AnalysisSettings) SeasonResult {
	start, end := segment(sorted, smoothed, threshold, settings.StartPersistence, settings.EndPersistence)

	result := SeasonResult{Year: year, SeasonStart: start, SeasonEnd: end}
	if start == nil || end == nil {
		return result
	}

	summary := Summarize(sorted, *start, *end, settings.IntensityMetric)
	result.DurationDays = DurationDays(*start, *end)
	result.Intensity = summary.Intensity
	result.PeakDate = summary.PeakDate
	result.PeakValue = summary.PeakValue
	return result
}

// segment walks the samples with an above/below counter pair. A transition
// is confirmed once the counter reaches its persistence and is anchored at
// the first sample of the qualifying run. Scanning stops at the first
// confirmed end.
func segment(sorted []Observation, smoothed Smoothed, threshold float64, startPersistence, endPersistence int) (start, end *time.Time) {
	var aboveCount, belowCount int
	inSeason := false

	for i, o := range sorted {
		v, ok := smoothed.Lookup(o.Date)
		if !ok {
			v = o.Value
		}

		if !inSeason {
			if v < threshold {
				aboveCount = 0
				continue
			}
			aboveCount++
			if aboveCount >= startPersistence {
				d := sorted[anchor(i, startPersistence)].Date
				start = &d
				inSeason = true
				aboveCount = 0
			}
			continue
		}

		if v >= threshold {
			belowCount = 0
			continue
		}
		belowCount++
		if belowCount >= endPersistence {
			d := sorted[anchor(i, endPersistence)].Date
			end = &d
			return start, end
		}
	}
	return start, end
}

// anchor returns the index of the first sample in a run of length
// persistence ending at i, clamped to the start of the series.
func anchor(i, persistence int) int {
	return max(0, i-persistence+1)
}
