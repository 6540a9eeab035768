package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Smoothed maps a date key (see DateKey) to the centered rolling mean at
// that instant.
type Smoothed map[int64]float64

// DateKey normalizes a date to the key used by Smoothed.
func DateKey(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// Lookup returns the smoothed value recorded for t, if any.
func (s Smoothed) Lookup(t time.Time) (float64, bool) {
	v, ok := s[DateKey(t)]
	return v, ok
}

// RollingMean computes a centered moving average over the date-sorted
// series. The window for index i is [i-floor(w/2), i+ceil(w/2)) clamped to
// the series bounds, so windows shrink near both ends. Samples that share a
// timestamp are averaged into a single entry; their relative order in the
// window follows sortedByDate. A window below 1 is treated
// as 1.
func RollingMean(obs []Observation, window int) Smoothed {
	window = max(window, 1)
	sorted := sortedByDate(obs)

	values := make([]float64, len(sorted))
	for i, o := range sorted {
		values[i] = o.Value
	}

	half := window / 2
	ahead := window - half // ceil(w/2)

	sums := make(map[int64]float64, len(sorted))
	counts := make(map[int64]int, len(sorted))
	for i, o := range sorted {
		lo := max(0, i-half)
		hi := min(len(sorted), i+ahead)
		key := DateKey(o.Date)
		sums[key] += stat.Mean(values[lo:hi], nil)
		counts[key]++
	}

	smoothed := make(Smoothed, len(sums))
	for key, sum := range sums {
		smoothed[key] = sum / float64(counts[key])
	}
	return smoothed
}

// sortedByDate returns a sorted copy ordered by date, then value, then
// location. Samples sharing a timestamp therefore land in the same order
// regardless of input order.
func sortedByDate(obs []Observation) []Observation {
	sorted := slices.Clone(obs)
	slices.SortFunc(sorted, func(a, b Observation) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Location, b.Location)
	})
	return sorted
}
