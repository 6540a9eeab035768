package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Metrics(t *testing.T) {
	start := day(2024, time.April, 1)
	obs := dailySeries(start, 60, 61, 62, 63)
	end := start.AddDate(0, 0, 3)

	cases := []struct {
		metric IntensityMetric
		want   float64
	}{
		{metric: MetricArea, want: 246},
		{metric: MetricPeak, want: 63},
		{metric: MetricAverage, want: 61.5},
	}
	for _, tc := range cases {
		t.Run(string(tc.metric), func(t *testing.T) {
			s := Summarize(obs, start, end, tc.metric)
			assert.InDelta(t, tc.want, s.Intensity, 1e-9)
			require.NotNil(t, s.PeakValue)
			assert.InDelta(t, 63.0, *s.PeakValue, 1e-9)
			require.NotNil(t, s.PeakDate)
			assert.Equal(t, end, *s.PeakDate)
		})
	}
}

func TestSummarize_WindowIsInclusive(t *testing.T) {
	start := day(2024, time.April, 1)
	obs := dailySeries(start, 1, 2, 3, 4, 5)

	s := Summarize(obs, start.AddDate(0, 0, 1), start.AddDate(0, 0, 3), MetricArea)

	assert.InDelta(t, 9.0, s.Intensity, 1e-9)
}

func TestSummarize_PeakTieKeepsFirst(t *testing.T) {
	start := day(2024, time.April, 1)
	obs := dailySeries(start, 5, 9, 9, 2)

	s := Summarize(obs, start, start.AddDate(0, 0, 3), MetricPeak)

	assert.InDelta(t, 9.0, s.Intensity, 1e-9)
	assert.Equal(t, start.AddDate(0, 0, 1), *s.PeakDate)
}

func TestSummarize_EmptyWindow(t *testing.T) {
	start := day(2024, time.April, 1)
	obs := dailySeries(start, 5, 6)

	s := Summarize(obs, start.AddDate(0, 1, 0), start.AddDate(0, 2, 0), MetricAverage)

	assert.Zero(t, s.Intensity)
	assert.Nil(t, s.PeakDate)
	assert.Nil(t, s.PeakValue)
}

func TestSummarize_DoesNotAliasInput(t *testing.T) {
	start := day(2024, time.April, 1)
	obs := dailySeries(start, 5, 8)

	s := Summarize(obs, start, start.AddDate(0, 0, 1), MetricArea)
	obs[1].Value = 100

	assert.InDelta(t, 8.0, *s.PeakValue, 1e-9)
}

func TestDetectSeasons_IntensityIncludesEndSample(t *testing.T) {
	start := day(2024, time.April, 1)
	// Season runs from the 60 to the first sample below the cutoff, so the
	// window is [60, 61, 62, 63, 10].
	obs := dailySeries(start, 10, 60, 61, 62, 63, 10, 10)

	for metric, want := range map[IntensityMetric]float64{
		MetricArea:    256,
		MetricPeak:    63,
		MetricAverage: 51.2,
	} {
		s := staticSettings(50, 1, 1)
		s.IntensityMetric = metric

		results, err := DetectSeasons(obs, s)
		require.NoError(t, err)
		require.Len(t, results, 1)

		r := results[0]
		require.NotNil(t, r.SeasonEnd)
		assert.Equal(t, start.AddDate(0, 0, 5), *r.SeasonEnd)
		assert.Equal(t, 4, r.DurationDays)
		assert.InDelta(t, want, r.Intensity, 1e-9, string(metric))
		assert.InDelta(t, 63.0, *r.PeakValue, 1e-9, string(metric))
	}
}

func TestDurationDays(t *testing.T) {
	start := day(2024, time.March, 1)

	assert.Equal(t, 0, DurationDays(start, start))
	assert.Equal(t, 31, DurationDays(start, day(2024, time.April, 1)))
	assert.Equal(t, 1, DurationDays(start, start.Add(20*time.Hour)))
	assert.Equal(t, 0, DurationDays(start, start.Add(11*time.Hour)))
}
