package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThreshold_Static(t *testing.T) {
	obs := dailySeries(day(2024, time.April, 1), 1, 2, 3)
	s := staticSettings(42.5, 1, 1)

	assert.InDelta(t, 42.5, Threshold(obs, s), 1e-9)
}

func TestThreshold_Dynamic(t *testing.T) {
	// values 1..10, unsorted on input
	obs := dailySeries(day(2024, time.April, 1), 7, 3, 10, 1, 5, 2, 9, 4, 8, 6)
	s := AnalysisSettings{ThresholdMode: ThresholdDynamic}

	cases := []struct {
		percentile int
		want       float64
	}{
		{percentile: 10, want: 2},  // floor(10*0.10)=1
		{percentile: 50, want: 6},  // index 5
		{percentile: 95, want: 10}, // floor(9.5)=9
		{percentile: 100, want: 10},
	}
	for _, tc := range cases {
		s.DynamicPercentile = tc.percentile
		assert.InDelta(t, tc.want, Threshold(obs, s), 1e-9, "P%d", tc.percentile)
	}
}

func TestThreshold_PercentileClamped(t *testing.T) {
	obs := dailySeries(day(2024, time.April, 1), 4, 8, 15, 16)

	low := AnalysisSettings{ThresholdMode: ThresholdDynamic, DynamicPercentile: -20}
	high := AnalysisSettings{ThresholdMode: ThresholdDynamic, DynamicPercentile: 250}

	assert.InDelta(t, 4.0, Threshold(obs, low), 1e-9)
	assert.InDelta(t, 16.0, Threshold(obs, high), 1e-9)
}

func TestThreshold_UnknownModeIsDynamic(t *testing.T) {
	obs := dailySeries(day(2024, time.April, 1), 1, 2, 3, 4)
	s := AnalysisSettings{ThresholdMode: "fixed", DynamicPercentile: 50, StaticThreshold: 99}

	assert.InDelta(t, 3.0, Threshold(obs, s), 1e-9)
}

func TestThreshold_EmptyDynamic(t *testing.T) {
	assert.Zero(t, Threshold(nil, AnalysisSettings{ThresholdMode: ThresholdDynamic, DynamicPercentile: 95}))
}

func TestThreshold_MonotonicInPercentile(t *testing.T) {
	var obs []Observation
	for year := 2020; year <= 2022; year++ {
		obs = append(obs, bloomYear(year)...)
	}
	s := AnalysisSettings{ThresholdMode: ThresholdDynamic}

	prev := -1.0
	for p := 1; p <= 100; p++ {
		s.DynamicPercentile = p
		got := Threshold(obs, s)
		assert.GreaterOrEqual(t, got, prev, "P%d", p)
		prev = got
	}
}
