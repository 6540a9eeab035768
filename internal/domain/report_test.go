package domain

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopYears(t *testing.T) {
	results := []SeasonResult{
		{Year: 2024, Intensity: 120},
		{Year: 2023, Intensity: 0},
		{Year: 2022, Intensity: 300},
		{Year: 2021, Intensity: 120},
		{Year: 2020, Intensity: 90},
	}

	top := TopYears(results, 3)

	require.Len(t, top, 3)
	assert.Equal(t, 2022, top[0].Year)
	assert.Equal(t, 2024, top[1].Year, "ties keep input order")
	assert.Equal(t, 2021, top[2].Year)
	assert.Equal(t, 2024, results[0].Year, "input is not reordered")
}

func TestTopYears_FiltersZeroAndHandlesSmallK(t *testing.T) {
	results := []SeasonResult{
		{Year: 2024, Intensity: 0},
		{Year: 2023, Intensity: 5},
	}

	assert.Len(t, TopYears(results, 10), 1)
	assert.Empty(t, TopYears(results, 0))
	assert.Empty(t, TopYears(nil, 3))
}

func TestWriteCSV(t *testing.T) {
	start := day(2023, time.March, 8)
	end := day(2023, time.March, 16)
	peak := day(2023, time.March, 12)
	peakValue := 95.0

	results := []SeasonResult{
		{
			Year:         2023,
			SeasonStart:  &start,
			SeasonEnd:    &end,
			DurationDays: 8,
			Intensity:    612.346,
			PeakDate:     &peak,
			PeakValue:    &peakValue,
		},
		{Year: 2022},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Year,Season Start,Season End,Duration (Days),Intensity,Peak Date,Peak Value", lines[0])
	assert.Equal(t, "2023,2023-03-08,2023-03-16,8,612.35,2023-03-12,95.00", lines[1])
	assert.Equal(t, "2022,,,0,0.00,,", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Year,Season Start,Season End,Duration (Days),Intensity,Peak Date,Peak Value\n", buf.String())
}
