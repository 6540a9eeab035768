package domain

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"
)

// exportHeader is the column order external tools depend on.
var exportHeader = []string{
	"Year",
	"Season Start",
	"Season End",
	"Duration (Days)",
	"Intensity",
	"Peak Date",
	"Peak Value",
}

// TopYears returns up to k results with positive intensity, strongest first.
// Ties keep their input order.
func TopYears(results []SeasonResult, k int) []SeasonResult {
	if k <= 0 {
		return []SeasonResult{}
	}

	top := make([]SeasonResult, 0, len(results))
	for _, r := range results {
		if r.Intensity > 0 {
			top = append(top, r)
		}
	}
	slices.SortStableFunc(top, func(a, b SeasonResult) int {
		return cmp.Compare(b.Intensity, a.Intensity)
	})

	if len(top) > k {
		top = top[:k]
	}
	return top
}

// WriteCSV writes results as a flat table with YYYY-MM-DD dates and
// two-decimal numbers. Missing dates and peak values are left empty.
func WriteCSV(w io.Writer, results []SeasonResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, r := range results {
		record := []string{
			strconv.Itoa(r.Year),
			formatDate(r.SeasonStart),
			formatDate(r.SeasonEnd),
			strconv.Itoa(r.DurationDays),
			strconv.FormatFloat(r.Intensity, 'f', 2, 64),
			formatDate(r.PeakDate),
			"",
		}
		if r.PeakValue != nil {
			record[6] = strconv.FormatFloat(*r.PeakValue, 'f', 2, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export row for %d: %w", r.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}
