package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalize converts raw rows into observations. Rows with a missing date or
// value, an unparseable date, or a non-finite value are skipped and reported
// in the returned warnings. Observations keep the input order.
// An empty locationCol disables the location field.
func Normalize(rows []Row, dateCol, valueCol, locationCol string) ([]Observation, []string) {
	observations := make([]Observation, 0, len(rows))
	var warnings []string

	for i, row := range rows {
		n := i + 1
		dateStr := cellString(row[dateCol])
		valueStr := cellString(row[valueCol])

		if dateStr == "" || valueStr == "" {
			warnings = append(warnings, fmt.Sprintf("Row %d: Missing date or value", n))
			continue
		}

		date, err := parseDate(dateStr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Row %d: Could not parse date %q", n, dateStr))
			continue
		}

		value, err := parseValue(valueStr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Row %d: Invalid numeric value %q", n, valueStr))
			continue
		}

		var location string
		if locationCol != "" {
			location = cellString(row[locationCol])
		}

		observations = append(observations, Observation{
			Date:     date,
			Value:    value,
			Location: location,
		})
	}

	return observations, warnings
}

// parseDate accepts ISO-like, slash-delimited, and the other layouts
// understood by dateparse. Dates without a zone are read as UTC.
func parseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseValue parses a decimal number, rejecting NaN and infinities.
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not finite", s)
	}
	return v, nil
}

// cellString renders a raw cell as trimmed text. Missing cells become "".
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case json.Number:
		return c.String()
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}
