package domain

import (
	"slices"
	"strings"
)

// Columns names the input columns used by Normalize.
type Columns struct {
	Date     string `json:"date"`
	Value    string `json:"value"`
	Location string `json:"location,omitempty"`
}

// DetectColumns guesses the date, value, and location columns from their
// names, taking the first match in order for each:
//
//	date:     contains "date"
//	value:    contains "value" or "bloom"
//	location: contains "location" or "station"
//
// Matching is case-insensitive. Unmatched roles are left empty.
func DetectColumns(columns []string) Columns {
	var c Columns
	for _, name := range columns {
		lower := strings.ToLower(name)
		if c.Date == "" && strings.Contains(lower, "date") {
			c.Date = name
		}
		if c.Value == "" && (strings.Contains(lower, "value") || strings.Contains(lower, "bloom")) {
			c.Value = name
		}
		if c.Location == "" && (strings.Contains(lower, "location") || strings.Contains(lower, "station")) {
			c.Location = name
		}
	}
	return c
}

// ColumnNames returns the sorted union of keys across rows.
func ColumnNames(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
