// Package domain detects per-year bloom seasons in a time series of
// numeric observations (pollen counts, vegetation indices).
//
// # Pipeline
//
// A run is a pure function of its input rows and settings:
//
//	rows --Normalize--> []Observation --RollingMean--> Smoothed
//	                                  --Threshold----> float64
//	                                  --DetectSeasons-> []SeasonResult --TopYears / WriteCSV
//
// Nothing is cached between runs. The smoothing map and threshold are
// computed once over the whole dataset and then applied to every year.
//
// # Input Conventions
//
// Rows are column -> cell maps produced by an upstream CSV reader. Cells are
// strings, JSON numbers, or empty. A row is skipped with a warning when its
// date or value cell is empty, its date cannot be parsed, or its value is
// not a finite number. Warnings read "Row N: ..." with N counted from 1.
//
// Dates are interpreted in UTC. Year grouping uses the UTC calendar year.
//
// # Season Detection
//
// Each year is scanned in date order against the smoothed series:
//
//	outside: value >= threshold for StartPersistence samples in a row -> start
//	inside:  value <  threshold for EndPersistence samples in a row   -> end
//
// The confirmed boundary is the date of the first sample of the qualifying
// run, not the sample that completed it. At most one season is reported per
// year. A season that starts but never ends before the data runs out is
// "unresolved": it has a start, no end, zero duration and zero intensity.
//
// # Intensity
//
//	area:    sum of raw values in [start, end]
//	peak:    maximum raw value in [start, end]
//	average: mean of raw values in [start, end]
//
// The peak date and value are reported for every metric.
package domain
