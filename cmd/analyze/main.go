// Command analyze runs season detection over a local CSV file and prints a
// per-year summary. It uses the same domain package as the service, so its
// output matches what the pipeline publishes for the same rows and settings.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -in data/mock/bloom_daily.csv \
//	  -mode static -threshold 40 \
//	  -out bloom_season_analysis.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
)

// options carries the parsed command-line flags.
type options struct {
	in       string
	out      string
	dateCol  string
	valueCol string
	locCol   string
	topK     int
	settings domain.AnalysisSettings
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(2)
	}
	os.Exit(run(opts, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	defaults := domain.DefaultSettings()
	opts := options{settings: defaults}

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "input CSV file with a header row (required)")
	fs.StringVar(&opts.out, "out", "", "write the season export CSV to this path")
	fs.StringVar(&opts.dateCol, "date-col", "", "date column (detected from the header when empty)")
	fs.StringVar(&opts.valueCol, "value-col", "", "value column (detected from the header when empty)")
	fs.StringVar(&opts.locCol, "location-col", "", "location column (optional)")
	fs.IntVar(&opts.topK, "top", domain.DefaultTopYears, "number of top years to list")
	fs.IntVar(&opts.settings.YearRange[0], "from", defaults.YearRange[0], "first year to analyze")
	fs.IntVar(&opts.settings.YearRange[1], "to", defaults.YearRange[1], "last year to analyze")
	fs.IntVar(&opts.settings.RollingWindow, "window", defaults.RollingWindow, "rolling mean window in samples")
	mode := fs.String("mode", string(defaults.ThresholdMode), "threshold mode: dynamic or static")
	fs.IntVar(&opts.settings.DynamicPercentile, "percentile", defaults.DynamicPercentile, "percentile for the dynamic threshold")
	fs.Float64Var(&opts.settings.StaticThreshold, "threshold", defaults.StaticThreshold, "threshold for static mode")
	fs.IntVar(&opts.settings.StartPersistence, "start-persistence", defaults.StartPersistence, "consecutive samples at or above the threshold to start a season")
	fs.IntVar(&opts.settings.EndPersistence, "end-persistence", defaults.EndPersistence, "consecutive samples below the threshold to end a season")
	metric := fs.String("metric", string(defaults.IntensityMetric), "intensity metric: area, peak, or average")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.in == "" {
		fs.Usage()
		return options{}, errors.New("missing required flag -in")
	}

	opts.settings.ThresholdMode = domain.ThresholdMode(strings.ToLower(*mode))
	opts.settings.IntensityMetric = domain.IntensityMetric(strings.ToLower(*metric))
	return opts, nil
}

func run(opts options, stdout, stderr io.Writer) int {
	header, rows, err := loadCSV(opts.in)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load %s: %v\n", opts.in, err)
		return 1
	}

	report, err := domain.Analyze(domain.AnalysisRequest{
		ID:             opts.in,
		DateColumn:     opts.dateCol,
		ValueColumn:    opts.valueCol,
		LocationColumn: opts.locCol,
		Columns:        header,
		Rows:           rows,
		Settings:       opts.settings,
		TopK:           opts.topK,
	})

	fmt.Fprintf(stdout, "=== Bloom Season Analysis: %s ===\n\n", opts.in)
	fmt.Fprintf(stdout, "Columns: date=%q value=%q location=%q\n", report.Columns.Date, report.Columns.Value, report.Columns.Location)
	fmt.Fprintf(stdout, "Rows: %d read, %d usable, %d skipped\n", len(rows), report.ObservationCount, len(report.Warnings))
	printWarnings(stdout, report.Warnings)

	if err != nil {
		fmt.Fprintf(stderr, "\nAnalysis FAILED: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Threshold: %.2f (%s)\n\n", report.Threshold, report.Settings.ThresholdMode)
	if err := printSeasons(stdout, report.Seasons); err != nil {
		fmt.Fprintf(stderr, "FATAL: print seasons: %v\n", err)
		return 1
	}
	printTopYears(stdout, report.TopYears)

	if opts.out != "" {
		if err := writeExport(opts.out, report.Seasons); err != nil {
			fmt.Fprintf(stderr, "FATAL: write export: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nWrote %s\n", opts.out)
	}
	return 0
}

// loadCSV reads a headered CSV file into rows keyed by header name.
// Short rows leave their trailing columns absent.
func loadCSV(path string) ([]string, []domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]domain.Row, 0, len(all)-1)
	for _, record := range all[1:] {
		row := make(domain.Row, len(header))
		for j, h := range header {
			if j < len(record) {
				row[h] = record[j]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func printWarnings(w io.Writer, warnings []string) {
	const shown = 10
	for i, warning := range warnings {
		if i == shown {
			fmt.Fprintf(w, "  ... and %d more\n", len(warnings)-shown)
			break
		}
		fmt.Fprintf(w, "  %s\n", warning)
	}
}

func printSeasons(w io.Writer, seasons []domain.SeasonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tSTART\tEND\tDAYS\tINTENSITY\tPEAK DATE\tPEAK")
	for _, s := range seasons {
		peak := "-"
		if s.PeakValue != nil {
			peak = fmt.Sprintf("%.2f", *s.PeakValue)
		}
		end := dateOrDash(s.SeasonEnd)
		if s.Unresolved() {
			end = "(open)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%s\t%s\n",
			s.Year, dateOrDash(s.SeasonStart), end, s.DurationDays, s.Intensity, dateOrDash(s.PeakDate), peak)
	}
	return tw.Flush()
}

func printTopYears(w io.Writer, top []domain.SeasonResult) {
	if len(top) == 0 {
		fmt.Fprintln(w, "\nNo year had a positive intensity.")
		return
	}
	fmt.Fprintln(w, "\nStrongest years:")
	for i, s := range top {
		fmt.Fprintf(w, "  %d. %d  intensity=%.2f  days=%d\n", i+1, s.Year, s.Intensity, s.DurationDays)
	}
}

func writeExport(path string, seasons []domain.SeasonResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := domain.WriteCSV(f, seasons); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
