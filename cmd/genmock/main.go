// Command genmock generates a deterministic multi-year daily bloom series
// for local runs and integration fixtures. It writes the series as CSV (the
// input cmd/analyze reads) and as a JSON analysis request (the message body
// the pipeline consumes), then runs the real domain analysis over it and
// prints the stats test assertions are written against.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -from 2015 -to 2024 \
//	  -csv-out data/mock/bloom_daily.csv \
//	  -json-out data/mock/bloom_request.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// requestNamespace seeds deterministic request IDs, so regenerating the
// fixture with the same flags yields the same ID.
var requestNamespace = uuid.MustParse("6f1c1f0e-4a53-4c8e-9a56-0c2d9b1e7d21")

var stations = []string{"Irbid", "Ajloun", "Jerash"}

// generator shapes each year's bloom as a Gaussian bump on a noisy baseline.
type generator struct {
	rng      *rand.Rand
	gapEvery int
}

type sample struct {
	date    time.Time
	value   float64
	station string
	missing bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	from := flag.Int("from", 2015, "first year to generate")
	to := flag.Int("to", 2024, "last year to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	gapEvery := flag.Int("gap-every", 97, "blank out every Nth value to exercise row warnings (0 disables)")
	csvOut := flag.String("csv-out", "", "output path for the CSV series")
	jsonOut := flag.String("json-out", "", "output path for the JSON analysis request")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}
	if *from > *to {
		return fmt.Errorf("-from %d is after -to %d", *from, *to)
	}

	// Fixed clock for a reproducible ProcessedAt and default year range.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(*to, time.December, 31, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	g := &generator{rng: rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), gapEvery: *gapEvery}
	samples := g.series(*from, *to)
	log.Printf("generated %d samples for %d-%d", len(samples), *from, *to)

	if err := writeCSV(*csvOut, samples); err != nil {
		return fmt.Errorf("writing CSV series: %w", err)
	}
	log.Printf("wrote CSV series: %s", *csvOut)

	req := buildRequest(samples, *from, *to, *seed)
	if err := writeJSON(*jsonOut, req); err != nil {
		return fmt.Errorf("writing JSON request: %w", err)
	}
	log.Printf("wrote JSON request: %s", *jsonOut)

	report, err := domain.Analyze(req)
	if err != nil {
		return fmt.Errorf("analyzing generated series: %w", err)
	}
	printStats(report)
	return nil
}

func (g *generator) series(from, to int) []sample {
	var out []sample
	n := 0
	for year := from; year <= to; year++ {
		peakDay := 70 + g.rng.IntN(30)       // early March to early April
		amplitude := 60 + 40*g.rng.Float64() // 60..100
		width := 6 + 6*g.rng.Float64()       // days
		station := stations[(year-from)%len(stations)]

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for d := start; d.Year() == year; d = d.AddDate(0, 0, 1) {
			n++
			day := float64(d.YearDay())
			bump := amplitude * math.Exp(-math.Pow(day-float64(peakDay), 2)/(2*width*width))
			value := math.Max(0, 4+bump+g.rng.NormFloat64()*1.5)

			out = append(out, sample{
				date:    d,
				value:   math.Round(value*100) / 100,
				station: station,
				missing: g.gapEvery > 0 && n%g.gapEvery == 0,
			})
		}
	}
	return out
}

func writeCSV(path string, samples []sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "bloom_index", "station"}); err != nil {
		f.Close()
		return err
	}
	for _, s := range samples {
		if err := w.Write(record(s)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func record(s sample) []string {
	value := strconv.FormatFloat(s.value, 'f', 2, 64)
	if s.missing {
		value = ""
	}
	return []string{s.date.Format(time.DateOnly), value, s.station}
}

func buildRequest(samples []sample, from, to int, seed uint64) domain.AnalysisRequest {
	rows := make([]domain.Row, 0, len(samples))
	for _, s := range samples {
		r := record(s)
		rows = append(rows, domain.Row{"date": r[0], "bloom_index": r[1], "station": r[2]})
	}

	settings := domain.DefaultSettings()
	settings.YearRange = [2]int{from, to}

	id := uuid.NewSHA1(requestNamespace, fmt.Appendf(nil, "%d-%d-%d", from, to, seed))
	return domain.AnalysisRequest{
		ID:             id.String(),
		DateColumn:     "date",
		ValueColumn:    "bloom_index",
		LocationColumn: "station",
		Rows:           rows,
		Settings:       settings,
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(report domain.AnalysisReport) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Request ID: %s\n", report.RequestID)
	fmt.Printf("Observations: %d, warnings: %d\n", report.ObservationCount, len(report.Warnings))
	fmt.Printf("Threshold (%s): %.4f\n", report.Settings.ThresholdMode, report.Threshold)

	var complete, unresolved, none int
	for _, s := range report.Seasons {
		switch {
		case s.Unresolved():
			unresolved++
		case s.SeasonStart != nil && s.SeasonEnd != nil:
			complete++
		default:
			none++
		}
	}
	fmt.Printf("Seasons: complete=%d, unresolved=%d, none=%d\n", complete, unresolved, none)

	for _, s := range report.Seasons {
		if s.SeasonStart == nil || s.SeasonEnd == nil {
			fmt.Printf("  %d: no complete season\n", s.Year)
			continue
		}
		fmt.Printf("  %d: %s..%s days=%d intensity=%.2f\n",
			s.Year, s.SeasonStart.Format(time.DateOnly), s.SeasonEnd.Format(time.DateOnly), s.DurationDays, s.Intensity)
	}

	fmt.Println("Top years:")
	for i, s := range report.TopYears {
		fmt.Printf("  %d. %d (%.2f)\n", i+1, s.Year, s.Intensity)
	}
}
