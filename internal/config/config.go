package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const defaultAnalysisWorkers = 4

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	AnalysisWorkers    int

	// Analysis defaults applied to requests that omit settings.
	YearSpan          int
	RollingWindow     int
	ThresholdMode     domain.ThresholdMode
	DynamicPercentile int
	StaticThreshold   float64
	StartPersistence  int
	EndPersistence    int
	IntensityMetric   domain.IntensityMetric
	TopYears          int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "bloom-analysis-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "bloom-season-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "bloom-season-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		ThresholdMode:   domain.ThresholdMode(sharedcfg.EnvOrDefault("THRESHOLD_MODE", string(domain.ThresholdDynamic))),
		IntensityMetric: domain.IntensityMetric(sharedcfg.EnvOrDefault("INTENSITY_METRIC", string(domain.MetricArea))),
	}

	ints := []struct {
		name string
		def  int
		min  int
		max  int
		dst  *int
	}{
		{"YEAR_SPAN", domain.DefaultYearSpan, 1, 200, &cfg.YearSpan},
		{"ROLLING_WINDOW", domain.DefaultRollingWindow, 1, 365, &cfg.RollingWindow},
		{"DYNAMIC_PERCENTILE", domain.DefaultDynamicPercentile, 1, 100, &cfg.DynamicPercentile},
		{"START_PERSISTENCE", domain.DefaultPersistence, 1, 365, &cfg.StartPersistence},
		{"END_PERSISTENCE", domain.DefaultPersistence, 1, 365, &cfg.EndPersistence},
		{"TOP_YEARS", domain.DefaultTopYears, 1, 100, &cfg.TopYears},
		{"ANALYSIS_WORKERS", defaultAnalysisWorkers, 1, 64, &cfg.AnalysisWorkers},
	}
	for _, p := range ints {
		v, err := parseIntInRange(p.name, p.def, p.min, p.max)
		if err != nil {
			return nil, err
		}
		*p.dst = v
	}

	staticThreshold, err := parseFloat("STATIC_THRESHOLD", domain.DefaultStaticThreshold)
	if err != nil {
		return nil, err
	}
	cfg.StaticThreshold = staticThreshold

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	switch cfg.ThresholdMode {
	case domain.ThresholdDynamic, domain.ThresholdStatic:
	default:
		return nil, fmt.Errorf("invalid THRESHOLD_MODE %q: want dynamic or static", cfg.ThresholdMode)
	}
	switch cfg.IntensityMetric {
	case domain.MetricArea, domain.MetricPeak, domain.MetricAverage:
	default:
		return nil, fmt.Errorf("invalid INTENSITY_METRIC %q: want area, peak, or average", cfg.IntensityMetric)
	}

	return cfg, nil
}

// AnalysisDefaults returns the settings applied to requests that omit them.
// The year range ends at the current year, so it is computed per call.
func (c *Config) AnalysisDefaults() domain.AnalysisSettings {
	s := domain.DefaultSettings()
	end := s.YearRange[1]
	s.YearRange = [2]int{end - c.YearSpan + 1, end}
	s.RollingWindow = c.RollingWindow
	s.ThresholdMode = c.ThresholdMode
	s.DynamicPercentile = c.DynamicPercentile
	s.StaticThreshold = c.StaticThreshold
	s.StartPersistence = c.StartPersistence
	s.EndPersistence = c.EndPersistence
	s.IntensityMetric = c.IntensityMetric
	return s
}

func parseIntInRange(name string, def, lo, hi int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q: want an integer in [%d, %d]", name, s, lo, hi)
	}
	return n, nil
}

func parseFloat(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}
