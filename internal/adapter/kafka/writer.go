package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/config"
	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every published report.
const (
	headerStatus      = "status"
	headerProcessedAt = "processed_at"
)

// Writer publishes season reports to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
// Reports are keyed by request ID, so the Hash balancer keeps all reports for
// one request on one partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes reports in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, reports []domain.AnalysisReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d reports: %w", len(msgs), err)
	}
	w.logger.Debug("reports published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(report domain.AnalysisReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize season report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.RequestID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerStatus, Value: []byte(report.Status)},
			{Key: headerProcessedAt, Value: []byte(report.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
