package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/bloom-season-etl/internal/config"
	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes analysis requests from a Kafka topic with a consumer group.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader *kafkago.Reader
	cfg    *config.Config
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
// Offsets are committed explicitly through RawEvent.Commit.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaSourceTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{reader: r, cfg: cfg, logger: logger}
}

// ExtractBatch blocks for the first message, then collects up to batchSize
// messages until BatchFlushInterval elapses. A partial batch is returned when
// the flush interval expires. Once a message is held, later fetch errors end
// the batch early instead of discarding it.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.RawEvent, 0, batchSize)
	batch = append(batch, r.toRawEvent(first))

	flushCtx, cancel := context.WithTimeout(ctx, r.cfg.BatchFlushInterval)
	defer cancel()

	batch = fillBatch(ctx, batch, batchSize, func() (domain.RawEvent, error) {
		msg, err := r.reader.FetchMessage(flushCtx)
		if err != nil {
			return domain.RawEvent{}, err
		}
		return r.toRawEvent(msg), nil
	}, r.logger)

	r.logger.Debug("batch extracted", "size", len(batch))
	return batch, nil
}

// fillBatch appends fetched events until the batch holds batchSize events or
// fetch fails. The events already held are always returned.
func fillBatch(ctx context.Context, batch []domain.RawEvent, batchSize int, fetch func() (domain.RawEvent, error), logger *slog.Logger) []domain.RawEvent {
	for len(batch) < batchSize {
		raw, err := fetch()
		if err == nil {
			batch = append(batch, raw)
			continue
		}
		switch {
		case ctx.Err() != nil:
			// Shutdown mid-batch: return what was fetched. Those offsets stay
			// uncommitted and are redelivered after restart.
		case errors.Is(err, context.DeadlineExceeded):
			// Flush interval elapsed.
		default:
			// Held events are still processed. A persistent fault fails the
			// first fetch of the next ExtractBatch call.
			logger.Warn("fetch failed mid-batch, flushing partial batch", "size", len(batch), "error", err)
		}
		return batch
	}
	return batch
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func (r *Reader) toRawEvent(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

// mapMessageToRawEvent copies the Kafka message fields into a RawEvent.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
