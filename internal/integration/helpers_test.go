//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/bloom-season-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("bloom-season-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// bloomSpring is one season of daily values starting March 1. With a static
// threshold of 50 and persistence 2 the season runs March 8 to March 16.
var bloomSpring = []float64{5, 7, 6, 8, 12, 20, 35, 55, 70, 82, 90, 95, 88, 76, 60, 48, 30, 18, 10, 8, 6, 5}

func bloomRequest(id string, years ...int) domain.AnalysisRequest {
	var rows []domain.Row
	for _, year := range years {
		start := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
		for i, v := range bloomSpring {
			rows = append(rows, domain.Row{
				"date":  start.AddDate(0, 0, i).Format(time.DateOnly),
				"value": strconv.FormatFloat(v, 'f', -1, 64),
			})
		}
	}
	return domain.AnalysisRequest{
		ID:          id,
		DateColumn:  "date",
		ValueColumn: "value",
		Rows:        rows,
		Settings: domain.AnalysisSettings{
			YearRange:         [2]int{2000, 2100},
			RollingWindow:     1,
			ThresholdMode:     domain.ThresholdStatic,
			DynamicPercentile: 95,
			StaticThreshold:   50,
			StartPersistence:  2,
			EndPersistence:    2,
			IntensityMetric:   domain.MetricPeak,
		},
	}
}

func groupID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
