package kafka

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher(t *testing.T) {
	require := require.New(t)
	p := NewPublisher([]string{"localhost:9092", "localhost:9093"})
	require.NotNil(p.writer.Addr)
	require.IsType(&kafka.Hash{}, p.writer.Balancer)
	require.Equal(kafka.RequireAll, p.writer.RequiredAcks)
	require.Equal(batchTimeout, p.writer.BatchTimeout)
	require.Empty(p.writer.Topic)
	require.NoError(p.Close())
}

func TestPublishBroker(t *testing.T) {
	brokers := os.Getenv("LEDGER_TEST_KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("LEDGER_TEST_KAFKA_BROKERS not set")
	}
	require := require.New(t)
	p := NewPublisher(strings.Split(brokers, ","))
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(p.Publish(ctx, "ledger-test.snapshot", "0", map[string]uint64{"snapshot": 0}))
}
