package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// publishTimeout bounds a single Kafka write so an unreachable broker
// cannot pile up goroutines indefinitely.
const publishTimeout = 10 * time.Second

// KafkaSink publishes change events to a Kafka topic for off-process
// dashboard consumers. Publish failures are logged, never propagated.
type KafkaSink struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string, log *slog.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaSink{writer: writer, log: log}
}

// Notify publishes the event, keyed by entity so per-entity ordering is
// preserved within a partition.
func (s *KafkaSink) Notify(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		s.log.Error("marshaling change event", "event", e.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   fmt.Appendf(nil, "%s:%d", e.EntityType, e.EntityID),
		Value: data,
		Time:  e.At,
	})
	if err != nil {
		s.log.Error("publishing change event", "event", e.ID, "error", err)
	}
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
