package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	skafka "github.com/segmentio/kafka-go"

	"github.com/paylens/ingestd/internal/payload"
)

// kafkaWriteTimeout bounds each forward; the webhook response never waits
// on the broker, but a stuck write should not pin a goroutine either.
const kafkaWriteTimeout = 5 * time.Second

// KafkaWriter is the subset of segmentio kafka.Writer we need. This makes
// the emitter testable.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// KafkaEmitter forwards normalized events to a Kafka topic, keyed by event
// id so redeliveries of the same event land in the same partition.
type KafkaEmitter struct {
	writer KafkaWriter
}

// NewKafkaEmitter creates an emitter writing to the given broker/topic.
func NewKafkaEmitter(brokerURL, topic string) *KafkaEmitter {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaEmitter{writer: w}
}

// NewKafkaEmitterWithWriter allows injecting a test writer.
func NewKafkaEmitterWithWriter(w KafkaWriter) *KafkaEmitter {
	return &KafkaEmitter{writer: w}
}

func (k *KafkaEmitter) Emit(ctx context.Context, event *payload.NormalizedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal normalized event: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()

	err = k.writer.WriteMessages(wctx, skafka.Message{
		Key:   []byte(event.EventID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write to kafka: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (k *KafkaEmitter) Close() error {
	return k.writer.Close()
}
