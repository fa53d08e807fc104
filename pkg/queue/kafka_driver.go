package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig locates the jobs topic. Workers sharing Group split the
// topic's partitions between them.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaDriver publishes jobs to a Kafka topic and consumes them through a
// consumer group. A job is committed as soon as it is popped, so delivery
// is at most once, the same as the Redis driver.
type KafkaDriver struct {
	w     kafkaWriter
	r     kafkaReader
	topic string
}

// NewKafkaDriver opens a writer and a group reader on cfg.Topic.
func NewKafkaDriver(cfg KafkaConfig) (*KafkaDriver, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.Group == "" {
		return nil, errors.New("queue/kafka: brokers, topic and group are required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.Group,
		StartOffset: kafka.FirstOffset,
		MaxWait:     time.Second,
	})
	return newKafkaDriver(w, r, cfg.Topic), nil
}

func newKafkaDriver(w kafkaWriter, r kafkaReader, topic string) *KafkaDriver {
	return &KafkaDriver{w: w, r: r, topic: topic}
}

func (d *KafkaDriver) Push(ctx context.Context, payload []byte) error {
	if err := d.w.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		return fmt.Errorf("queue/kafka: write %s: %w", d.topic, err)
	}
	return nil
}

func (d *KafkaDriver) Pop(ctx context.Context) ([]byte, error) {
	msg, err := d.r.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue/kafka: fetch %s: %w", d.topic, err)
	}
	if err := d.r.CommitMessages(ctx, msg); err != nil {
		return nil, fmt.Errorf("queue/kafka: commit %s@%d: %w", d.topic, msg.Offset, err)
	}
	return msg.Value, nil
}

// Len is the consumer group's lag as last reported by the reader.
func (d *KafkaDriver) Len(context.Context) (int64, error) {
	return d.r.Stats().Lag, nil
}

// Close flushes the writer and leaves the consumer group.
func (d *KafkaDriver) Close() error {
	return errors.Join(d.w.Close(), d.r.Close())
}
