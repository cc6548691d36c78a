package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaCleanupQueue publishes deletion jobs so any replica can perform them.
type KafkaCleanupQueue struct {
	writer *kafka.Writer
}

func NewKafkaCleanupQueue(brokers []string, topic string) *KafkaCleanupQueue {
	return &KafkaCleanupQueue{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (q *KafkaCleanupQueue) Enqueue(ctx context.Context, job DeleteJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode cleanup job: %w", err)
	}
	msg := kafka.Message{Key: []byte(job.PublicID), Value: value}
	if err := q.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish cleanup job: %w", err)
	}
	return nil
}

func (q *KafkaCleanupQueue) Close() error {
	return q.writer.Close()
}

// KafkaCleanupConsumer reads deletion jobs from the topic and hands them to a
// local queue, normally a Janitor.
type KafkaCleanupConsumer struct {
	reader *kafka.Reader
	sink   CleanupQueue
}

func NewKafkaCleanupConsumer(brokers []string, topic, groupID string, sink CleanupQueue) *KafkaCleanupConsumer {
	return &KafkaCleanupConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
		sink: sink,
	}
}

// Run consumes until ctx is cancelled.
func (c *KafkaCleanupConsumer) Run(ctx context.Context) {
	log.Info().Str("topic", c.reader.Config().Topic).Msg("🧹 media cleanup consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Error().Err(err).Msg("❌ failed to read cleanup job")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var job DeleteJob
		if err := json.Unmarshal(m.Value, &job); err != nil {
			log.Warn().Err(err).Int64("offset", m.Offset).Msg("skipping malformed cleanup job")
			continue
		}
		if err := c.sink.Enqueue(ctx, job); err != nil {
			log.Warn().Err(err).Str("public_id", job.PublicID).Msg("⚠️ cleanup job dropped")
		}
	}
}

func (c *KafkaCleanupConsumer) Close() error {
	return c.reader.Close()
}
