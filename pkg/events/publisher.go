// Package events publishes entity lifecycle events to a Kafka audit topic.
// Publishing is fire-and-forget: a lost audit event never fails the request
// that produced it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/dtb-bank/core-banking/pkg"
	kafkautils "github.com/dtb-bank/core-banking/pkg/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntityEvent is the audit record emitted on create and soft delete.
type EntityEvent struct {
	Type       pkg.EntityEventType `json:"type"`
	EntityID   uuid.UUID           `json:"entityId"`
	TraceID    string              `json:"traceId"`
	OccurredAt time.Time           `json:"occurredAt"`
}

type Publisher interface {
	Publish(event EntityEvent)
	Close()
}

type Config struct {
	Brokers       string
	Topic         string
	NumPartitions int
}

// New creates a Kafka-backed publisher, bootstrapping the audit topic.
// Empty brokers yield a no-op publisher so local runs and tests need no
// broker.
func New(logger *zap.Logger, ctx context.Context, cfg Config) (Publisher, error) {
	if cfg.Brokers == "" {
		logger.Warn("kafka brokers not configured; lifecycle events disabled")
		return noopPublisher{}, nil
	}

	topicConfig := kafkautils.KafkaConfig{
		BootstrapServers: cfg.Brokers,
		Topics: []kafkautils.TopicConfig{
			{
				Topic:             cfg.Topic,
				NumPartitions:     cfg.NumPartitions,
				ReplicationFactor: 1,
				Config: map[string]string{
					"cleanup.policy": "delete",
				},
			},
		},
	}
	if err := kafkautils.InitKafkaTopics(logger, ctx, topicConfig); err != nil {
		return nil, err
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"acks":               "all",
		"enable.idempotence": "true",
		"retries":            "1",
	})
	if err != nil {
		return nil, err
	}
	logger.Info("kafka producer created successfully", zap.String("brokers", cfg.Brokers))
	go handleDeliveryReports(logger, p) // Async error handling

	return &kafkaPublisher{logger: logger, producer: p, topic: cfg.Topic}, nil
}

type kafkaPublisher struct {
	logger   *zap.Logger
	producer *kafka.Producer
	topic    string
}

func (k *kafkaPublisher) Publish(event EntityEvent) {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		k.logger.Error("failed to serialize lifecycle event", zap.Error(err))
		return
	}

	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   event.EntityID[:], // per-entity ordering
		Value: msgBytes,
	}, nil)
	if err != nil {
		k.logger.Error("failed to publish lifecycle event",
			zap.String(pkg.TraceId, event.TraceID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func (k *kafkaPublisher) Close() {
	k.producer.Close()
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.Error("failed to publish message", zap.Error(ev.TopicPartition.Error))
			}
		}
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(EntityEvent) {}
func (noopPublisher) Close()              {}
