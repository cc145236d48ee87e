package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// IProducer publishes keyed messages.
// Implementations are safe for concurrent use.
type IProducer interface {
	Publish(topic string, key, value []byte) error
	Close() error
}

// IConsumer wraps sarama.ConsumerGroup.
type IConsumer interface {
	// ConsumeWithContext blocks, rejoining the group after each rebalance, until ctx is cancelled.
	ConsumeWithContext(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error
	Errors() <-chan error
	Close() error
}

// NewProducer creates a sync producer. Returns the interface.
func NewProducer(cfg Config) (IProducer, error) {
	if err := validateBrokers(cfg.Brokers); err != nil {
		return nil, err
	}
	return newProducerImpl(cfg)
}

// NewConsumer creates a consumer group. Returns the interface.
func NewConsumer(cfg ConsumerConfig) (IConsumer, error) {
	if err := validateBrokers(cfg.Brokers); err != nil {
		return nil, err
	}
	if cfg.GroupID == "" {
		return nil, errGroupRequired
	}
	return newConsumerImpl(cfg)
}
