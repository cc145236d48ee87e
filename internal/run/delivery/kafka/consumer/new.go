package consumer

import (
	"fmt"

	"campaignqa-srv/config"
	"campaignqa-srv/internal/run"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
)

// Config holds the configuration for the run submission consumer
type Config struct {
	Logger      log.Logger
	KafkaConfig config.KafkaConfig
	UseCase     run.UseCase
}

// Consumer consumes programmatic run submissions
type Consumer struct {
	l           log.Logger
	kafkaConfig config.KafkaConfig
	uc          run.UseCase

	submitGroup pkgKafka.IConsumer
}

// New creates a new run consumer
func New(cfg Config) (*Consumer, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.UseCase == nil {
		return nil, fmt.Errorf("usecase is required")
	}
	if len(cfg.KafkaConfig.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.KafkaConfig.SubmitTopic == "" {
		return nil, fmt.Errorf("kafka submit topic is required")
	}

	return &Consumer{
		l:           cfg.Logger,
		kafkaConfig: cfg.KafkaConfig,
		uc:          cfg.UseCase,
	}, nil
}

// Close closes the consumer group
func (c *Consumer) Close() error {
	if c.submitGroup != nil {
		if err := c.submitGroup.Close(); err != nil {
			return fmt.Errorf("failed to close submit group: %w", err)
		}
	}
	return nil
}
