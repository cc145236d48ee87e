package kafka

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
)

var (
	errBrokerRequired = errors.New("kafka: at least one broker is required")
	errGroupRequired  = errors.New("kafka: group ID is required")
	errTopicRequired  = errors.New("kafka: topic is required")
)

func validateBrokers(brokers []string) error {
	if len(brokers) == 0 {
		return errBrokerRequired
	}
	return nil
}

func newProducerImpl(cfg Config) (*producerImpl, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = ProducerRetryMax
	config.Producer.Timeout = ProducerTimeout
	config.Version = KafkaVersion
	if cfg.ClientID != "" {
		config.ClientID = cfg.ClientID
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return &producerImpl{producer: producer}, nil
}

// Publish sends one message. Messages with the same key land on the same partition.
func (p *producerImpl) Publish(topic string, key, value []byte) error {
	if topic == "" {
		return errTopicRequired
	}
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}
	return nil
}

func (p *producerImpl) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
