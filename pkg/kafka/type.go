package kafka

import "github.com/IBM/sarama"

// Config holds configuration for Kafka producer.
type Config struct {
	Brokers  []string
	ClientID string
}

// ConsumerConfig holds configuration for Kafka consumer group.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
}

type producerImpl struct {
	producer sarama.SyncProducer
}

type consumerImpl struct {
	group sarama.ConsumerGroup
}
