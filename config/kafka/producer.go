package kafka

import (
	"fmt"
	"sync"

	"campaignqa-srv/config"
	"campaignqa-srv/pkg/kafka"
)

var (
	producerInstance kafka.IProducer
	producerOnce     sync.Once
	producerMu       sync.RWMutex
	producerInitErr  error
)

// ConnectProducer initializes the Kafka producer using singleton pattern.
// Safe for concurrent use. Returns existing instance if already initialized.
func ConnectProducer(cfg config.KafkaConfig) (kafka.IProducer, error) {
	producerMu.Lock()
	defer producerMu.Unlock()

	if producerInstance != nil {
		return producerInstance, nil
	}

	if producerInitErr != nil {
		producerOnce = sync.Once{}
		producerInitErr = nil
	}

	var err error
	producerOnce.Do(func() {
		client, e := kafka.NewProducer(kafka.Config{
			Brokers:  cfg.Brokers,
			ClientID: cfg.ClientID,
		})
		if e != nil {
			err = fmt.Errorf("failed to initialize Kafka producer: %w", e)
			producerInitErr = err
			return
		}
		producerInstance = client
	})

	return producerInstance, err
}

// DisconnectProducer closes the producer and resets the singleton.
func DisconnectProducer() error {
	producerMu.Lock()
	defer producerMu.Unlock()

	if producerInstance == nil {
		return nil
	}
	err := producerInstance.Close()
	producerInstance = nil
	producerOnce = sync.Once{}
	return err
}
