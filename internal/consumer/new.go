package consumer

import (
	"fmt"

	"campaignqa-srv/config"
)

// New creates a new consumer server with dependency validation
func New(cfg Config) (*ConsumerServer, error) {
	srv := &ConsumerServer{
		l:             cfg.Logger,
		config:        cfg.Config,
		db:            cfg.DB,
		storeDriver:   cfg.StoreDriver,
		redisClient:   cfg.RedisClient,
		minioClient:   cfg.MinIOClient,
		kafkaProducer: cfg.KafkaProducer,
		registry:      cfg.Registry,
		discord:       cfg.Discord,
	}
	if cfg.Config != nil {
		srv.kafkaConfig = cfg.Config.Kafka
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate validates that all required dependencies are provided
func (srv *ConsumerServer) validate() error {
	// Core Configuration
	if srv.l == nil {
		return fmt.Errorf("logger is required")
	}
	if srv.config == nil {
		return fmt.Errorf("config is required")
	}
	if len(srv.kafkaConfig.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}

	// Database Configuration
	if srv.db == nil {
		return fmt.Errorf("db is required")
	}
	if srv.storeDriver != config.StoreDriverPostgres && srv.storeDriver != config.StoreDriverSQLite {
		return fmt.Errorf("storeDriver must be postgres or sqlite")
	}

	if srv.registry == nil {
		return fmt.Errorf("registry is required")
	}

	return nil
}
