package consumer

import (
	"context"
	"database/sql"
	"time"

	"campaignqa-srv/config"
	"campaignqa-srv/internal/check"
	"campaignqa-srv/pkg/discord"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
	"campaignqa-srv/pkg/minio"
	"campaignqa-srv/pkg/redis"
)

const drainTimeout = 30 * time.Second

// ConsumerServer is the Kafka consumer orchestrator
type ConsumerServer struct {
	// Core Configuration
	l           log.Logger
	kafkaConfig config.KafkaConfig
	config      *config.Config

	// Database Configuration
	db          *sql.DB
	storeDriver string

	// Optional infrastructure, nil when disabled
	redisClient   redis.IRedis
	minioClient   minio.MinIO
	kafkaProducer pkgKafka.IProducer

	registry *check.Registry

	// Monitoring & Notification
	discord discord.IDiscord
}

// Config holds all dependencies for the consumer server
type Config struct {
	// Core Configuration
	Logger log.Logger
	Config *config.Config

	// Database Configuration
	DB          *sql.DB
	StoreDriver string

	// Optional infrastructure
	RedisClient   redis.IRedis
	MinIOClient   minio.MinIO
	KafkaProducer pkgKafka.IProducer

	Registry *check.Registry

	// Monitoring & Notification
	Discord discord.IDiscord
}

// Run starts the consumer server and blocks until context is cancelled.
// Runs accepted from the submit topic keep executing after the consumer group closes; shutdown
// waits up to drainTimeout for them.
func (srv *ConsumerServer) Run(ctx context.Context) error {
	consumers, err := srv.setupDomains(ctx)
	if err != nil {
		srv.l.Errorf(ctx, "Failed to setup domains: %v", err)
		return err
	}

	if err := srv.startConsumers(ctx, consumers); err != nil {
		srv.l.Errorf(ctx, "Failed to start consumers: %v", err)
		return err
	}

	srv.l.Info(ctx, "Consumer Server is running")

	<-ctx.Done()
	srv.l.Info(ctx, "Shutdown signal received, stopping consumers...")

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	srv.stopConsumers(drainCtx, consumers)

	srv.l.Info(drainCtx, "Consumer Server stopped gracefully")
	return nil
}
