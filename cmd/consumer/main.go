package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campaignqa-srv/config"
	"campaignqa-srv/config/kafka"
	"campaignqa-srv/config/minio"
	"campaignqa-srv/config/postgre"
	"campaignqa-srv/config/redis"
	"campaignqa-srv/config/sqlite"
	"campaignqa-srv/internal/check/catalog"
	"campaignqa-srv/internal/consumer"
	"campaignqa-srv/pkg/discord"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
	pkgMinio "campaignqa-srv/pkg/minio"
	pkgRedis "campaignqa-srv/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Campaign QA Consumer Service...")

	// Store
	var db *sql.DB
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err = sqlite.Connect(ctx, cfg.SQLite)
	default:
		db, err = postgre.Connect(ctx, cfg.Postgres)
	}
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to %s store: %v", cfg.Store.Driver, err)
		return
	}
	defer db.Close()
	logger.Infof(ctx, "%s store initialized", cfg.Store.Driver)

	// Kafka Producer (optional, progress and completion events)
	var kafkaProducer pkgKafka.IProducer
	if cfg.Kafka.Enabled {
		kafkaProducer, err = kafka.ConnectProducer(cfg.Kafka)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Kafka producer: %v", err)
			return
		}
		defer kafka.DisconnectProducer()
		logger.Info(ctx, "Kafka producer initialized")
	}

	// Redis (optional)
	var redisClient pkgRedis.IRedis
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return
		}
		defer redis.Disconnect()
		logger.Info(ctx, "Redis client initialized")
	}

	// MinIO (optional)
	var minioClient pkgMinio.MinIO
	if cfg.MinIO.Enabled {
		minioClient, err = minio.Connect(ctx, &cfg.MinIO)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to MinIO: %v", err)
			return
		}
		logger.Info(ctx, "MinIO client initialized")
	}

	// Check registry
	registry, err := catalog.New(catalog.Config{
		UserAgent:         cfg.Executor.UserAgent,
		FetchTimeout:      cfg.Executor.CheckTimeout,
		MaxURLs:           cfg.Executor.MaxFetchURLs,
		VirusTotalAPIKey:  cfg.VirusTotal.APIKey,
		VirusTotalBaseURL: cfg.VirusTotal.BaseURL,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to build check registry: %v", err)
	}

	// Discord (optional)
	discordClient, err := discord.New(logger, &discord.DiscordWebhook{
		ID:    cfg.Discord.WebhookID,
		Token: cfg.Discord.WebhookToken,
	})
	if err != nil {
		logger.Warnf(ctx, "Discord webhook not configured (optional): %v", err)
		discordClient = nil
	}

	// Consumer server
	srv, err := consumer.New(consumer.Config{
		Logger:        logger,
		Config:        cfg,
		DB:            db,
		StoreDriver:   cfg.Store.Driver,
		RedisClient:   redisClient,
		MinIOClient:   minioClient,
		KafkaProducer: kafkaProducer,
		Registry:      registry,
		Discord:       discordClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create consumer server: %v", err)
		return
	}

	// Run consumer server
	logger.Info(ctx, "Consumer server starting...")
	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "Consumer server error: %v", err)
		return
	}

	logger.Info(ctx, "Consumer server stopped gracefully")
}
