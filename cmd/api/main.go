package main

import (
	"context"
	"database/sql"
	"fmt"

	"campaignqa-srv/config"
	"campaignqa-srv/config/kafka"
	"campaignqa-srv/config/minio"
	"campaignqa-srv/config/postgre"
	"campaignqa-srv/config/redis"
	"campaignqa-srv/config/sqlite"
	"campaignqa-srv/internal/check/catalog"
	"campaignqa-srv/internal/httpserver"
	"campaignqa-srv/pkg/discord"
	"campaignqa-srv/pkg/encrypter"
	pkgJWT "campaignqa-srv/pkg/jwt"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
	pkgMinio "campaignqa-srv/pkg/minio"
	"campaignqa-srv/pkg/otel"
	pkgRedis "campaignqa-srv/pkg/redis"
)

// @title       Campaign QA Service API
// @description Campaign URL quality assurance: submit campaign URLs, follow check progress, read scored reports.
// @version     1
// @host        campaignqa-srv.tantai.dev
// @schemes     https
// @BasePath    /campaign-qa
//
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth_token
// @description Authentication token stored in HttpOnly cookie.
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Bearer token authentication. Format: "Bearer {token}"
//
// @securityDefinitions.apikey ServiceKey
// @in header
// @name X-Service-Key
// @description Internal service key. Format: "{service}:{key}"
func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx := context.Background()

	// 3. Tracing (optional)
	shutdownTracing, err := otel.Setup(ctx, otel.Config{
		Enabled:     cfg.OTel.Enabled,
		Endpoint:    cfg.OTel.Endpoint,
		ServiceName: cfg.OTel.ServiceName,
		SampleRatio: cfg.OTel.SampleRatio,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to set up tracing: %v", err)
		return
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			logger.Warnf(ctx, "Tracing shutdown error: %v", err)
		}
	}()

	// 4. Initialize encrypter
	encrypterInstance := encrypter.New()

	// 5. Initialize store
	db, closeStore, err := connectStore(ctx, logger, cfg)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to %s store: %v", cfg.Store.Driver, err)
		return
	}
	defer closeStore()

	// 6. Initialize Discord (optional)
	discordClient, err := discord.New(logger, &discord.DiscordWebhook{
		ID:    cfg.Discord.WebhookID,
		Token: cfg.Discord.WebhookToken,
	})
	if err != nil {
		logger.Warnf(ctx, "Discord webhook not configured (optional): %v", err)
		discordClient = nil
	} else {
		logger.Infof(ctx, "Discord webhook initialized successfully")
	}

	// 7. Initialize Redis (optional)
	var redisClient pkgRedis.IRedis
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return
		}
		defer redis.Disconnect()
		logger.Infof(ctx, "Redis connected successfully to %s:%d (DB %d)", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	}

	// 8. Initialize MinIO (optional)
	var minioClient pkgMinio.MinIO
	if cfg.MinIO.Enabled {
		minioClient, err = minio.Connect(ctx, &cfg.MinIO)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to MinIO: %v", err)
			return
		}
		logger.Infof(ctx, "MinIO connected successfully to %s (bucket %s)", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
	}

	// 9. Initialize Kafka producer (optional)
	var kafkaProducer pkgKafka.IProducer
	if cfg.Kafka.Enabled {
		kafkaProducer, err = kafka.ConnectProducer(cfg.Kafka)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Kafka producer: %v", err)
			return
		}
		defer func() {
			if err := kafka.DisconnectProducer(); err != nil {
				logger.Warnf(ctx, "Kafka producer close error: %v", err)
			}
		}()
		logger.Infof(ctx, "Kafka producer connected to %v", cfg.Kafka.Brokers)
	}

	// 10. Initialize JWT Manager
	jwtManager, err := pkgJWT.New(pkgJWT.Config{
		SecretKey: cfg.JWT.SecretKey,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize JWT manager: ", err)
		return
	}

	// 11. Build the check registry
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
	logger.Infof(ctx, "Check registry loaded with %d checks", registry.Len())

	// 12. Initialize HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		// Server Configuration
		Logger:      logger,
		Host:        cfg.HTTPServer.Host,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,

		// Database Configuration
		DB:          db,
		StoreDriver: cfg.Store.Driver,

		// Optional infrastructure
		RedisClient:   redisClient,
		MinIOClient:   minioClient,
		KafkaProducer: kafkaProducer,

		Registry: registry,

		// Authentication & Security Configuration
		Config:     cfg,
		JWTManager: jwtManager,
		Encrypter:  encrypterInstance,

		// Monitoring & Notification Configuration
		Discord: discordClient,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}
}

// connectStore opens the configured run store and returns its close function.
func connectStore(ctx context.Context, logger log.Logger, cfg *config.Config) (*sql.DB, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqlite.Connect(ctx, cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(ctx, "SQLite store opened at %s", cfg.SQLite.Path)
		return db, func() { _ = db.Close() }, nil
	default:
		db, err := postgre.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		return db, func() { _ = postgre.Disconnect(ctx, db) }, nil
	}
}
