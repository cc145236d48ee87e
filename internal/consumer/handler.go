package consumer

import (
	"context"
	"fmt"

	"campaignqa-srv/config"
	"campaignqa-srv/internal/run"
	runConsumer "campaignqa-srv/internal/run/delivery/kafka/consumer"
	runProducer "campaignqa-srv/internal/run/delivery/kafka/producer"
	"campaignqa-srv/internal/run/repository"
	runPostgre "campaignqa-srv/internal/run/repository/postgre"
	runRedis "campaignqa-srv/internal/run/repository/redis"
	runSQLite "campaignqa-srv/internal/run/repository/sqlite"
	runUsecase "campaignqa-srv/internal/run/usecase"
)

// domainConsumers holds references to all domain consumers for cleanup (interface, like http.Handler)
type domainConsumers struct {
	runUC       run.UseCase
	runConsumer *runConsumer.Consumer
}

// setupDomains initializes all domain layers (repositories, usecases, consumers)
func (srv *ConsumerServer) setupDomains(ctx context.Context) (*domainConsumers, error) {
	var repo repository.Repository
	switch srv.storeDriver {
	case config.StoreDriverSQLite:
		if err := runSQLite.Migrate(ctx, srv.db); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
		}
		repo = runSQLite.New(srv.db, srv.l)
	default:
		repo = runPostgre.New(srv.db, srv.l)
	}

	var cache repository.StatusCache
	if srv.redisClient != nil {
		cache = runRedis.New(srv.redisClient, srv.config.Redis.StatusTTL, srv.l)
	}
	var producer run.Producer
	if srv.kafkaProducer != nil {
		producer = runProducer.New(srv.l, srv.kafkaProducer, runProducer.Topics{
			Progress:  srv.kafkaConfig.ProgressTopic,
			Completed: srv.kafkaConfig.CompletedTopic,
		})
	}

	runUC := runUsecase.New(srv.l, repo, cache, srv.registry, producer, srv.minioClient, srv.discord, runUsecase.Config{
		Tier1Timeout:        srv.config.Executor.Tier1Timeout,
		CheckTimeout:        srv.config.Executor.CheckTimeout,
		RunConcurrency:      srv.config.Executor.RunConcurrency,
		MaxConcurrentChecks: int64(srv.config.Executor.MaxConcurrentChecks),
		StaleAfter:          srv.config.Recovery.StaleAfter,
		PublicBaseURL:       srv.config.PublicBaseURL,
		ArchiveBucket:       srv.config.MinIO.Bucket,
		DownloadExpiry:      srv.config.MinIO.DownloadExpiry,
	})

	runCons, err := runConsumer.New(runConsumer.Config{
		Logger:      srv.l,
		KafkaConfig: srv.kafkaConfig,
		UseCase:     runUC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run consumer: %w", err)
	}

	srv.l.Infof(ctx, "Run domain initialized (%d checks, store %s)", srv.registry.Len(), srv.storeDriver)

	return &domainConsumers{
		runUC:       runUC,
		runConsumer: runCons,
	}, nil
}

// startConsumers starts all domain consumers in background goroutines
func (srv *ConsumerServer) startConsumers(ctx context.Context, consumers *domainConsumers) error {
	if err := consumers.runConsumer.ConsumeSubmissions(ctx); err != nil {
		return fmt.Errorf("failed to start run consumer: %w", err)
	}

	srv.l.Infof(ctx, "All consumers started successfully")
	return nil
}

// stopConsumers closes the consumer group, then waits for accepted runs to finalize.
func (srv *ConsumerServer) stopConsumers(ctx context.Context, consumers *domainConsumers) {
	if consumers.runConsumer != nil {
		if err := consumers.runConsumer.Close(); err != nil {
			srv.l.Errorf(ctx, "Error closing run consumer: %v", err)
		}
	}
	if consumers.runUC != nil {
		if err := consumers.runUC.Wait(ctx); err != nil {
			srv.l.Warnf(ctx, "Runs still executing at shutdown, recovery will fail them on next start: %v", err)
		}
	}

	srv.l.Infof(ctx, "All consumers stopped")
}
