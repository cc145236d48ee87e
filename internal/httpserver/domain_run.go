package httpserver

import (
	"context"

	"campaignqa-srv/config"
	"campaignqa-srv/internal/middleware"
	"campaignqa-srv/internal/run"
	runHTTP "campaignqa-srv/internal/run/delivery/http"
	runProducer "campaignqa-srv/internal/run/delivery/kafka/producer"
	"campaignqa-srv/internal/run/repository"
	runPostgre "campaignqa-srv/internal/run/repository/postgre"
	runRedis "campaignqa-srv/internal/run/repository/redis"
	runSQLite "campaignqa-srv/internal/run/repository/sqlite"
	runUsecase "campaignqa-srv/internal/run/usecase"

	"github.com/gin-gonic/gin"
)

// setupRunDomain initializes the run domain (repo -> usecase -> delivery)
func (srv *HTTPServer) setupRunDomain(ctx context.Context, r *gin.RouterGroup, mw middleware.Middleware) error {
	var repo repository.Repository
	switch srv.storeDriver {
	case config.StoreDriverSQLite:
		if err := runSQLite.Migrate(ctx, srv.db); err != nil {
			return err
		}
		repo = runSQLite.New(srv.db, srv.l)
	default:
		repo = runPostgre.New(srv.db, srv.l)
	}

	// Optional dependencies stay nil interfaces when their backend is disabled
	var cache repository.StatusCache
	if srv.redisClient != nil {
		cache = runRedis.New(srv.redisClient, srv.config.Redis.StatusTTL, srv.l)
	}
	var producer run.Producer
	if srv.kafkaProducer != nil {
		producer = runProducer.New(srv.l, srv.kafkaProducer, runProducer.Topics{
			Progress:  srv.config.Kafka.ProgressTopic,
			Completed: srv.config.Kafka.CompletedTopic,
		})
	}

	uc := runUsecase.New(srv.l, repo, cache, srv.registry, producer, srv.minioClient, srv.discord, runUsecase.Config{
		Tier1Timeout:        srv.config.Executor.Tier1Timeout,
		CheckTimeout:        srv.config.Executor.CheckTimeout,
		RunConcurrency:      srv.config.Executor.RunConcurrency,
		MaxConcurrentChecks: int64(srv.config.Executor.MaxConcurrentChecks),
		StaleAfter:          srv.config.Recovery.StaleAfter,
		PublicBaseURL:       srv.config.PublicBaseURL,
		ArchiveBucket:       srv.config.MinIO.Bucket,
		DownloadExpiry:      srv.config.MinIO.DownloadExpiry,
	})
	srv.runUC = uc

	handler := runHTTP.New(srv.l, uc, srv.discord, srv.config.HTTPServer.AllowedOrigins)
	handler.RegisterRoutes(r, mw)

	srv.l.Infof(ctx, "Run domain registered (%d checks, store %s)", srv.registry.Len(), srv.storeDriver)
	return nil
}
