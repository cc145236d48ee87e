package httpserver

import (
	"database/sql"
	"errors"

	"campaignqa-srv/config"
	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/pkg/discord"
	"campaignqa-srv/pkg/encrypter"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
	"campaignqa-srv/pkg/minio"
	pkgRedis "campaignqa-srv/pkg/redis"
	"campaignqa-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	// Server Configuration
	gin         *gin.Engine
	l           log.Logger
	host        string
	port        int
	mode        string
	environment string

	// Database Configuration
	db          *sql.DB
	storeDriver string

	// Optional infrastructure, nil when disabled
	redisClient   pkgRedis.IRedis
	minioClient   minio.MinIO
	kafkaProducer pkgKafka.IProducer

	// Check pipeline
	registry *check.Registry
	runUC    run.UseCase

	// Authentication & Security Configuration
	config     *config.Config
	jwtManager scope.Manager
	encrypter  encrypter.Encrypter

	// Monitoring & Notification Configuration
	discord discord.IDiscord
}

type Config struct {
	// Server Configuration
	Logger      log.Logger
	Host        string
	Port        int
	Mode        string
	Environment string

	// Database Configuration
	DB          *sql.DB
	StoreDriver string

	// Optional infrastructure
	RedisClient   pkgRedis.IRedis
	MinIOClient   minio.MinIO
	KafkaProducer pkgKafka.IProducer

	Registry *check.Registry

	// Authentication & Security Configuration
	Config     *config.Config
	JWTManager scope.Manager
	Encrypter  encrypter.Encrypter

	// Monitoring & Notification Configuration
	Discord discord.IDiscord
}

// New creates a new HTTPServer instance with the provided configuration.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.Use(gin.Logger())

	srv := &HTTPServer{
		// Server Configuration
		l:           logger,
		gin:         engine,
		host:        cfg.Host,
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,

		// Database Configuration
		db:          cfg.DB,
		storeDriver: cfg.StoreDriver,

		// Optional infrastructure
		redisClient:   cfg.RedisClient,
		minioClient:   cfg.MinIOClient,
		kafkaProducer: cfg.KafkaProducer,

		registry: cfg.Registry,

		// Authentication & Security Configuration
		config:     cfg.Config,
		jwtManager: cfg.JWTManager,
		encrypter:  cfg.Encrypter,

		// Monitoring & Notification Configuration
		discord: cfg.Discord,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate validates that all required dependencies are provided.
func (srv *HTTPServer) validate() error {
	// Server Configuration
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	// host can be empty (listen on all interfaces)
	if srv.port == 0 {
		return errors.New("port is required")
	}

	// Database Configuration
	if srv.db == nil {
		return errors.New("db is required")
	}
	if srv.storeDriver != config.StoreDriverPostgres && srv.storeDriver != config.StoreDriverSQLite {
		return errors.New("storeDriver must be postgres or sqlite")
	}

	if srv.registry == nil {
		return errors.New("registry is required")
	}

	// Authentication & Security Configuration
	if srv.config == nil {
		return errors.New("config is required")
	}
	if srv.jwtManager == nil {
		return errors.New("jwtManager is required")
	}
	if srv.encrypter == nil {
		return errors.New("encrypter is required")
	}

	return nil
}
