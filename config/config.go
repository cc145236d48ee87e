package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	// Server Configuration
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Result store. Postgres in production, SQLite for single-node deployments.
	Store    StoreConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig

	// Redis - run status cache
	Redis RedisConfig

	// Kafka - run events and programmatic submissions
	Kafka KafkaConfig

	// MinIO - archived markdown reports
	MinIO MinIOConfig

	// Authentication
	JWT            JWTConfig
	Cookie         CookieConfig
	InternalConfig InternalConfig

	// Check pipeline
	Executor   ExecutorConfig
	Recovery   RecoveryConfig
	VirusTotal VirusTotalConfig

	// Monitoring
	OTel    OTelConfig
	Discord DiscordConfig

	// PublicBaseURL prefixes share links returned to clients.
	PublicBaseURL string
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// HTTPServerConfig is the configuration for the HTTP server
type HTTPServerConfig struct {
	Host string
	Port int
	Mode string
	// AllowedOrigins are the origin patterns accepted on the progress websocket.
	AllowedOrigins []string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type StoreConfig struct {
	Driver string
}

// PostgresConfig is the configuration for Postgres
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Schema   string
}

type SQLiteConfig struct {
	Path string
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	StatusTTL time.Duration
}

// KafkaConfig is the configuration for Kafka
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	ClientID       string
	SubmitTopic    string
	ProgressTopic  string
	CompletedTopic string
	ConsumerGroup  string
}

// MinIOConfig is the configuration for MinIO
type MinIOConfig struct {
	Enabled        bool
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Region         string
	Bucket         string
	DownloadExpiry time.Duration
}

// JWTConfig is used to verify tokens issued by the identity service. This service does not issue tokens.
type JWTConfig struct {
	Issuer    string
	Audience  []string
	SecretKey string
}

// CookieConfig names the cookie the auth middleware falls back to.
type CookieConfig struct {
	Name string
}

// InternalConfig holds service-to-service credentials.
type InternalConfig struct {
	// ServiceKeys maps a service name to the bcrypt hash of its key.
	ServiceKeys map[string]string
}

// ExecutorConfig tunes the check pipeline.
type ExecutorConfig struct {
	Tier1Timeout        time.Duration
	CheckTimeout        time.Duration
	RunConcurrency      int
	MaxConcurrentChecks int
	MaxFetchURLs        int
	UserAgent           string
}

type RecoveryConfig struct {
	StaleAfter time.Duration
}

type VirusTotalConfig struct {
	APIKey  string
	BaseURL string
}

type OTelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

type DiscordConfig struct {
	WebhookID    string
	WebhookToken string
}

// Load loads configuration using Viper
func Load() (*Config, error) {
	viper.SetConfigName("campaignqa-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/campaignqa/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional, env vars cover every key.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Host = viper.GetString("http_server.host")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.AllowedOrigins = viper.GetStringSlice("http_server.allowed_origins")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.PublicBaseURL = strings.TrimRight(viper.GetString("public_base_url"), "/")

	// Store
	cfg.Store.Driver = strings.ToLower(viper.GetString("store.driver"))
	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")
	cfg.Postgres.Schema = viper.GetString("postgres.schema")
	cfg.SQLite.Path = viper.GetString("sqlite.path")

	// Redis
	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.StatusTTL = viper.GetDuration("redis.status_ttl")

	// Kafka
	cfg.Kafka.Enabled = viper.GetBool("kafka.enabled")
	cfg.Kafka.Brokers = viper.GetStringSlice("kafka.brokers")
	cfg.Kafka.ClientID = viper.GetString("kafka.client_id")
	cfg.Kafka.SubmitTopic = viper.GetString("kafka.submit_topic")
	cfg.Kafka.ProgressTopic = viper.GetString("kafka.progress_topic")
	cfg.Kafka.CompletedTopic = viper.GetString("kafka.completed_topic")
	cfg.Kafka.ConsumerGroup = viper.GetString("kafka.consumer_group")

	// MinIO
	cfg.MinIO.Enabled = viper.GetBool("minio.enabled")
	cfg.MinIO.Endpoint = viper.GetString("minio.endpoint")
	cfg.MinIO.AccessKey = viper.GetString("minio.access_key")
	cfg.MinIO.SecretKey = viper.GetString("minio.secret_key")
	cfg.MinIO.UseSSL = viper.GetBool("minio.use_ssl")
	cfg.MinIO.Region = viper.GetString("minio.region")
	cfg.MinIO.Bucket = viper.GetString("minio.bucket")
	cfg.MinIO.DownloadExpiry = viper.GetDuration("minio.download_expiry")

	// JWT
	cfg.JWT.Issuer = viper.GetString("jwt.issuer")
	cfg.JWT.Audience = viper.GetStringSlice("jwt.audience")
	cfg.JWT.SecretKey = viper.GetString("jwt.secret_key")
	cfg.Cookie.Name = viper.GetString("cookie.name")

	// Service keys
	serviceKeys := make(map[string]string)
	if viper.IsSet("internal.service_keys") {
		for service, hash := range viper.GetStringMapString("internal.service_keys") {
			serviceKeys[service] = hash
		}
	}
	cfg.InternalConfig.ServiceKeys = serviceKeys

	// Executor
	cfg.Executor.Tier1Timeout = viper.GetDuration("executor.tier1_timeout")
	cfg.Executor.CheckTimeout = viper.GetDuration("executor.check_timeout")
	cfg.Executor.RunConcurrency = viper.GetInt("executor.run_concurrency")
	cfg.Executor.MaxConcurrentChecks = viper.GetInt("executor.max_concurrent_checks")
	cfg.Executor.MaxFetchURLs = viper.GetInt("executor.max_fetch_urls")
	cfg.Executor.UserAgent = viper.GetString("executor.user_agent")
	cfg.Recovery.StaleAfter = viper.GetDuration("recovery.stale_after")
	cfg.VirusTotal.APIKey = viper.GetString("virustotal.api_key")
	cfg.VirusTotal.BaseURL = viper.GetString("virustotal.base_url")

	// Monitoring
	cfg.OTel.Enabled = viper.GetBool("otel.enabled")
	cfg.OTel.Endpoint = viper.GetString("otel.endpoint")
	cfg.OTel.ServiceName = viper.GetString("otel.service_name")
	cfg.OTel.SampleRatio = viper.GetFloat64("otel.sample_ratio")
	cfg.Discord.WebhookID = viper.GetString("discord.webhook_id")
	cfg.Discord.WebhookToken = viper.GetString("discord.webhook_token")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "production")

	// HTTP Server
	viper.SetDefault("http_server.host", "")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "release")

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	// Store
	viper.SetDefault("store.driver", StoreDriverPostgres)
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.dbname", "postgres")
	viper.SetDefault("postgres.sslmode", "prefer")
	viper.SetDefault("postgres.schema", "campaign_qa")
	viper.SetDefault("sqlite.path", "campaignqa.db")

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.status_ttl", "1h")

	// Kafka
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.client_id", "campaignqa-srv")
	viper.SetDefault("kafka.submit_topic", "campaignqa.run.submit")
	viper.SetDefault("kafka.progress_topic", "campaignqa.run.progress")
	viper.SetDefault("kafka.completed_topic", "campaignqa.run.completed")
	viper.SetDefault("kafka.consumer_group", "campaignqa-submit-consumer")

	// MinIO
	viper.SetDefault("minio.enabled", false)
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("minio.region", "us-east-1")
	viper.SetDefault("minio.bucket", "campaign-qa-reports")
	viper.SetDefault("minio.download_expiry", "30m")

	// JWT
	viper.SetDefault("jwt.issuer", "identity-srv")
	viper.SetDefault("cookie.name", "auth_token")

	// Executor
	viper.SetDefault("executor.tier1_timeout", "3s")
	viper.SetDefault("executor.check_timeout", "20s")
	viper.SetDefault("executor.run_concurrency", 6)
	viper.SetDefault("executor.max_concurrent_checks", 64)
	viper.SetDefault("executor.max_fetch_urls", 10)
	viper.SetDefault("executor.user_agent", "Mozilla/5.0 (compatible; CampaignQA/1.0)")
	viper.SetDefault("recovery.stale_after", "10m")
	viper.SetDefault("virustotal.base_url", "https://www.virustotal.com/api/v3")

	// Monitoring
	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.service_name", "campaignqa-srv")
	viper.SetDefault("otel.sample_ratio", 1.0)
}

func validate(cfg *Config) error {
	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	if len(cfg.JWT.SecretKey) < 32 {
		return fmt.Errorf("jwt.secret_key must be at least 32 characters for security")
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		if cfg.Postgres.Host == "" {
			return fmt.Errorf("postgres.host is required")
		}
		if cfg.Postgres.Port == 0 {
			return fmt.Errorf("postgres.port is required")
		}
		if cfg.Postgres.DBName == "" {
			return fmt.Errorf("postgres.dbname is required")
		}
		if cfg.Postgres.User == "" {
			return fmt.Errorf("postgres.user is required")
		}
	case StoreDriverSQLite:
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", StoreDriverPostgres, StoreDriverSQLite, cfg.Store.Driver)
	}

	if cfg.Redis.Enabled {
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis.host is required")
		}
		if cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.port is required")
		}
	}

	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must have at least one value")
	}

	if cfg.MinIO.Enabled {
		if cfg.MinIO.Endpoint == "" {
			return fmt.Errorf("minio.endpoint is required")
		}
		if cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
			return fmt.Errorf("minio.access_key and minio.secret_key are required")
		}
		if cfg.MinIO.Bucket == "" {
			return fmt.Errorf("minio.bucket is required")
		}
	}

	if cfg.Executor.CheckTimeout <= 0 {
		return fmt.Errorf("executor.check_timeout must be greater than 0")
	}
	if cfg.Executor.RunConcurrency <= 0 || cfg.Executor.MaxConcurrentChecks <= 0 {
		return fmt.Errorf("executor concurrency limits must be greater than 0")
	}
	if cfg.Recovery.StaleAfter <= cfg.Executor.CheckTimeout {
		return fmt.Errorf("recovery.stale_after must exceed executor.check_timeout")
	}

	return nil
}
