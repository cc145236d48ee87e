package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.JWT.SecretKey = strings.Repeat("k", 32)
	cfg.Store.Driver = StoreDriverSQLite
	cfg.SQLite.Path = ":memory:"
	cfg.Executor.CheckTimeout = 20 * time.Second
	cfg.Executor.RunConcurrency = 6
	cfg.Executor.MaxConcurrentChecks = 64
	cfg.Recovery.StaleAfter = 10 * time.Minute
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "minimal sqlite", mutate: func(*Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWT.SecretKey = "" }, wantErr: "jwt.secret_key is required"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWT.SecretKey = "short" }, wantErr: "at least 32"},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Driver = "mysql" }, wantErr: "store.driver"},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Store.Driver = StoreDriverPostgres
				c.Postgres.Port = 5432
			},
			wantErr: "postgres.host",
		},
		{
			name: "redis enabled without port",
			mutate: func(c *Config) {
				c.Redis.Enabled = true
				c.Redis.Host = "localhost"
			},
			wantErr: "redis.port",
		},
		{
			name:    "kafka enabled without brokers",
			mutate:  func(c *Config) { c.Kafka.Enabled = true },
			wantErr: "kafka.brokers",
		},
		{
			name:    "stale window shorter than a check",
			mutate:  func(c *Config) { c.Recovery.StaleAfter = time.Second },
			wantErr: "recovery.stale_after",
		},
		{
			name: "minio enabled without credentials",
			mutate: func(c *Config) {
				c.MinIO.Enabled = true
				c.MinIO.Endpoint = "localhost:9000"
				c.MinIO.Bucket = "reports"
			},
			wantErr: "minio.access_key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
