package minio

import (
	"context"
	"fmt"
	"sync"

	"campaignqa-srv/config"
	"campaignqa-srv/pkg/minio"
)

var (
	instance minio.MinIO
	once     sync.Once
	mu       sync.RWMutex
	initErr  error
)

// Connect creates the MinIO client and makes sure the report bucket exists.
func Connect(ctx context.Context, cfg *config.MinIOConfig) (minio.MinIO, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	if initErr != nil {
		once = sync.Once{}
		initErr = nil
	}

	var err error
	once.Do(func() {
		client, e := minio.NewMinIO(cfg)
		if e != nil {
			err = fmt.Errorf("failed to create MinIO client: %w", e)
			initErr = err
			return
		}
		if e := client.EnsureBucket(ctx, cfg.Bucket); e != nil {
			err = fmt.Errorf("failed to prepare MinIO bucket %s: %w", cfg.Bucket, e)
			initErr = err
			return
		}
		instance = client
	})

	return instance, err
}
