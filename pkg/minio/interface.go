package minio

import (
	"context"
	"net/http"
	"strings"

	"campaignqa-srv/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO is the object storage used for archived reports.
type MinIO interface {
	HealthCheck(ctx context.Context) error
	EnsureBucket(ctx context.Context, bucketName string) error
	UploadFile(ctx context.Context, req *UploadRequest) (*FileInfo, error)
	FileExists(ctx context.Context, bucketName, objectName string) (bool, error)
	GetPresignedDownloadURL(ctx context.Context, req *PresignedURLRequest) (*PresignedURLResponse, error)
}

// NewMinIO creates a new MinIO client. Returns the MinIO interface.
func NewMinIO(cfg *config.MinIOConfig) (MinIO, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if !strings.Contains(endpoint, ":") {
		endpoint += DefaultEndpointPort
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	})
	if err != nil {
		return nil, handleMinIOError(err, "new_client")
	}
	return &implMinIO{minioClient: client, config: cfg}, nil
}
