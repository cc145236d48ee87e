package minio

import (
	"fmt"
	"io"
	"time"

	"campaignqa-srv/config"

	"github.com/minio/minio-go/v7"
)

type implMinIO struct {
	minioClient *minio.Client
	config      *config.MinIOConfig
}

// StorageError is returned by every MinIO operation.
type StorageError struct {
	Code      string
	Message   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("minio %s: %s", e.Operation, e.Message)
	}
	return "minio: " + e.Message
}

func (e *StorageError) Unwrap() error { return e.Cause }

// UploadRequest contains the parameters for uploading an object.
type UploadRequest struct {
	BucketName  string
	ObjectName  string
	Reader      io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// FileInfo describes a stored object.
type FileInfo struct {
	BucketName string
	ObjectName string
	Size       int64
	ETag       string
}

// PresignedURLRequest asks for a time-limited download link.
type PresignedURLRequest struct {
	BucketName string
	ObjectName string
	Expiry     time.Duration
	// Filename sets the Content-Disposition of the download when not empty.
	Filename string
}

// PresignedURLResponse is a presigned link and its expiry.
type PresignedURLResponse struct {
	URL       string
	ExpiresAt time.Time
}
