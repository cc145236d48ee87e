package minio

import "time"

const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 100
	idleConnTimeout     = 90 * time.Second

	// MaxObjectSizeBytes caps a single upload.
	MaxObjectSizeBytes = 64 << 20
	// MaxPresignedExpiry is the maximum presigned URL expiry (7 days).
	MaxPresignedExpiry = 7 * 24 * time.Hour
	// DefaultEndpointPort is appended to endpoint if no port.
	DefaultEndpointPort = ":9000"
)

// Storage error codes.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodePermission   = "PERMISSION_DENIED"
	ErrCodeConnection   = "CONNECTION_FAILED"
)
