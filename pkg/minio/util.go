package minio

import (
	"strings"

	"campaignqa-srv/config"
)

func newInvalidInputError(msg string) error {
	return &StorageError{Code: ErrCodeInvalidInput, Message: msg}
}

func validateConfig(cfg *config.MinIOConfig) error {
	if cfg == nil {
		return newInvalidInputError("config is required")
	}
	if cfg.Endpoint == "" {
		return newInvalidInputError("endpoint is required")
	}
	if cfg.AccessKey == "" {
		return newInvalidInputError("access key is required")
	}
	if cfg.SecretKey == "" {
		return newInvalidInputError("secret key is required")
	}
	if cfg.Bucket == "" {
		return newInvalidInputError("bucket is required")
	}
	return nil
}

func validateUploadRequest(req *UploadRequest) error {
	if req == nil {
		return newInvalidInputError("request is required")
	}
	if err := validateBucketName(req.BucketName); err != nil {
		return err
	}
	if req.ObjectName == "" {
		return newInvalidInputError("object name is required")
	}
	if strings.HasPrefix(req.ObjectName, "/") || strings.HasSuffix(req.ObjectName, "/") {
		return newInvalidInputError("object name cannot start or end with '/'")
	}
	if req.Reader == nil {
		return newInvalidInputError("reader is required")
	}
	if req.Size <= 0 {
		return newInvalidInputError("size must be positive")
	}
	if req.Size > MaxObjectSizeBytes {
		return newInvalidInputError("object is too large")
	}
	if req.ContentType == "" {
		return newInvalidInputError("content type is required")
	}
	return nil
}

func validatePresignedURLRequest(req *PresignedURLRequest) error {
	if req == nil {
		return newInvalidInputError("request is required")
	}
	if err := validateBucketName(req.BucketName); err != nil {
		return err
	}
	if req.ObjectName == "" {
		return newInvalidInputError("object name is required")
	}
	if req.Expiry <= 0 {
		return newInvalidInputError("expiry must be positive")
	}
	if req.Expiry > MaxPresignedExpiry {
		return newInvalidInputError("expiry cannot exceed 7 days")
	}
	return nil
}

func validateBucketName(name string) error {
	if name == "" {
		return newInvalidInputError("bucket name is required")
	}
	if len(name) < 3 || len(name) > 63 {
		return newInvalidInputError("bucket name must be between 3 and 63 characters")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '.') {
			return newInvalidInputError("bucket name may only contain lowercase letters, digits, '-' and '.'")
		}
	}
	return nil
}
