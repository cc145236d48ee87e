package minio

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateUploadRequest(t *testing.T) {
	valid := func() *UploadRequest {
		return &UploadRequest{
			BucketName:  "qa-reports",
			ObjectName:  "reports/run-1.md",
			Reader:      strings.NewReader("# report"),
			Size:        8,
			ContentType: "text/markdown",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *UploadRequest)
		wantErr bool
	}{
		{"valid", func(r *UploadRequest) {}, false},
		{"missing bucket", func(r *UploadRequest) { r.BucketName = "" }, true},
		{"uppercase bucket", func(r *UploadRequest) { r.BucketName = "QA" }, true},
		{"leading slash", func(r *UploadRequest) { r.ObjectName = "/reports/x.md" }, true},
		{"nil reader", func(r *UploadRequest) { r.Reader = nil }, true},
		{"zero size", func(r *UploadRequest) { r.Size = 0 }, true},
		{"too large", func(r *UploadRequest) { r.Size = MaxObjectSizeBytes + 1 }, true},
		{"missing content type", func(r *UploadRequest) { r.ContentType = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := validateUploadRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateUploadRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			var se *StorageError
			if err != nil && (!errors.As(err, &se) || se.Code != ErrCodeInvalidInput) {
				t.Errorf("error = %v, want StorageError %s", err, ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePresignedURLRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *PresignedURLRequest
		wantErr bool
	}{
		{"valid", &PresignedURLRequest{BucketName: "qa-reports", ObjectName: "a.md", Expiry: time.Minute}, false},
		{"nil", nil, true},
		{"no expiry", &PresignedURLRequest{BucketName: "qa-reports", ObjectName: "a.md"}, true},
		{"expiry too long", &PresignedURLRequest{BucketName: "qa-reports", ObjectName: "a.md", Expiry: 8 * 24 * time.Hour}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validatePresignedURLRequest(tt.req); (err != nil) != tt.wantErr {
				t.Errorf("validatePresignedURLRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHandleMinIOErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := handleMinIOError(cause, "upload_file")
	var se *StorageError
	if !errors.As(err, &se) || se.Code != ErrCodeConnection {
		t.Fatalf("handleMinIOError() = %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("handleMinIOError() should keep the cause")
	}
}
