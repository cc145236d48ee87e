package http

import (
	"context"
	"net/http"
)

// IClient is a JSON-oriented HTTP client with bounded retries on transport errors and 5xx.
// Implementations are safe for concurrent use.
type IClient interface {
	Get(ctx context.Context, url string, headers map[string]string) ([]byte, int, error)
	Post(ctx context.Context, url string, body any, headers map[string]string) ([]byte, int, error)
}

// NewClient creates a new HTTP client. Returns the interface.
func NewClient(cfg ClientConfig) IClient {
	return &clientImpl{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}
