package http

import "time"

const (
	DefaultTimeout   = 15 * time.Second
	DefaultRetries   = 2
	DefaultRetryWait = 500 * time.Millisecond

	maxBodyBytes = 4 << 20
)

// DefaultConfig returns default ClientConfig.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:   DefaultTimeout,
		Retries:   DefaultRetries,
		RetryWait: DefaultRetryWait,
	}
}
