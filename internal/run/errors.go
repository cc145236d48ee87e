package run

import "errors"

// Domain errors
var (
	ErrRunNotFound      = errors.New("run: run not found")
	ErrRunNotCompleted  = errors.New("run: run is not completed")
	ErrRunNameRequired  = errors.New("run: run_name is required")
	ErrRunNameTooLong   = errors.New("run: run_name too long")
	ErrNoURLs           = errors.New("run: at least one URL is required")
	ErrTooManyURLs      = errors.New("run: too many URLs")
	ErrInvalidPlatform  = errors.New("run: invalid platform")
	ErrInvalidInput     = errors.New("run: invalid input method")
	ErrInvalidSnapshot  = errors.New("run: raw input snapshot cannot be replayed")
	ErrArchiveDisabled  = errors.New("run: report archive is not configured")
	ErrShareTokenFailed = errors.New("run: failed to generate share token")
)
