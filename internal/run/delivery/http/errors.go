package http

import (
	"errors"

	"campaignqa-srv/internal/run"
	pkgErrors "campaignqa-srv/pkg/errors"
)

var (
	errWrongBody        = pkgErrors.NewHTTPError(400, "Wrong body")
	errWrongQuery       = pkgErrors.NewHTTPError(400, "Wrong query")
	errUserIDRequired   = pkgErrors.NewHTTPError(400, "user_id is required")
	errRunNotFound      = pkgErrors.NewHTTPError(404, "Run not found")
	errRunNotCompleted  = pkgErrors.NewHTTPError(409, "Run is not completed yet")
	errRunNameRequired  = pkgErrors.NewHTTPError(400, "run_name is required")
	errRunNameTooLong   = pkgErrors.NewHTTPError(400, "run_name must be at most 200 characters")
	errNoURLs           = pkgErrors.NewHTTPError(400, "At least one URL is required")
	errTooManyURLs      = pkgErrors.NewHTTPError(400, "At most 50 URLs per run")
	errInvalidPlatform  = pkgErrors.NewHTTPError(400, "Invalid platform")
	errInvalidInput     = pkgErrors.NewHTTPError(400, "Invalid input_method")
	errInvalidSnapshot  = pkgErrors.NewHTTPError(422, "Run input cannot be replayed")
	errArchiveDisabled  = pkgErrors.NewHTTPError(503, "Report archive is not available")
	errShareTokenFailed = pkgErrors.NewHTTPError(500, "Failed to generate share token")
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, run.ErrRunNotFound):
		return errRunNotFound
	case errors.Is(err, run.ErrRunNotCompleted):
		return errRunNotCompleted
	case errors.Is(err, run.ErrRunNameRequired):
		return errRunNameRequired
	case errors.Is(err, run.ErrRunNameTooLong):
		return errRunNameTooLong
	case errors.Is(err, run.ErrNoURLs):
		return errNoURLs
	case errors.Is(err, run.ErrTooManyURLs):
		return errTooManyURLs
	case errors.Is(err, run.ErrInvalidPlatform):
		return errInvalidPlatform
	case errors.Is(err, run.ErrInvalidInput):
		return errInvalidInput
	case errors.Is(err, run.ErrInvalidSnapshot):
		return errInvalidSnapshot
	case errors.Is(err, run.ErrArchiveDisabled):
		return errArchiveDisabled
	case errors.Is(err, run.ErrShareTokenFailed):
		return errShareTokenFailed
	default:
		return err
	}
}
