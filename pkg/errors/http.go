package errors

import "net/http"

// HTTPError is an error that carries the HTTP status and the public error code.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError builds an HTTPError. Codes in the HTTP range double as the status code,
// anything else is reported as 400.
func NewHTTPError(code int, msg string) *HTTPError {
	status := http.StatusBadRequest
	if code >= 100 && code < 600 {
		status = code
	}
	return &HTTPError{Code: code, Message: msg, StatusCode: status}
}

// NewUnauthorizedHTTPError is returned when credentials are missing or invalid.
func NewUnauthorizedHTTPError() *HTTPError {
	return &HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized", StatusCode: http.StatusUnauthorized}
}

// NewForbiddenHTTPError is returned when the caller may not access the resource.
func NewForbiddenHTTPError() *HTTPError {
	return &HTTPError{Code: http.StatusForbidden, Message: "Forbidden", StatusCode: http.StatusForbidden}
}
