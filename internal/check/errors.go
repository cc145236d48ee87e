package check

import "errors"

var (
	ErrDuplicateCheck = errors.New("duplicate check id")
	ErrInvalidCheck   = errors.New("invalid check definition")
)
