package response

import "time"

const (
	DateTimeFormat = time.RFC3339

	messageSuccess       = "Success"
	messageInternalError = "Something went wrong"
)
