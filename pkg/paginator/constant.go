package paginator

const (
	DefaultPage = 1
	// DefaultLimit matches the run history page shown by default.
	DefaultLimit = 50
	MaxLimit     = 100
)
