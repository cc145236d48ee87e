package model

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

type CheckStatus string

const (
	CheckStatusPassed  CheckStatus = "passed"
	CheckStatusFailed  CheckStatus = "failed"
	CheckStatusWarning CheckStatus = "warning"
	CheckStatusSkipped CheckStatus = "skipped"
	CheckStatusError   CheckStatus = "error"
)

// Counted reports whether the status takes part in scoring.
func (s CheckStatus) Counted() bool {
	return s == CheckStatusPassed || s == CheckStatusFailed || s == CheckStatusWarning
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Weight is the score weight of a result with this severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 2
	default:
		return 1
	}
}

type Category string

const (
	CategoryUTM      Category = "utm"
	CategoryURL      Category = "url"
	CategoryCreative Category = "creative"
	CategoryBudget   Category = "budget"
	CategoryTracking Category = "tracking"
	CategoryAudience Category = "audience"
)

type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformGoogle    Platform = "google"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformMulti     Platform = "multi"
	PlatformUniversal Platform = "universal"
)

var validPlatforms = map[Platform]bool{
	PlatformMeta:      true,
	PlatformGoogle:    true,
	PlatformTikTok:    true,
	PlatformLinkedIn:  true,
	PlatformMulti:     true,
	PlatformUniversal: true,
}

func (p Platform) IsValid() bool {
	return validPlatforms[p]
}

type InputMethod string

const (
	InputMethodManual InputMethod = "manual"
	InputMethodCSV    InputMethod = "csv"
	InputMethodAPI    InputMethod = "api"
)
