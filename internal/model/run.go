package model

import (
	"encoding/json"
	"time"
)

// Run is one submitted batch of URLs evaluated once.
type Run struct {
	ID          string
	UserID      string
	Name        string
	Platform    Platform
	InputMethod InputMethod
	RawInput    json.RawMessage

	// Status
	Status       RunStatus
	ProgressPct  int
	ErrorMessage string

	// Summary, filled at finalization
	TotalChecks    int
	PassedChecks   int
	FailedChecks   int
	WarningChecks  int
	ReadinessScore *float64

	// Sharing
	ShareToken string
	IsPublic   bool

	// Classification
	IndustryVertical  string
	CampaignObjective string

	// Timestamps
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// UTMFields are the UTM parameters recognised by exact key.
type UTMFields struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Content  string `json:"utm_content,omitempty"`
	Term     string `json:"utm_term,omitempty"`
}

// ParsedURL is the structured form of a submitted URL.
type ParsedURL struct {
	Scheme   string            `json:"scheme"`
	Host     string            `json:"host"`
	Path     string            `json:"path"`
	RawQuery string            `json:"raw_query,omitempty"`
	Fragment string            `json:"fragment,omitempty"`
	Params   map[string]string `json:"params"`
	UTM      UTMFields         `json:"utm"`
}

// CampaignURL is one input URL of a run. Created at submission, never mutated.
type CampaignURL struct {
	RunID        string
	Position     int
	RawURL       string
	Parsed       ParsedURL
	ParseError   string
	AdName       string
	AdSetName    string
	CampaignName string
}

// Usable reports whether the URL parsed with a scheme and a host.
func (u CampaignURL) Usable() bool {
	return u.ParseError == "" && u.Parsed.Scheme != "" && u.Parsed.Host != ""
}

// Param returns a query parameter and whether it was present.
func (u CampaignURL) Param(key string) (string, bool) {
	v, ok := u.Parsed.Params[key]
	return v, ok
}

// CheckResult is the outcome of one check for one run. Insert-only, unique on (RunID, CheckID).
type CheckResult struct {
	RunID          string         `json:"run_id"`
	CheckID        string         `json:"check_id"`
	CheckName      string         `json:"check_name"`
	Category       Category       `json:"check_category"`
	Platform       string         `json:"platform"`
	Status         CheckStatus    `json:"status"`
	Severity       Severity       `json:"severity"`
	Message        string         `json:"message"`
	Recommendation string         `json:"recommendation,omitempty"`
	AffectedItems  []string       `json:"affected_items"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ExecutionMS    int64          `json:"execution_ms"`
	CreatedAt      time.Time      `json:"created_at"`
}
