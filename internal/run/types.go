package run

import (
	"time"

	"campaignqa-srv/internal/comparator"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/scorer"
	"campaignqa-srv/pkg/paginator"
)

const (
	MaxURLs          = 50
	MaxRunNameLength = 200
	ShareTokenBytes  = 12
	// BenchmarkMinOwners is the number of distinct owners a check needs before its pass rate is shown.
	BenchmarkMinOwners = 10
	BadgeLabel         = "Campaign QA"

	RecoveryMessage = "Interrupted by server restart, please resubmit"
)

// URLInput is one submitted URL with its optional ad labels.
type URLInput struct {
	URL          string `json:"url"`
	AdName       string `json:"ad_name,omitempty"`
	AdSetName    string `json:"ad_set_name,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
}

// SubmitInput is a run submission. It doubles as the raw input snapshot replayed by Rerun.
type SubmitInput struct {
	RunName           string            `json:"run_name"`
	Platform          model.Platform    `json:"platform"`
	InputMethod       model.InputMethod `json:"input_method,omitempty"`
	URLs              []URLInput        `json:"urls"`
	CampaignName      string            `json:"campaign_name,omitempty"`
	CampaignObjective string            `json:"campaign_objective,omitempty"`
	IndustryVertical  string            `json:"industry_vertical,omitempty"`
	Headline          string            `json:"headline,omitempty"`
	PrimaryText       string            `json:"primary_text,omitempty"`
	Description       string            `json:"description,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
}

type SubmitOutput struct {
	Run          model.Run
	Tier1Results []model.CheckResult
	Message      string
}

type GetRunInput struct {
	RunID string
}

type SharedInput struct {
	Token string
}

type StatusOutput struct {
	RunID          string
	Status         model.RunStatus
	ProgressPct    int
	TotalChecks    int
	PassedChecks   int
	FailedChecks   int
	WarningChecks  int
	ReadinessScore *float64
	ErrorMessage   string
	UpdatedAt      time.Time
}

type ReportOutput struct {
	Run      model.Run
	Summary  scorer.Summary
	Checks   []model.CheckResult
	URLs     []model.CampaignURL
	ShareURL string
}

type DownloadOutput struct {
	URL       string
	ExpiresAt time.Time
}

type ListInput struct {
	Paginate paginator.PaginateQuery
}

type ListOutput struct {
	Runs      []model.Run
	Paginator paginator.Paginator
}

type CompareInput struct {
	RunA string
	RunB string
}

type CompareOutput struct {
	RunA     model.Run
	RunB     model.Run
	SummaryA scorer.Summary
	SummaryB scorer.Summary
	Diffs    []comparator.Diff
	Counts   map[comparator.Change]int
}

type ShareInput struct {
	RunID    string
	IsPublic bool
}

type ShareOutput struct {
	RunID      string
	IsPublic   bool
	ShareToken string
	ShareURL   string
}

// Badge is a shields.io endpoint payload.
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

type BenchmarkInput struct {
	Platform         model.Platform
	IndustryVertical string
}

type BenchmarkOutput struct {
	Platform         model.Platform
	IndustryVertical string
	Checks           []model.BenchmarkStat
}

type RecoverOutput struct {
	RunIDs []string
}

type EventType string

const (
	EventProgress  EventType = "run.progress"
	EventCompleted EventType = "run.completed"
)

// Event is a run lifecycle notification, streamed to watchers and published to Kafka.
type Event struct {
	Type           EventType          `json:"type"`
	RunID          string             `json:"run_id"`
	UserID         string             `json:"user_id"`
	Status         model.RunStatus    `json:"status"`
	ProgressPct    int                `json:"progress_pct"`
	TotalChecks    int                `json:"total_checks"`
	PassedChecks   int                `json:"passed_checks"`
	FailedChecks   int                `json:"failed_checks"`
	WarningChecks  int                `json:"warning_checks"`
	ReadinessScore *float64           `json:"readiness_score,omitempty"`
	ErrorMessage   string             `json:"error_message,omitempty"`
	Result         *model.CheckResult `json:"result,omitempty"`
	At             time.Time          `json:"at"`
}

// Subscription delivers the events of one run until Close is called.
// The first event is the run's state at subscription time.
type Subscription struct {
	Events <-chan Event
	Close  func()
}
