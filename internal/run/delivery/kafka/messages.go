package kafka

import (
	"time"
)

// SubmitURLMessage is one URL of a programmatic submission.
type SubmitURLMessage struct {
	URL          string `json:"url"`
	AdName       string `json:"ad_name,omitempty"`
	AdSetName    string `json:"ad_set_name,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
}

// SubmitRunMessage - Kafka message for campaignqa.run.submit
type SubmitRunMessage struct {
	UserID            string             `json:"user_id"`
	RunName           string             `json:"run_name"`
	Platform          string             `json:"platform"`
	URLs              []SubmitURLMessage `json:"urls"`
	CampaignName      string             `json:"campaign_name,omitempty"`
	CampaignObjective string             `json:"campaign_objective,omitempty"`
	IndustryVertical  string             `json:"industry_vertical,omitempty"`
	Headline          string             `json:"headline,omitempty"`
	PrimaryText       string             `json:"primary_text,omitempty"`
	Description       string             `json:"description,omitempty"`
	Extra             map[string]string  `json:"extra,omitempty"`
}

// RunEventMessage - Kafka message for campaignqa.run.progress and campaignqa.run.completed
type RunEventMessage struct {
	EventType      string    `json:"event_type"`
	RunID          string    `json:"run_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	ProgressPct    int       `json:"progress_pct"`
	TotalChecks    int       `json:"total_checks"`
	PassedChecks   int       `json:"passed_checks"`
	FailedChecks   int       `json:"failed_checks"`
	WarningChecks  int       `json:"warning_checks"`
	ReadinessScore *float64  `json:"readiness_score,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CheckID        string    `json:"check_id,omitempty"`
	CheckStatus    string    `json:"check_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
