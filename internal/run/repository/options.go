package repository

import (
	"time"

	"campaignqa-srv/internal/model"
)

type CreateRunOptions struct {
	Run  model.Run
	URLs []model.CampaignURL
}

type GetRunOptions struct {
	ID string
	// UserID scopes the lookup to one owner when set.
	UserID string
}

type ListRunsOptions struct {
	UserID string
	Limit  int
	Offset int
}

type UpdateProgressOptions struct {
	RunID         string
	ProgressPct   int
	TotalChecks   int
	PassedChecks  int
	FailedChecks  int
	WarningChecks int
}

type FinalizeRunOptions struct {
	RunID          string
	TotalChecks    int
	PassedChecks   int
	FailedChecks   int
	WarningChecks  int
	ReadinessScore float64
	CompletedAt    time.Time
}

type FailRunOptions struct {
	RunID        string
	ErrorMessage string
	FailedAt     time.Time
}

type FailStaleRunsOptions struct {
	Before       time.Time
	ErrorMessage string
	FailedAt     time.Time
}

type UpdateShareOptions struct {
	RunID      string
	UserID     string
	IsPublic   bool
	ShareToken string
}

type BenchmarkOptions struct {
	// Platform filters runs when set to anything but universal.
	Platform         model.Platform
	IndustryVertical string
	MinOwners        int
}
