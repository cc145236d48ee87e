package model

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

// RunRow is the stored form of a Run. Both stores scan into it.
type RunRow struct {
	ID                string
	UserID            string
	Name              string
	Platform          string
	InputMethod       string
	RawInput          null.JSON
	Status            string
	ProgressPct       int
	ErrorMessage      null.String
	TotalChecks       int
	PassedChecks      int
	FailedChecks      int
	WarningChecks     int
	ReadinessScore    null.Float64
	ShareToken        null.String
	IsPublic          bool
	IndustryVertical  null.String
	CampaignObjective null.String
	CreatedAt         time.Time
	StartedAt         null.Time
	CompletedAt       null.Time
	UpdatedAt         time.Time
}

// NewRunFromRow converts a stored row to a Run.
func NewRunFromRow(row *RunRow) *Run {
	if row == nil {
		return nil
	}

	r := &Run{
		ID:                row.ID,
		UserID:            row.UserID,
		Name:              row.Name,
		Platform:          Platform(row.Platform),
		InputMethod:       InputMethod(row.InputMethod),
		Status:            RunStatus(row.Status),
		ProgressPct:       row.ProgressPct,
		ErrorMessage:      row.ErrorMessage.String,
		TotalChecks:       row.TotalChecks,
		PassedChecks:      row.PassedChecks,
		FailedChecks:      row.FailedChecks,
		WarningChecks:     row.WarningChecks,
		ShareToken:        row.ShareToken.String,
		IsPublic:          row.IsPublic,
		IndustryVertical:  row.IndustryVertical.String,
		CampaignObjective: row.CampaignObjective.String,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}

	if row.RawInput.Valid {
		r.RawInput = json.RawMessage(row.RawInput.JSON)
	}
	if row.ReadinessScore.Valid {
		score := row.ReadinessScore.Float64
		r.ReadinessScore = &score
	}
	if row.StartedAt.Valid {
		t := row.StartedAt.Time
		r.StartedAt = &t
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		r.CompletedAt = &t
	}

	return r
}

// ToRunRow converts a Run to its stored form.
func (r *Run) ToRunRow() *RunRow {
	row := &RunRow{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Platform:      string(r.Platform),
		InputMethod:   string(r.InputMethod),
		Status:        string(r.Status),
		ProgressPct:   r.ProgressPct,
		TotalChecks:   r.TotalChecks,
		PassedChecks:  r.PassedChecks,
		FailedChecks:  r.FailedChecks,
		WarningChecks: r.WarningChecks,
		IsPublic:      r.IsPublic,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	if len(r.RawInput) > 0 && string(r.RawInput) != "null" {
		row.RawInput = null.JSONFrom(r.RawInput)
	}
	if r.ErrorMessage != "" {
		row.ErrorMessage = null.StringFrom(r.ErrorMessage)
	}
	if r.ReadinessScore != nil {
		row.ReadinessScore = null.Float64From(*r.ReadinessScore)
	}
	if r.ShareToken != "" {
		row.ShareToken = null.StringFrom(r.ShareToken)
	}
	if r.IndustryVertical != "" {
		row.IndustryVertical = null.StringFrom(r.IndustryVertical)
	}
	if r.CampaignObjective != "" {
		row.CampaignObjective = null.StringFrom(r.CampaignObjective)
	}
	if r.StartedAt != nil {
		row.StartedAt = null.TimeFrom(*r.StartedAt)
	}
	if r.CompletedAt != nil {
		row.CompletedAt = null.TimeFrom(*r.CompletedAt)
	}

	return row
}
