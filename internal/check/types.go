package check

import (
	"strings"

	"campaignqa-srv/internal/model"
)

type Tier int

const (
	TierSync  Tier = 1
	TierAsync Tier = 2
)

// Definition is the static declaration of a check.
type Definition struct {
	ID        string           `json:"check_id"`
	Name      string           `json:"check_name"`
	Category  model.Category   `json:"category"`
	Platforms []model.Platform `json:"platforms"`
	Severity  model.Severity   `json:"severity"`
	Tier      Tier             `json:"tier"`
}

// AppliesTo reports whether the check runs for a run on platform p.
func (d Definition) AppliesTo(p model.Platform) bool {
	for _, dp := range d.Platforms {
		if dp == model.PlatformUniversal || dp == p {
			return true
		}
	}
	return false
}

// PlatformLabel is the comma-joined platform list stored on results.
func (d Definition) PlatformLabel() string {
	parts := make([]string, len(d.Platforms))
	for i, p := range d.Platforms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// RunContext is the read-only view of a run that checks consume.
type RunContext struct {
	RunID    string
	UserID   string
	Platform model.Platform
	URLs     []model.CampaignURL

	CampaignName      string
	CampaignObjective string
	IndustryVertical  string

	// Ad copy
	Headline    string
	PrimaryText string
	Description string

	// Extra carries pass-through metadata such as daily_budget.
	Extra map[string]string
}

// AdCopy joins the non-empty ad copy fields with a space.
func (rc *RunContext) AdCopy() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{rc.Headline, rc.PrimaryText, rc.Description} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Result starts a result with the given status and message.
func Result(status model.CheckStatus, message string) model.CheckResult {
	return model.CheckResult{
		Status:  status,
		Message: message,
	}
}
