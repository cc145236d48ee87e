package check

import (
	"context"

	"campaignqa-srv/internal/model"
)

// Check is one unit of validation logic.
//
// Execute must only fill Status, Message, Recommendation, AffectedItems and Metadata;
// identity fields and timing are set by Run. A check that finds no applicable input
// returns skipped. Tier 2 checks must honour ctx.
//
//go:generate mockery --name Check
type Check interface {
	Definition() Definition
	Execute(ctx context.Context, rc *RunContext) model.CheckResult
}
