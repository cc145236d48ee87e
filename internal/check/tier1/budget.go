package tier1

import (
	"context"
	"fmt"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

// Minimum daily budgets in USD.
var platformMinimums = map[model.Platform]float64{
	model.PlatformMeta:     1.00,
	model.PlatformGoogle:   1.00,
	model.PlatformTikTok:   20.00,
	model.PlatformLinkedIn: 10.00,
}

type budgetMinimumCheck struct{}

func (budgetMinimumCheck) Definition() check.Definition {
	return check.Definition{ID: "budget_above_platform_minimum", Name: "Daily Budget Above Platform Minimum",
		Category: model.CategoryBudget, Platforms: paid, Severity: model.SeverityCritical, Tier: check.TierSync}
}

func (budgetMinimumCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	raw, ok := rc.Extra["daily_budget"]
	if !ok {
		r := check.Result(model.CheckStatusWarning, "Daily budget not provided, cannot validate minimum")
		r.Recommendation = "Provide daily_budget to enable this check"
		return r
	}
	budget, err := parseAmount(raw)
	if err != nil {
		r := check.Result(model.CheckStatusFailed, fmt.Sprintf("Daily budget value '%s' is not a valid number", raw))
		r.Recommendation = "Enter a numeric daily budget value"
		return r
	}

	minimum, ok := platformMinimums[rc.Platform]
	if !ok {
		minimum = 1.00
	}
	if budget >= minimum {
		return check.Result(model.CheckStatusPassed,
			fmt.Sprintf("Daily budget $%.2f meets %s minimum of $%.2f", budget, rc.Platform, minimum))
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("Daily budget $%.2f is below %s minimum of $%.2f", budget, rc.Platform, minimum))
	r.Recommendation = fmt.Sprintf("Increase daily budget to at least $%.2f for %s campaigns", minimum, rc.Platform)
	r.Metadata = map[string]any{"budget": budget, "minimum": minimum}
	return r
}

type budgetNumericCheck struct{}

func (budgetNumericCheck) Definition() check.Definition {
	return check.Definition{ID: "budget_is_numeric", Name: "Budget Fields Are Numeric", Category: model.CategoryBudget,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (budgetNumericCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	budget := rc.Extra["daily_budget"]
	if budget == "" {
		budget = rc.Extra["lifetime_budget"]
	}
	if budget == "" {
		return check.Result(model.CheckStatusSkipped, "No budget fields provided")
	}
	if _, err := parseAmount(budget); err != nil {
		r := check.Result(model.CheckStatusFailed, fmt.Sprintf("Budget value '%s' is not numeric", budget))
		r.Recommendation = "Enter a plain numeric value for budget (e.g. 50 or 50.00)"
		return r
	}
	return check.Result(model.CheckStatusPassed, fmt.Sprintf("Budget value '%s' is a valid number", budget))
}
