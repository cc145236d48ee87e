package tier1

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var (
	spacesRe      = regexp.MustCompile(`\s`)
	validNameRe   = regexp.MustCompile(`^[A-Za-z0-9_\-|.]+$`)
	invalidCharRe = regexp.MustCompile(`[^A-Za-z0-9_\-|.\s]`)
	dateLikeRe    = regexp.MustCompile(`(?i)(20\d{2}|Q[1-4]_?20\d{2}|\d{2}[A-Za-z]{3}\d{4})`)
)

// nameIssues lists the naming convention violations of one name.
func nameIssues(name string) []string {
	var issues []string
	if spacesRe.MatchString(name) {
		issues = append(issues, "contains spaces (use underscores or hyphens)")
	}
	if !validNameRe.MatchString(name) {
		set := map[string]struct{}{}
		for _, m := range invalidCharRe.FindAllString(name, -1) {
			set[m] = struct{}{}
		}
		if len(set) > 0 {
			chars := make([]string, 0, len(set))
			for c := range set {
				chars = append(chars, c)
			}
			sort.Strings(chars)
			issues = append(issues, "contains special characters: "+strings.Join(chars, ", "))
		}
	}
	if !strings.ContainsAny(name, "_-") {
		issues = append(issues, "has no separators, use underscores or hyphens between segments")
	}
	n := runeLen(name)
	if n < 5 {
		issues = append(issues, "is too short to be descriptive")
	}
	if n > 200 {
		issues = append(issues, "exceeds 200 characters")
	}
	return issues
}

type campaignNamingCheck struct{}

func (campaignNamingCheck) Definition() check.Definition {
	return check.Definition{ID: "campaign_naming_convention", Name: "Campaign Naming Convention",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (campaignNamingCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	name := rc.CampaignName
	if name == "" {
		return check.Result(model.CheckStatusSkipped, "No campaign name provided, skipping naming convention check")
	}

	issues := nameIssues(name)
	if len(issues) > 0 {
		r := check.Result(model.CheckStatusFailed, fmt.Sprintf("Campaign name '%s' violates naming conventions", name))
		r.Recommendation = "Use a structured naming convention with no spaces, e.g. meta_conversion_lookalike_spring_Q2_2025"
		r.AffectedItems = make([]string, len(issues))
		for i, v := range issues {
			r.AffectedItems[i] = "Campaign name: " + v
		}
		return r
	}
	if !dateLikeRe.MatchString(name) {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("Campaign name '%s' has valid format but no date/quarter identifier", name))
		r.Recommendation = "Include a date or quarter in your campaign name (e.g. Q2_2025 or 20250601) to make historical reporting easier"
		return r
	}
	return check.Result(model.CheckStatusPassed, fmt.Sprintf("Campaign name '%s' follows naming conventions", name))
}

type adNamingCheck struct{}

func (adNamingCheck) Definition() check.Definition {
	return check.Definition{ID: "ad_naming_convention", Name: "Ad & Ad Set Naming Convention",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (adNamingCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var violations []string
	provided := false
	for _, u := range rc.URLs {
		for _, f := range [][2]string{{"ad_name", u.AdName}, {"ad_set_name", u.AdSetName}} {
			if f[1] == "" {
				continue
			}
			provided = true
			for _, issue := range nameIssues(f[1]) {
				violations = append(violations, fmt.Sprintf("%s '%s' %s", f[0], f[1], issue))
			}
		}
	}
	if !provided {
		return check.Result(model.CheckStatusSkipped, "No ad names provided, skipping ad naming check")
	}
	if len(violations) == 0 {
		return check.Result(model.CheckStatusPassed, "All ad and ad set names follow naming conventions")
	}
	r := check.Result(model.CheckStatusFailed, fmt.Sprintf("%d naming issue(s) found in ad or ad set names", len(violations)))
	r.Recommendation = "Use structured names with underscores/hyphens, no spaces, and include creative or audience identifiers"
	r.AffectedItems = violations
	return r
}
