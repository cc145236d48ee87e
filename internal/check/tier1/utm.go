package tier1

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var validUTMSources = map[model.Platform][]string{
	model.PlatformMeta:     {"facebook", "fb", "instagram", "meta"},
	model.PlatformGoogle:   {"google", "cpc", "ppc"},
	model.PlatformTikTok:   {"tiktok", "tiktok_ads"},
	model.PlatformLinkedIn: {"linkedin"},
}

type utmPresentCheck struct {
	param          string
	id             string
	name           string
	recommendation string
}

func (c utmPresentCheck) Definition() check.Definition {
	return check.Definition{ID: c.id, Name: c.name, Category: model.CategoryUTM, Platforms: universal,
		Severity: model.SeverityCritical, Tier: check.TierSync}
}

func (c utmPresentCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var missing []string
	for _, u := range rc.URLs {
		if _, ok := u.Param(c.param); !ok {
			missing = append(missing, u.RawURL)
		}
	}
	if len(missing) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("%s present in all %d URL(s)", c.param, len(rc.URLs)))
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("%s missing from %d of %d URL(s)", c.param, len(missing), len(rc.URLs)))
	r.Recommendation = c.recommendation
	r.AffectedItems = missing
	return r
}

// utmParams yields the utm_ parameters of u in key order so messages are stable.
func utmParams(u model.CampaignURL) [][2]string {
	keys := make([]string, 0, len(u.Parsed.Params))
	for k := range u.Parsed.Params {
		if strings.HasPrefix(k, "utm_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([][2]string, len(keys))
	for i, k := range keys {
		out[i] = [2]string{k, u.Parsed.Params[k]}
	}
	return out
}

type utmNoSpacesCheck struct{}

func (utmNoSpacesCheck) Definition() check.Definition {
	return check.Definition{ID: "utm_no_spaces", Name: "UTM Parameters Free of Spaces", Category: model.CategoryUTM,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (utmNoSpacesCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var bad []string
	for _, u := range rc.URLs {
		for _, kv := range utmParams(u) {
			if strings.Contains(kv[1], " ") {
				bad = append(bad, fmt.Sprintf("%s (%s='%s')", u.RawURL, kv[0], kv[1]))
			}
		}
	}
	if len(bad) == 0 {
		return check.Result(model.CheckStatusPassed, "No spaces found in UTM parameter values")
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("Spaces found in UTM values on %d URL(s), this will break analytics reporting", len(bad)))
	r.Recommendation = "Replace spaces with underscores or hyphens in UTM values (e.g., my_campaign not my campaign)"
	r.AffectedItems = bad
	return r
}

type utmCaseCheck struct{}

func (utmCaseCheck) Definition() check.Definition {
	return check.Definition{ID: "utm_case_consistency", Name: "UTM Parameter Case Consistency",
		Category: model.CategoryUTM, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (utmCaseCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var mixed []string
	for _, u := range rc.URLs {
		for _, kv := range utmParams(u) {
			if kv[1] != strings.ToLower(kv[1]) {
				mixed = append(mixed, fmt.Sprintf("%s (%s='%s')", u.RawURL, kv[0], kv[1]))
			}
		}
	}
	if len(mixed) == 0 {
		return check.Result(model.CheckStatusPassed, "All UTM values are lowercase and consistent")
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("Mixed-case UTM values found on %d URL(s), may cause duplicate entries in GA4", len(mixed)))
	r.Recommendation = "Standardize all UTM values to lowercase to prevent duplicate campaign rows in GA4"
	r.AffectedItems = mixed
	return r
}

type utmSourcePlatformCheck struct{}

func (utmSourcePlatformCheck) Definition() check.Definition {
	return check.Definition{ID: "utm_source_matches_platform", Name: "UTM Source Matches Selected Platform",
		Category: model.CategoryUTM, Platforms: paid, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (utmSourcePlatformCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	expected := validUTMSources[rc.Platform]
	if len(expected) == 0 {
		return check.Result(model.CheckStatusSkipped, "Platform-specific UTM source check not applicable")
	}

	var mismatched []string
	for _, u := range rc.URLs {
		source := strings.ToLower(u.Parsed.UTM.Source)
		if source != "" && !contains(expected, source) {
			mismatched = append(mismatched,
				fmt.Sprintf("%s (found: utm_source='%s', expected one of: %s)", u.RawURL, source, strings.Join(expected, ", ")))
		}
	}
	if len(mismatched) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("utm_source values match expected values for %s", rc.Platform))
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("utm_source value may not match platform on %d URL(s)", len(mismatched)))
	r.Recommendation = fmt.Sprintf("For %s campaigns, utm_source should be one of: %s", rc.Platform, strings.Join(expected, ", "))
	r.AffectedItems = mismatched
	return r
}

type duplicateParamsCheck struct{}

func (duplicateParamsCheck) Definition() check.Definition {
	return check.Definition{ID: "utm_no_duplicate_params", Name: "No Duplicate URL Parameters",
		Category: model.CategoryUTM, Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (duplicateParamsCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var bad []string
	for _, u := range rc.URLs {
		values, _ := url.ParseQuery(u.Parsed.RawQuery)
		var dupes []string
		for k, v := range values {
			if len(v) > 1 {
				dupes = append(dupes, k)
			}
		}
		if len(dupes) > 0 {
			sort.Strings(dupes)
			bad = append(bad, fmt.Sprintf("%s (duplicate params: %s)", u.RawURL, strings.Join(dupes, ", ")))
		}
	}
	if len(bad) == 0 {
		return check.Result(model.CheckStatusPassed, "No duplicate URL parameters found")
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("Duplicate query parameters found in %d URL(s), GA4 will report unpredictably", len(bad)))
	r.Recommendation = "Remove duplicate parameters from destination URLs"
	r.AffectedItems = bad
	return r
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
