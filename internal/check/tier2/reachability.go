package tier2

import (
	"context"
	"fmt"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

const (
	slowResponseMS  = 3000
	maxRedirectHops = 3
)

type reachableCheck struct{ Deps }

func (reachableCheck) Definition() check.Definition {
	return check.Definition{ID: "url_reachable", Name: "Destination URLs Are Reachable", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c reachableCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	results := probeAll(ctx, c.Fetcher, uniqueURLs(rc, c.MaxURLs))

	var unreachable, slow []string
	var total int64
	for _, r := range results {
		total += r.ElapsedMS
		if !r.OK {
			status := "timeout"
			if r.StatusCode != 0 {
				status = fmt.Sprint(r.StatusCode)
			}
			unreachable = append(unreachable, fmt.Sprintf("%s (status: %s)", r.URL, status))
			continue
		}
		if r.ElapsedMS > slowResponseMS {
			slow = append(slow, fmt.Sprintf("%s (%dms)", r.URL, r.ElapsedMS))
		}
	}

	if len(unreachable) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d of %d URL(s) are unreachable or returned an error", len(unreachable), len(results)))
		r.Recommendation = "Fix broken destination URLs before launching the campaign"
		r.AffectedItems = unreachable
		r.Metadata = map[string]any{"results": results}
		return r
	}
	if len(slow) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("All URLs reachable, but %d URL(s) responded slowly (>3s), may impact Quality Score", len(slow)))
		r.Recommendation = "Improve landing page load time for better ad Quality Score and conversion rates"
		r.AffectedItems = slow
		return r
	}
	r := check.Result(model.CheckStatusPassed, fmt.Sprintf("All %d URL(s) are reachable", len(results)))
	if len(results) > 0 {
		r.Metadata = map[string]any{"avg_ms": total / int64(len(results))}
	}
	return r
}

type redirectDepthCheck struct{ Deps }

func (redirectDepthCheck) Definition() check.Definition {
	return check.Definition{ID: "url_redirect_depth", Name: "URL Redirect Chain Depth", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c redirectDepthCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	var deep []string
	for _, r := range probeAll(ctx, c.Fetcher, uniqueURLs(rc, c.MaxURLs)) {
		if r.Redirects > maxRedirectHops {
			deep = append(deep, fmt.Sprintf("%s (%d redirects -> %s)", r.URL, r.Redirects, r.FinalURL))
		}
	}
	if len(deep) == 0 {
		return check.Result(model.CheckStatusPassed,
			fmt.Sprintf("All URL(s) have redirect chains of %d hops or fewer", maxRedirectHops))
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("%d URL(s) have redirect chains longer than %d hops, slows page load", len(deep), maxRedirectHops))
	r.Recommendation = "Shorten redirect chains to reduce latency. Each redirect adds 100-300ms load time."
	r.AffectedItems = deep
	return r
}

type utmRedirectCheck struct{ Deps }

func (utmRedirectCheck) Definition() check.Definition {
	return check.Definition{ID: "utm_preserved_through_redirect", Name: "UTM Parameters Preserved Through Redirects",
		Category: model.CategoryUTM, Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c utmRedirectCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	var tagged []model.CampaignURL
	for _, u := range uniqueURLs(rc, 0) {
		if _, ok := u.Param("utm_source"); ok && u.Usable() {
			tagged = append(tagged, u)
			if len(tagged) == c.MaxURLs {
				break
			}
		}
	}
	if len(tagged) == 0 {
		return check.Result(model.CheckStatusSkipped, "No UTM parameters to check for redirect preservation")
	}

	var stripped []string
	for _, r := range probeAll(ctx, c.Fetcher, tagged) {
		if r.OK && r.Redirects > 0 && !strings.Contains(r.FinalURL, "utm_") {
			stripped = append(stripped, fmt.Sprintf("%s -> %s (UTM stripped)", r.URL, r.FinalURL))
		}
	}
	if len(stripped) == 0 {
		return check.Result(model.CheckStatusPassed, "UTM parameters appear to be preserved through redirects")
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("UTM parameters stripped by redirect on %d URL(s), campaign attribution will be lost", len(stripped)))
	r.Recommendation = "Update redirect rules to pass through all query parameters, " +
		"or use canonical final URLs with UTM params appended directly"
	r.AffectedItems = stripped
	return r
}
