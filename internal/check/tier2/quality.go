package tier2

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

type noindexCheck struct{ Deps }

func (noindexCheck) Definition() check.Definition {
	return check.Definition{ID: "landing_page_not_noindex", Name: "Landing Page Not Blocked from Search Engines",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c noindexCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byHost, false, c.MaxURLs)))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not fetch landing pages to check robots meta")
	}

	var noindexed []string
	for _, p := range loaded {
		if p.doc.noindex() {
			noindexed = append(noindexed, p.url)
		}
	}
	if len(noindexed) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d landing page(s) have robots noindex, ad platforms may penalize or reject", len(noindexed)))
		r.Recommendation = "Remove 'noindex' from the robots meta tag on your landing pages. " +
			"Ad quality scores are affected by crawlability."
		r.AffectedItems = noindexed
		return r
	}
	return check.Result(model.CheckStatusPassed,
		fmt.Sprintf("No noindex robots meta tag found on %d landing page(s)", len(loaded)))
}

type viewportCheck struct{ Deps }

func (viewportCheck) Definition() check.Definition {
	return check.Definition{ID: "landing_page_viewport_meta", Name: "Mobile Viewport Meta Tag Present",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c viewportCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byHost, false, c.MaxURLs)))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not fetch landing pages to check viewport meta")
	}

	var missing []string
	for _, p := range loaded {
		if !p.doc.hasViewport() {
			missing = append(missing, p.url)
		}
	}
	if len(missing) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d landing page(s) missing <meta name=\"viewport\">, poor mobile experience will hurt ad Quality Score",
				len(missing)))
		r.Recommendation = `Add <meta name="viewport" content="width=device-width, initial-scale=1"> to all landing page <head> sections.`
		r.AffectedItems = missing
		return r
	}
	return check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Mobile viewport meta tag present on all %d landing page(s)", len(loaded)))
}

var ogProperties = []string{"og:title", "og:image", "og:description"}

type ogTagsCheck struct{ Deps }

func (ogTagsCheck) Definition() check.Definition {
	return check.Definition{ID: "og_tags_present", Name: "Open Graph / Social Preview Tags Present",
		Category: model.CategoryTracking, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c ogTagsCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byHost, false, c.MaxURLs)))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not fetch landing pages to check OG tags")
	}

	var affected []string
	for _, p := range loaded {
		var missing []string
		for _, prop := range ogProperties {
			if p.doc.ogContent(prop) == "" {
				missing = append(missing, prop)
			}
		}
		if len(missing) > 0 {
			affected = append(affected, fmt.Sprintf("%s: missing %s", p.url, strings.Join(missing, ", ")))
		}
	}
	if len(affected) == 0 {
		return check.Result(model.CheckStatusPassed,
			fmt.Sprintf("og:title, og:image, og:description present on all %d checked landing page(s)", len(loaded)))
	}
	sort.Strings(affected)
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("Missing OG tags on %d landing page(s), social previews may appear broken when shared", len(affected)))
	r.Recommendation = "Add og:title, og:image (min 1200x630px), and og:description to all landing pages. " +
		"These control how your ad's destination looks when shared on social platforms."
	r.AffectedItems = affected
	return r
}
