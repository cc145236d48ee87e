package tier2

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var (
	badTitleRe = regexp.MustCompile(`(?i)^(404|403|error|not found|access denied|page not found|coming soon|` +
		`untitled|blank|home|index|test|placeholder|lorem ipsum|\s*)$`)

	cookieConsentSignals = []string{
		"cookie", "gdpr", "consent", "cookiebot", "onetrust", "cookieyes",
		"usercentrics", "complianz", "didomi", "cookieinformation", "trustarc",
	}
)

type canonicalCheck struct{ Deps }

func (canonicalCheck) Definition() check.Definition {
	return check.Definition{ID: "canonical_tag", Name: "Canonical Tag Present", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c canonicalCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byHost, false, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTP/HTTPS URLs to check for canonical tags")
	}
	loaded, _ := splitFetched(fetchPages(ctx, c.Fetcher, urls))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusError, "Could not fetch landing pages for canonical tag check")
	}

	var missing []string
	for _, p := range loaded {
		if !p.doc.hasCanonical() {
			missing = append(missing, p.url)
		}
	}
	if len(missing) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d landing page(s) missing <link rel='canonical'>, UTM URLs may be indexed by search engines", len(missing)))
		r.Recommendation = "Add <link rel='canonical' href='https://yoursite.com/landing-page'> in <head> " +
			"to tell search engines which URL is canonical. This prevents UTM-parameterised URLs " +
			"from being indexed and diluting page authority."
		r.AffectedItems = missing
		return r
	}
	return check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Canonical tag found on all %d checked landing page(s)", len(loaded)))
}

type cookieConsentCheck struct{ Deps }

func (cookieConsentCheck) Definition() check.Definition {
	return check.Definition{ID: "cookie_consent", Name: "Cookie Consent / GDPR Signal", Category: model.CategoryTracking,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c cookieConsentCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byHost, false, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTP/HTTPS URLs to check for cookie consent")
	}
	loaded, _ := splitFetched(fetchPages(ctx, c.Fetcher, urls))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusError, "Could not fetch landing pages for cookie consent check")
	}

	var missing, found []string
	for _, p := range loaded {
		lower := strings.ToLower(p.doc.raw)
		signal := ""
		for _, s := range cookieConsentSignals {
			if strings.Contains(lower, s) {
				signal = s
				break
			}
		}
		if signal == "" {
			missing = append(missing, p.url)
		} else {
			found = append(found, fmt.Sprintf("%s (%s)", p.url, signal))
		}
	}
	if len(missing) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d landing page(s) show no cookie consent signals, may violate GDPR for EU ad audiences", len(missing)))
		r.Recommendation = "Install a consent management platform (CookieYes, CookieBot, OneTrust, or similar) " +
			"on all landing pages. This is legally required for EU audiences and enforced by Meta/Google " +
			"for conversion tracking."
		r.AffectedItems = missing
		return r
	}
	r := check.Result(model.CheckStatusPassed, fmt.Sprintf("Cookie consent signals detected on %d landing page(s)", len(found)))
	r.Metadata = map[string]any{"detected": found}
	return r
}

type titleCheck struct{ Deps }

func (titleCheck) Definition() check.Definition {
	return check.Definition{ID: "landing_page_title", Name: "Landing Page Title", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c titleCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byHost, false, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTP/HTTPS URLs to check for page title")
	}
	loaded, _ := splitFetched(fetchPages(ctx, c.Fetcher, urls))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusError, "Could not fetch landing pages to check titles")
	}

	var broken, titles []string
	for _, p := range loaded {
		title := p.doc.title
		titles = append(titles, fmt.Sprintf("%s -> '%s'", p.url, title))
		if title == "" {
			broken = append(broken, fmt.Sprintf("%s (title: 'empty')", p.url))
		} else if badTitleRe.MatchString(title) {
			broken = append(broken, fmt.Sprintf("%s (title: '%s')", p.url, title))
		}
	}
	if len(broken) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d landing page(s) have a missing, blank, or error-indicating title tag, "+
				"likely sending ad traffic to a broken page", len(broken)))
		r.Recommendation = "Fix the landing page title to reflect the page content. " +
			"A 404/error title means your ad destination is broken, pause the campaign immediately."
		r.AffectedItems = broken
		return r
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Landing page title tags present and non-generic on all %d checked page(s)", len(loaded)))
	r.Metadata = map[string]any{"titles": titles}
	return r
}
