package tier2

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var requiredHeaders = []struct {
	header string
	label  string
}{
	{"Strict-Transport-Security", "HSTS (forces HTTPS for return visitors)"},
	{"X-Content-Type-Options", "prevents MIME-type sniffing attacks"},
	{"X-Frame-Options", "prevents clickjacking via iframes"},
}

type securityHeadersCheck struct{ Deps }

func (securityHeadersCheck) Definition() check.Definition {
	return check.Definition{ID: "security_headers", Name: "HTTP Security Headers", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c securityHeadersCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byURL, true, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTPS URLs to check for security headers")
	}

	var checked, missingPerURL []string
	hstsMissing := false
	for _, u := range urls {
		resp, err := c.Fetcher.Fetch(ctx, http.MethodHead, u)
		if err != nil {
			if resp, err = c.Fetcher.Fetch(ctx, http.MethodGet, u); err != nil {
				continue
			}
		}
		checked = append(checked, u)

		var missing []string
		for _, h := range requiredHeaders {
			if resp.Header.Get(h.header) == "" {
				missing = append(missing, h.label)
				hstsMissing = hstsMissing || h.header == "Strict-Transport-Security"
			}
		}
		if len(missing) > 0 {
			missingPerURL = append(missingPerURL, fmt.Sprintf("%s: missing %s", u, strings.Join(missing, ", ")))
		}
	}

	if len(checked) == 0 {
		return check.Result(model.CheckStatusError, "Could not fetch headers from any landing page")
	}
	if len(missingPerURL) > 0 {
		msg := fmt.Sprintf("%d URL(s) missing security headers. ", len(missingPerURL))
		if hstsMissing {
			msg += "Missing HSTS means browsers may not enforce HTTPS on return visits. "
		}
		r := check.Result(model.CheckStatusWarning, msg+"Google's Landing Page Experience algorithm factors in page security.")
		r.Recommendation = "Add these headers to your web server or CDN configuration:\n" +
			"  Strict-Transport-Security: max-age=31536000; includeSubDomains\n" +
			"  X-Content-Type-Options: nosniff\n" +
			"  X-Frame-Options: SAMEORIGIN\n" +
			"Most CDNs (Cloudflare, Fastly, CloudFront) let you set these without code changes."
		r.AffectedItems = missingPerURL
		return r
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("All required security headers present on %d checked HTTPS page(s)", len(checked)))
	r.Metadata = map[string]any{"checked_urls": checked}
	return r
}
