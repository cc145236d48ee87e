package tier2

import (
	"context"
	"fmt"
	"math"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

// Thresholds cover time to first byte plus the HTML download, not a full render.
const (
	loadWarnAfter = 2 * time.Second
	loadFailAfter = 4 * time.Second
)

func reached(p page) bool {
	return p.err == nil
}

func avgSeconds(pages []page) float64 {
	var total time.Duration
	for _, p := range pages {
		total += p.resp.Elapsed
	}
	return total.Seconds() / float64(len(pages))
}

type loadTimeCheck struct{ Deps }

func (loadTimeCheck) Definition() check.Definition {
	return check.Definition{ID: "page_load_time", Name: "Page Load Time", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c loadTimeCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byURL, false, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTP/HTTPS URLs to measure")
	}
	timed, failed := split(fetchPages(ctx, c.Fetcher, urls), reached)
	if len(timed) == 0 {
		return check.Result(model.CheckStatusError, fmt.Sprintf("Could not measure page load time: %v", failed[0].err))
	}

	var slow, slowish []page
	for _, p := range timed {
		switch {
		case p.resp.Elapsed >= loadFailAfter:
			slow = append(slow, p)
		case p.resp.Elapsed >= loadWarnAfter:
			slowish = append(slowish, p)
		}
	}
	items := func(ps []page) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = fmt.Sprintf("%s: %.2fs", p.url, p.resp.Elapsed.Seconds())
		}
		return out
	}

	if len(slow) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d URL(s) took %.1fs avg to load, pages this slow lose 7%%+ conversions per second of delay",
				len(slow), avgSeconds(slow)))
		r.Recommendation = "Optimize server response time (TTFB <200ms), enable gzip/Brotli compression, " +
			"use a CDN, and reduce HTML payload. Run Google PageSpeed Insights for a full audit."
		r.AffectedItems = items(slow)
		return r
	}
	if len(slowish) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d URL(s) took %.1fs avg, approaching slow threshold (>4s = critical)", len(slowish), avgSeconds(slowish)))
		r.Recommendation = "Investigate server response time and HTML size. Target <2s for paid media landing pages."
		r.AffectedItems = items(slowish)
		return r
	}

	timings := make([]map[string]any, len(timed))
	for i, p := range timed {
		timings[i] = map[string]any{"url": p.url, "elapsed_s": math.Round(p.resp.Elapsed.Seconds()*1000) / 1000}
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("All %d URL(s) loaded in %.2fs avg (threshold: %.1fs)", len(timed), avgSeconds(timed), loadWarnAfter.Seconds()))
	r.Metadata = map[string]any{"timings": timings}
	return r
}

type mobileReadinessCheck struct{ Deps }

func (mobileReadinessCheck) Definition() check.Definition {
	return check.Definition{ID: "mobile_readiness", Name: "Mobile Readiness", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c mobileReadinessCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	urls := targets(rc, byURL, false, c.MaxURLs)
	if len(urls) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTP/HTTPS URLs to check for mobile readiness")
	}
	reachable, _ := split(fetchPages(ctx, c.Fetcher, urls), reached)
	if len(reachable) == 0 {
		return check.Result(model.CheckStatusError, "Could not fetch any landing pages for mobile readiness check")
	}

	var missing []string
	for _, p := range reachable {
		if !p.doc.hasViewport() {
			missing = append(missing, p.url)
		}
	}
	if len(missing) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d URL(s) missing viewport meta tag, pages will render as desktop on mobile devices", len(missing)))
		r.Recommendation = "Add <meta name='viewport' content='width=device-width, initial-scale=1'> in the <head>. " +
			"This is required for mobile-responsive rendering."
		r.AffectedItems = missing
		return r
	}
	return check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Viewport meta tag found on all %d checked page(s), mobile rendering enabled", len(reachable)))
}
