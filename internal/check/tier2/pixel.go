package tier2

import (
	"context"
	"fmt"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

// Static HTML only. A pixel injected by GTM at runtime is invisible here, so GTM on the page
// downgrades a miss to a warning.
var pixelSignatures = map[model.Platform][]string{
	model.PlatformMeta: {
		"connect.facebook.net/en_US/fbevents.js",
		"connect.facebook.net/signals/config/",
		"fbq('init'",
		`fbq("init"`,
	},
	model.PlatformGoogle: {
		"googletagmanager.com/gtag/js",
		"gtag('config', 'G-",
		`gtag("config", "G-`,
		"google-analytics.com/analytics.js",
		"google-analytics.com/g/collect",
	},
	model.PlatformTikTok: {
		"analytics.tiktok.com/i18n/pixel",
		"ttq.load(",
		"tiktok-pixel",
	},
	model.PlatformLinkedIn: {
		"snap.licdn.com/li.lms-analytics",
		"_linkedin_partner_id",
		"linkedin_partner_id =",
	},
}

var conversionSignatures = map[model.Platform][]string{
	model.PlatformMeta:     {"fbq('track'", `fbq("track"`, "fbq('trackCustom'", `fbq("trackCustom"`},
	model.PlatformGoogle:   {"gtag('event'", `gtag("event"`, "ga('send', 'event'", `ga("send", "event"`},
	model.PlatformTikTok:   {"ttq.track("},
	model.PlatformLinkedIn: {"lintrk(", "_linkedin_data_partner_ids"},
}

var gtmSignatures = []string{"googletagmanager.com/gtm.js", "GTM-"}

var pixelLabels = map[model.Platform]string{
	model.PlatformMeta:     "Meta Pixel (fbevents.js)",
	model.PlatformGoogle:   "Google Analytics 4 / gtag.js",
	model.PlatformTikTok:   "TikTok Pixel",
	model.PlatformLinkedIn: "LinkedIn Insight Tag",
}

var conversionExamples = map[model.Platform]string{
	model.PlatformMeta:     "fbq('track', 'Lead') or fbq('track', 'Purchase')",
	model.PlatformGoogle:   "gtag('event', 'generate_lead') or gtag('event', 'purchase')",
	model.PlatformTikTok:   "ttq.track('CompletePayment') or ttq.track('SubmitForm')",
	model.PlatformLinkedIn: "lintrk('track', { conversion_id: ... })",
}

var conversionObjectives = map[string]bool{"conversion": true, "lead_gen": true, "retargeting": true, "app_install": true}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// scanPages sorts loaded pages into those matching signatures, those with only GTM, and those with neither.
func scanPages(pages []page, signatures []string) (gtmOnly, neither []string) {
	for _, p := range pages {
		switch {
		case containsAny(p.doc.raw, signatures):
		case containsAny(p.doc.raw, gtmSignatures):
			gtmOnly = append(gtmOnly, p.url)
		default:
			neither = append(neither, p.url)
		}
	}
	return gtmOnly, neither
}

type pixelPresentCheck struct{ Deps }

func (pixelPresentCheck) Definition() check.Definition {
	return check.Definition{ID: "pixel_platform_present", Name: "Platform Tracking Pixel Installed",
		Category: model.CategoryTracking, Platforms: paid, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c pixelPresentCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	signatures := pixelSignatures[rc.Platform]
	if len(signatures) == 0 {
		return check.Result(model.CheckStatusSkipped, "Pixel check not configured for this platform")
	}

	loaded, failed := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byURL, false, c.MaxURLs)))
	if len(loaded) == 0 {
		r := check.Result(model.CheckStatusError,
			"Could not fetch landing page(s) to check for pixel: "+strings.Join(urlsOf(failed), ", "))
		r.Recommendation = "Ensure destination URLs are publicly accessible"
		return r
	}

	note := ""
	if len(failed) > 0 {
		note = fmt.Sprintf(" (%d page(s) could not be fetched)", len(failed))
	}
	gtmOnly, missing := scanPages(loaded, signatures)
	if gtmOnly == nil {
		gtmOnly = []string{}
	}

	if len(missing) > 0 {
		label := pixelLabels[rc.Platform]
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%s not detected on %d landing page(s)%s", label, len(missing), note))
		r.Recommendation = fmt.Sprintf("Install the %s on your destination page(s) before launching. "+
			"Without it, campaign conversion data will not be attributed.", label)
		r.AffectedItems = missing
		r.Metadata = map[string]any{"gtm_present_on": gtmOnly}
		return r
	}
	if len(gtmOnly) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%s pixel not found directly in HTML on %d page(s), but GTM is installed, "+
				"pixel may be loading via GTM%s", displayPlatform(rc.Platform), len(gtmOnly), note))
		r.Recommendation = "Verify in GTM that the pixel tag is configured and firing on All Pages. " +
			"Use the GTM Preview mode or browser extension to confirm."
		r.AffectedItems = gtmOnly
		r.Metadata = map[string]any{"gtm_present_on": gtmOnly}
		return r
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("%s tracking pixel detected on all %d page(s)%s", displayPlatform(rc.Platform), len(loaded), note))
	r.Metadata = map[string]any{"pages_checked": len(loaded)}
	return r
}

type gtmCheck struct{ Deps }

func (gtmCheck) Definition() check.Definition {
	return check.Definition{ID: "gtm_present", Name: "Google Tag Manager Installed", Category: model.CategoryTracking,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierAsync}
}

func (c gtmCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byURL, false, c.MaxURLs)))
	if len(loaded) == 0 {
		r := check.Result(model.CheckStatusError, "Could not fetch landing page(s) to check for GTM")
		r.Recommendation = "Ensure destination URLs are publicly accessible"
		return r
	}

	var missing []string
	for _, p := range loaded {
		if !containsAny(p.doc.raw, gtmSignatures) {
			missing = append(missing, p.url)
		}
	}
	if len(missing) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("Google Tag Manager detected on all %d page(s)", len(loaded)))
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("GTM not detected on %d of %d page(s)", len(missing), len(loaded)))
	r.Recommendation = "GTM is the recommended way to manage all tracking tags in one place. " +
		"Without it, adding/updating pixels requires code deployments."
	r.AffectedItems = missing
	return r
}

type conversionEventCheck struct{ Deps }

func (conversionEventCheck) Definition() check.Definition {
	return check.Definition{ID: "pixel_conversion_event", Name: "Conversion Event Tracking Detected",
		Category: model.CategoryTracking, Platforms: paid, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c conversionEventCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	objective := strings.ReplaceAll(strings.ToLower(rc.CampaignObjective), " ", "_")
	if !conversionObjectives[objective] {
		shown := rc.CampaignObjective
		if shown == "" {
			shown = "not set"
		}
		return check.Result(model.CheckStatusSkipped, fmt.Sprintf("Conversion event check skipped, campaign objective is '%s' "+
			"(only runs for conversion/lead_gen/retargeting/app_install)", shown))
	}
	signatures := conversionSignatures[rc.Platform]
	if len(signatures) == 0 {
		return check.Result(model.CheckStatusSkipped, "Conversion event signatures not configured for this platform")
	}

	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byURL, false, c.MaxURLs)))
	if len(loaded) == 0 {
		r := check.Result(model.CheckStatusError, "Could not fetch landing page(s) to check for conversion events")
		r.Recommendation = "Ensure destination URLs are publicly accessible"
		return r
	}

	gtmOnly, missing := scanPages(loaded, signatures)
	if len(missing) > 0 {
		if gtmOnly == nil {
			gtmOnly = []string{}
		}
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("No %s conversion events detected on %d page(s), campaign objective is '%s'",
				displayPlatform(rc.Platform), len(missing), rc.CampaignObjective))
		r.Recommendation = fmt.Sprintf("Add a conversion event to your landing/thank-you page. Example: %s. "+
			"Without this, the platform cannot optimize toward your campaign objective.", conversionExamples[rc.Platform])
		r.AffectedItems = missing
		r.Metadata = map[string]any{"gtm_present_on": gtmOnly}
		return r
	}
	if len(gtmOnly) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("No inline conversion events found on %d page(s), "+
				"but GTM is present, conversion events may be firing via GTM triggers", len(gtmOnly)))
		r.Recommendation = "Verify in GTM that a conversion event fires on the correct trigger " +
			"(e.g., thank-you page URL, form submit). Use GTM Preview to confirm."
		r.AffectedItems = gtmOnly
		return r
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Conversion event tracking detected on all %d page(s)", len(loaded)))
	r.Metadata = map[string]any{"pages_checked": len(loaded)}
	return r
}
