package tier2

import (
	"context"
	"fmt"
	"regexp"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var (
	guaranteedRe  = regexp.MustCompile(`(?i)\b(guaranteed?|100\s*%\s*(free|results?|success)|risk[\s-]?free|no[\s-]?risk)\b`)
	beforeAfterRe = regexp.MustCompile(`(?is)\bbefore\b.{0,80}\bafter\b`)
	prohibitedRe  = regexp.MustCompile(`(?i)\b(cure[sd]?|miracle|instant\s+results?|lose\s+\d+\s+(lbs?|pounds?|kg)\s+in|` +
		`make\s+\$\d+\s+(a\s+day|per\s+day|daily)|work\s+from\s+home\s+and\s+earn)\b`)
	privacyPolicyRe = regexp.MustCompile(`(?i)privacy[\s\-]?policy|privacy[\s\-]?notice`)
)

type privacyPolicyCheck struct{ Deps }

func (privacyPolicyCheck) Definition() check.Definition {
	return check.Definition{ID: "privacy_policy_present", Name: "Privacy Policy Link on Landing Page",
		Category: model.CategoryTracking, Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c privacyPolicyCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byHost, false, c.MaxURLs)))
	if len(loaded) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not fetch landing pages to check for privacy policy")
	}

	var missing []string
	for _, p := range loaded {
		if !privacyPolicyRe.MatchString(p.doc.raw) {
			missing = append(missing, p.url)
		}
	}
	if len(missing) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("Privacy policy link missing on %d landing page(s), required by Meta and Google", len(missing)))
		r.Recommendation = "Add a clearly visible link to your Privacy Policy on all landing pages. " +
			"Required to run ads on Meta, Google, TikTok, and LinkedIn."
		r.AffectedItems = missing
		return r
	}
	return check.Result(model.CheckStatusPassed,
		fmt.Sprintf("Privacy policy link found on all %d checked landing page(s)", len(loaded)))
}

type prohibitedClaimsCheck struct{ Deps }

func (prohibitedClaimsCheck) Definition() check.Definition {
	return check.Definition{ID: "prohibited_claims", Name: "Prohibited Claims & Policy Violations",
		Category: model.CategoryCreative, Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c prohibitedClaimsCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	var violations []string
	if adCopy := rc.AdCopy(); adCopy != "" {
		if m := guaranteedRe.FindString(adCopy); m != "" {
			violations = append(violations,
				fmt.Sprintf("Ad copy: contains '%s', misleading guarantee claims may get ads rejected", m))
		}
		if m := prohibitedRe.FindString(adCopy); m != "" {
			violations = append(violations, fmt.Sprintf("Ad copy: contains prohibited claim '%s'", m))
		}
	}

	loaded, _ := splitLoaded(fetchPages(ctx, c.Fetcher, targets(rc, byHost, false, c.MaxURLs)))
	for _, p := range loaded {
		label := fmt.Sprintf("Landing page (%s)", p.url)
		if beforeAfterRe.MatchString(p.doc.raw) {
			violations = append(violations,
				label+": before/after comparison content detected, prohibited in health/fitness ads")
		}
		if m := prohibitedRe.FindString(p.doc.raw); m != "" {
			violations = append(violations, fmt.Sprintf("%s: prohibited claim detected '%s'", label, m))
		}
	}

	if len(violations) == 0 {
		return check.Result(model.CheckStatusPassed, "No obvious prohibited claims detected in ad copy or landing pages")
	}
	r := check.Result(model.CheckStatusWarning, fmt.Sprintf("%d potential policy violation(s) detected", len(violations)))
	r.Recommendation = "Review flagged content against Meta and Google ad policies before launching. " +
		"Policy violations can result in ad rejection or account suspension."
	r.AffectedItems = violations
	return r
}
