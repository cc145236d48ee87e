package tier1

import (
	"context"
	"fmt"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

type verticalGuide struct {
	signals        []string
	missingSignal  string
	recommendation string
}

var verticalGuides = map[string]verticalGuide{
	"ecommerce": {
		signals:       []string{"shop", "product", "cart", "checkout", "buy", "store"},
		missingSignal: "Ecommerce campaigns should link to product or category pages, not the homepage",
		recommendation: "For ecommerce: (1) Link to specific product/category pages, not homepage. " +
			"(2) Add utm_content=<creative_variant> to enable A/B testing. " +
			"(3) Verify cart abandonment pixel is on the checkout page. " +
			"(4) Check that dynamic product ads have inventory feed connected.",
	},
	"saas": {
		signals:       []string{"trial", "demo", "signup", "register", "start", "free"},
		missingSignal: "SaaS campaigns should land on a trial/demo/signup page, not the homepage",
		recommendation: "For SaaS: (1) Landing page should have a clear free trial or demo CTA. " +
			"(2) Add the tracking pixel to the signup confirmation page, not just the landing page. " +
			"(3) Set utm_content to the experiment variant for conversion rate testing. " +
			"(4) Verify that the landing page loads in < 2s.",
	},
	"lead_gen": {
		signals:       []string{"contact", "form", "quote", "consult", "schedule", "book", "apply"},
		missingSignal: "Lead gen campaigns should link to a form or booking page, not a generic page",
		recommendation: "For lead gen: (1) Destination URL should contain a visible contact form above the fold. " +
			"(2) Add a call tracking number and verify it appears on the page. " +
			"(3) Ensure thank-you page after form submit has the conversion pixel. " +
			"(4) Add utm_term={{keyword}} for search campaigns to track which keywords generate leads.",
	},
	"app_install": {
		signals:       []string{"app", "download", "install", "play", "apple", "google"},
		missingSignal: "App install campaigns should link to App Store / Play Store or a smart redirect",
		recommendation: "For app install campaigns: (1) Use platform deep links or a smart redirect service " +
			"(Branch, AppsFlyer). (2) Ensure the destination URL is a valid App Store or Play Store URL. " +
			"(3) Add a mobile measurement partner (MMP) SDK to track installs accurately. " +
			"(4) Verify the app store listing has recent screenshots and a high average rating.",
	},
}

type verticalContextCheck struct{}

func (verticalContextCheck) Definition() check.Definition {
	return check.Definition{ID: "industry_vertical_context", Name: "Industry-Specific Pre-Launch Checklist",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (verticalContextCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	vertical := strings.ToLower(strings.TrimSpace(rc.IndustryVertical))
	guide, ok := verticalGuides[vertical]
	if !ok {
		r := check.Result(model.CheckStatusSkipped, "No industry vertical specified, contextual checks skipped")
		r.Recommendation = "Set industry_vertical to one of: ecommerce, saas, lead_gen, app_install for targeted QA tips"
		return r
	}

	var missing []string
	for _, u := range rc.URLs {
		hostPath := strings.ToLower(u.Parsed.Host + u.Parsed.Path)
		found := false
		for _, s := range guide.signals {
			if strings.Contains(hostPath, s) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, u.RawURL)
		}
	}

	if len(missing) > 0 && len(missing) == len(rc.URLs) {
		r := check.Result(model.CheckStatusWarning, guide.missingSignal)
		r.Recommendation = guide.recommendation
		if len(missing) > 5 {
			missing = missing[:5]
		}
		r.AffectedItems = missing
		return r
	}
	r := check.Result(model.CheckStatusPassed, fmt.Sprintf("URLs look appropriate for %s campaigns", vertical))
	r.Recommendation = guide.recommendation
	r.Metadata = map[string]any{"industry_vertical": vertical}
	return r
}

var (
	conversionCTAs       = []string{"buy now", "shop now", "order now", "get quote", "apply now", "book now", "sign up", "start free"}
	conversionObjectives = map[string]bool{"conversion": true, "conversions": true, "purchase": true, "lead": true, "lead_gen": true}
	awarenessObjectives  = map[string]bool{"awareness": true, "reach": true, "views": true, "brand_awareness": true}
)

type objectiveAlignmentCheck struct{}

func (objectiveAlignmentCheck) Definition() check.Definition {
	return check.Definition{ID: "campaign_objective_alignment", Name: "Campaign Objective vs. Creative Alignment",
		Category: model.CategoryCreative, Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (objectiveAlignmentCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	objective := strings.ToLower(strings.TrimSpace(rc.CampaignObjective))
	if objective == "" {
		return check.Result(model.CheckStatusSkipped, "No campaign objective specified, alignment check skipped")
	}

	var issues []string
	if awarenessObjectives[objective] {
		for _, u := range rc.URLs {
			if strings.ToLower(u.Parsed.UTM.Medium) == "cpc" {
				issues = append(issues, "utm_medium=cpc on an awareness campaign may signal misclassified intent; "+
					"consider utm_medium=display or video for brand awareness")
				break
			}
		}
	}
	if conversionObjectives[objective] {
		copyText := strings.ToLower(rc.AdCopy())
		if strings.TrimSpace(copyText) != "" && !containsAny(copyText, conversionCTAs) {
			issues = append(issues, "Conversion objective but no strong conversion CTA detected in ad copy "+
				"(e.g. 'Shop Now', 'Sign Up', 'Get Quote')")
		}
	}

	if len(issues) == 0 {
		r := check.Result(model.CheckStatusPassed,
			fmt.Sprintf("Campaign objective '%s' is consistent with creative and UTM settings", objective))
		r.Metadata = map[string]any{"objective": objective}
		return r
	}
	r := check.Result(model.CheckStatusWarning, "Campaign objective alignment issue: "+issues[0])
	r.Recommendation = "Ensure your UTM medium, ad copy CTAs, and campaign objective tell a consistent story"
	r.AffectedItems = issues
	r.Metadata = map[string]any{"objective": objective}
	return r
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
