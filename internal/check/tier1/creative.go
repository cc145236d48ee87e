package tier1

import (
	"context"
	"fmt"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

// Hard character limits per platform and field.
var charLimits = map[model.Platform]map[string]int{
	model.PlatformMeta:     {"headline": 40, "primary_text": 125, "description": 30},
	model.PlatformGoogle:   {"headline": 30, "description": 90},
	model.PlatformTikTok:   {"primary_text": 100, "description": 100},
	model.PlatformLinkedIn: {"headline": 70, "primary_text": 150, "description": 70},
}

// Soft limits above which text is truncated behind "see more".
var recommendedLimits = map[model.Platform]map[string]int{
	model.PlatformMeta: {"primary_text": 80},
}

var ctaKeywords = []string{
	"shop now", "learn more", "sign up", "get started", "try free",
	"buy now", "download", "book now", "contact us", "get quote",
	"apply now", "subscribe", "discover", "explore", "click",
}

// fieldLimitCheck covers headline and description, which share the same rules.
type fieldLimitCheck struct {
	def   check.Definition
	field string
	label string
	text  func(rc *check.RunContext) string
}

func headlineLimitCheck() fieldLimitCheck {
	return fieldLimitCheck{
		def: check.Definition{ID: "headline_char_limit", Name: "Headline Character Limit", Category: model.CategoryCreative,
			Platforms: []model.Platform{model.PlatformMeta, model.PlatformGoogle, model.PlatformLinkedIn},
			Severity:  model.SeverityCritical, Tier: check.TierSync},
		field: "headline",
		label: "Headline",
		text:  func(rc *check.RunContext) string { return rc.Headline },
	}
}

func descriptionLimitCheck() fieldLimitCheck {
	return fieldLimitCheck{
		def: check.Definition{ID: "description_char_limit", Name: "Description Character Limit", Category: model.CategoryCreative,
			Platforms: []model.Platform{model.PlatformMeta, model.PlatformGoogle},
			Severity:  model.SeverityMajor, Tier: check.TierSync},
		field: "description",
		label: "Description",
		text:  func(rc *check.RunContext) string { return rc.Description },
	}
}

func (c fieldLimitCheck) Definition() check.Definition { return c.def }

func (c fieldLimitCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	limit := charLimits[rc.Platform][c.field]
	if limit == 0 {
		return check.Result(model.CheckStatusSkipped, fmt.Sprintf("%s limit not applicable for this platform", c.label))
	}
	text := c.text(rc)
	if text == "" {
		r := check.Result(model.CheckStatusWarning, fmt.Sprintf("%s not provided, cannot check character limit", c.label))
		r.Recommendation = fmt.Sprintf("Provide %s text to enable this check", strings.ToLower(c.label))
		return r
	}
	length := runeLen(text)
	if length <= limit {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("%s is %d/%d characters, within limit", c.label, length, limit))
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("%s is %d characters and exceeds the %s limit of %d", c.label, length, rc.Platform, limit))
	r.Recommendation = fmt.Sprintf("Shorten %s to %d characters or fewer", strings.ToLower(c.label), limit)
	r.AffectedItems = []string{text}
	r.Metadata = map[string]any{"length": length, "limit": limit, "overage": length - limit}
	return r
}

type primaryTextLimitCheck struct{}

func (primaryTextLimitCheck) Definition() check.Definition {
	return check.Definition{ID: "primary_text_char_limit", Name: "Primary Text / Ad Copy Character Limit",
		Category:  model.CategoryCreative,
		Platforms: []model.Platform{model.PlatformMeta, model.PlatformTikTok, model.PlatformLinkedIn},
		Severity:  model.SeverityMajor, Tier: check.TierSync}
}

func (primaryTextLimitCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	limit := charLimits[rc.Platform]["primary_text"]
	if limit == 0 {
		return check.Result(model.CheckStatusSkipped, "Primary text limit not applicable for this platform")
	}
	if rc.PrimaryText == "" {
		r := check.Result(model.CheckStatusWarning, "Primary text not provided, cannot check character limit")
		r.Recommendation = "Provide ad copy text to enable this check"
		return r
	}

	length := runeLen(rc.PrimaryText)
	if length > limit {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("Primary text is %d characters and exceeds the %s hard limit of %d", length, rc.Platform, limit))
		r.Recommendation = fmt.Sprintf("Shorten primary text to %d characters, the ad will not serve above this limit", limit)
		r.AffectedItems = []string{truncateRunes(rc.PrimaryText, 80) + "..."}
		r.Metadata = map[string]any{"length": length, "limit": limit, "overage": length - limit}
		return r
	}
	if rec := recommendedLimits[rc.Platform]["primary_text"]; rec > 0 && length > rec {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("Primary text is %d characters, within the hard limit (%d) but above the recommended %d. "+
				"Text will be truncated with 'see more' on mobile.", length, limit, rec))
		r.Recommendation = fmt.Sprintf("Consider shortening to %d characters for full mobile display", rec)
		r.Metadata = map[string]any{"length": length, "limit": limit, "recommended": rec}
		return r
	}
	return check.Result(model.CheckStatusPassed, fmt.Sprintf("Primary text is %d/%d characters, within limit", length, limit))
}

type ctaCheck struct{}

func (ctaCheck) Definition() check.Definition {
	return check.Definition{ID: "cta_in_copy", Name: "Call-to-Action Present in Ad Copy", Category: model.CategoryCreative,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (ctaCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	text := strings.ToLower(rc.AdCopy())
	if strings.TrimSpace(text) == "" {
		return check.Result(model.CheckStatusSkipped, "No ad copy provided, CTA check skipped")
	}
	var found []string
	for _, kw := range ctaKeywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	if len(found) > 0 {
		r := check.Result(model.CheckStatusPassed, fmt.Sprintf("CTA found in ad copy: '%s'", found[0]))
		r.Metadata = map[string]any{"ctas_found": found}
		return r
	}
	r := check.Result(model.CheckStatusWarning, "No clear call-to-action detected in ad copy")
	r.Recommendation = "Add a direct CTA (e.g. 'Shop Now', 'Get Started', 'Learn More') to improve CTR"
	return r
}
