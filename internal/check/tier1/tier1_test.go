package tier1

import (
	"context"
	"strings"
	"testing"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/normalizer"
)

func newContext(t *testing.T, platform model.Platform, urls ...string) *check.RunContext {
	t.Helper()
	entries := make([]normalizer.URLEntry, len(urls))
	for i, u := range urls {
		entries[i] = normalizer.URLEntry{URL: u}
	}
	rc, _ := normalizer.Normalize(normalizer.Input{RunID: "run-1", Platform: platform, URLs: entries})
	if rc == nil {
		t.Fatal("Normalize() returned nil context")
	}
	return rc
}

func run(c check.Check, rc *check.RunContext) model.CheckResult {
	return check.Run(context.Background(), c, rc)
}

func TestChecksAreUniqueAndOrdered(t *testing.T) {
	reg, err := check.NewRegistry(Checks()...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	defs := reg.Definitions()
	if len(defs) != 23 {
		t.Fatalf("got %d checks, want 23", len(defs))
	}
	if defs[0].ID != "url_uses_https" || defs[len(defs)-1].ID != "cta_in_copy" {
		t.Errorf("unexpected order: first=%s last=%s", defs[0].ID, defs[len(defs)-1].ID)
	}
	for _, d := range defs {
		if d.Tier != check.TierSync {
			t.Errorf("%s has tier %d, want 1", d.ID, d.Tier)
		}
	}
}

func TestURLChecks(t *testing.T) {
	tests := []struct {
		name  string
		check check.Check
		urls  []string
		want  model.CheckStatus
	}{
		{"https passes", httpsCheck{}, []string{"https://a.com"}, model.CheckStatusPassed},
		{"http fails", httpsCheck{}, []string{"https://a.com", "http://b.com"}, model.CheckStatusFailed},
		{"parseable fails on junk", parseableCheck{}, []string{"https://a.com", "junk"}, model.CheckStatusFailed},
		{"fragment warns", noFragmentCheck{}, []string{"https://a.com/#utm_source=x"}, model.CheckStatusWarning},
		{"single url skips domain check", uniformDomainCheck{}, []string{"https://a.com"}, model.CheckStatusSkipped},
		{"www is the same domain", uniformDomainCheck{}, []string{"https://www.a.com", "https://a.com/x"}, model.CheckStatusPassed},
		{"two domains warn", uniformDomainCheck{}, []string{"https://a.com", "https://b.com"}, model.CheckStatusWarning},
		{"long url fails", lengthCheck{}, []string{"https://a.com/?q=" + strings.Repeat("x", 2001)}, model.CheckStatusFailed},
		{"inner whitespace fails", noWhitespaceCheck{}, []string{"https://a.com/a b"}, model.CheckStatusFailed},
		{"trimmed whitespace passes", noWhitespaceCheck{}, []string{" https://a.com/ "}, model.CheckStatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(tt.check, newContext(t, model.PlatformMeta, tt.urls...))
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestUTMChecks(t *testing.T) {
	source := Checks()[6]
	tests := []struct {
		name     string
		check    check.Check
		platform model.Platform
		urls     []string
		want     model.CheckStatus
	}{
		{"source present", source, model.PlatformMeta, []string{"https://a.com/?utm_source=facebook"}, model.CheckStatusPassed},
		{"source missing", source, model.PlatformMeta, []string{"https://a.com/?UTM_SOURCE=facebook"}, model.CheckStatusFailed},
		{"space in value", utmNoSpacesCheck{}, model.PlatformMeta, []string{"https://a.com/?utm_campaign=spring%20sale"}, model.CheckStatusFailed},
		{"mixed case", utmCaseCheck{}, model.PlatformMeta, []string{"https://a.com/?utm_source=Facebook"}, model.CheckStatusWarning},
		{"source matches", utmSourcePlatformCheck{}, model.PlatformMeta, []string{"https://a.com/?utm_source=Instagram"}, model.CheckStatusPassed},
		{"source mismatch", utmSourcePlatformCheck{}, model.PlatformTikTok, []string{"https://a.com/?utm_source=facebook"}, model.CheckStatusWarning},
		{"duplicate params", duplicateParamsCheck{}, model.PlatformMeta, []string{"https://a.com/?a=1&a=2"}, model.CheckStatusFailed},
		{"no duplicates", duplicateParamsCheck{}, model.PlatformMeta, []string{"https://a.com/?a=1&b=2"}, model.CheckStatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(tt.check, newContext(t, tt.platform, tt.urls...))
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestNamingChecks(t *testing.T) {
	tests := []struct {
		name     string
		campaign string
		want     model.CheckStatus
	}{
		{"missing", "", model.CheckStatusSkipped},
		{"spaces", "Spring Sale 2025", model.CheckStatusFailed},
		{"no date", "meta_spring_sale", model.CheckStatusWarning},
		{"valid", "meta_conversion_Q2_2025", model.CheckStatusPassed},
		{"special characters", "meta_sale_2025!", model.CheckStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newContext(t, model.PlatformMeta, "https://a.com")
			rc.CampaignName = tt.campaign
			if res := run(campaignNamingCheck{}, rc); res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}

	t.Run("ad names", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com", "https://a.com/b")
		if res := run(adNamingCheck{}, rc); res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s, want skipped", res.Status)
		}
		rc.URLs[0].AdName = "ad one"
		rc.URLs[1].AdSetName = "lookalike_us_2025"
		res := run(adNamingCheck{}, rc)
		if res.Status != model.CheckStatusFailed {
			t.Fatalf("Status = %s, want failed", res.Status)
		}
		if len(res.AffectedItems) != 2 {
			t.Errorf("AffectedItems = %v, want spaces and separator issues for 'ad one'", res.AffectedItems)
		}
	})
}

func TestBudgetChecks(t *testing.T) {
	tests := []struct {
		name     string
		check    check.Check
		platform model.Platform
		extra    map[string]string
		want     model.CheckStatus
	}{
		{"minimum not provided", budgetMinimumCheck{}, model.PlatformMeta, nil, model.CheckStatusWarning},
		{"tiktok below minimum", budgetMinimumCheck{}, model.PlatformTikTok, map[string]string{"daily_budget": "$15"}, model.CheckStatusFailed},
		{"linkedin above minimum", budgetMinimumCheck{}, model.PlatformLinkedIn, map[string]string{"daily_budget": "1,000"}, model.CheckStatusPassed},
		{"minimum not numeric", budgetMinimumCheck{}, model.PlatformMeta, map[string]string{"daily_budget": "fifty"}, model.CheckStatusFailed},
		{"numeric skipped", budgetNumericCheck{}, model.PlatformMeta, nil, model.CheckStatusSkipped},
		{"lifetime numeric", budgetNumericCheck{}, model.PlatformMeta, map[string]string{"lifetime_budget": "500.00"}, model.CheckStatusPassed},
		{"not numeric", budgetNumericCheck{}, model.PlatformMeta, map[string]string{"daily_budget": "lots"}, model.CheckStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newContext(t, tt.platform, "https://a.com")
			if tt.extra != nil {
				rc.Extra = tt.extra
			}
			if res := run(tt.check, rc); res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestContextChecks(t *testing.T) {
	t.Run("vertical unknown", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com")
		rc.IndustryVertical = "crypto"
		if res := run(verticalContextCheck{}, rc); res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s, want skipped", res.Status)
		}
	})

	t.Run("ecommerce homepage warns", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com/", "https://a.com/about")
		rc.IndustryVertical = "Ecommerce"
		if res := run(verticalContextCheck{}, rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
	})

	t.Run("one url with signal passes", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com/", "https://a.com/product/1")
		rc.IndustryVertical = "ecommerce"
		if res := run(verticalContextCheck{}, rc); res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s, want passed", res.Status)
		}
	})

	t.Run("awareness with cpc warns", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com/?utm_medium=CPC")
		rc.CampaignObjective = "awareness"
		if res := run(objectiveAlignmentCheck{}, rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
	})

	t.Run("conversion without cta warns", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com/")
		rc.CampaignObjective = "conversion"
		rc.Headline = "Our new collection"
		if res := run(objectiveAlignmentCheck{}, rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
		rc.PrimaryText = "Shop now and save"
		if res := run(objectiveAlignmentCheck{}, rc); res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s, want passed", res.Status)
		}
	})
}

func TestCreativeChecks(t *testing.T) {
	t.Run("headline over meta limit", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com")
		rc.Headline = strings.Repeat("h", 41)
		res := run(headlineLimitCheck(), rc)
		if res.Status != model.CheckStatusFailed {
			t.Fatalf("Status = %s, want failed", res.Status)
		}
		if res.Metadata["overage"] != 1 {
			t.Errorf("overage = %v, want 1", res.Metadata["overage"])
		}
	})

	t.Run("headline counts characters not bytes", func(t *testing.T) {
		rc := newContext(t, model.PlatformGoogle, "https://a.com")
		rc.Headline = strings.Repeat("é", 30)
		if res := run(headlineLimitCheck(), rc); res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s, want passed", res.Status)
		}
	})

	t.Run("headline missing warns", func(t *testing.T) {
		rc := newContext(t, model.PlatformLinkedIn, "https://a.com")
		if res := run(headlineLimitCheck(), rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
	})

	t.Run("primary text soft limit on meta", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com")
		rc.PrimaryText = strings.Repeat("p", 100)
		if res := run(primaryTextLimitCheck{}, rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
		rc.PrimaryText = strings.Repeat("p", 126)
		if res := run(primaryTextLimitCheck{}, rc); res.Status != model.CheckStatusFailed {
			t.Errorf("Status = %s, want failed", res.Status)
		}
	})

	t.Run("description without a platform limit", func(t *testing.T) {
		rc := newContext(t, model.PlatformMulti, "https://a.com")
		rc.Description = "x"
		if res := run(descriptionLimitCheck(), rc); res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s, want skipped", res.Status)
		}
	})

	t.Run("cta", func(t *testing.T) {
		rc := newContext(t, model.PlatformMeta, "https://a.com")
		if res := run(ctaCheck{}, rc); res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s, want skipped", res.Status)
		}
		rc.Headline = "Spring collection"
		if res := run(ctaCheck{}, rc); res.Status != model.CheckStatusWarning {
			t.Errorf("Status = %s, want warning", res.Status)
		}
		rc.Description = "Learn More today"
		if res := run(ctaCheck{}, rc); res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s, want passed", res.Status)
		}
	})
}
