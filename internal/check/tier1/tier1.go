// Package tier1 holds the synchronous checks. They only look at the submitted input and never
// do I/O, so they run inline with the submit request.
package tier1

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var (
	universal = []model.Platform{model.PlatformUniversal}
	paid      = []model.Platform{model.PlatformMeta, model.PlatformGoogle, model.PlatformTikTok, model.PlatformLinkedIn}
)

// Checks returns every Tier 1 check in registry order.
func Checks() []check.Check {
	return []check.Check{
		httpsCheck{},
		parseableCheck{},
		noFragmentCheck{},
		uniformDomainCheck{},
		lengthCheck{},
		noWhitespaceCheck{},
		utmPresentCheck{param: "utm_source", id: "utm_source_present", name: "UTM Source Parameter Present",
			recommendation: "Add ?utm_source=<platform> to all destination URLs before launching"},
		utmPresentCheck{param: "utm_medium", id: "utm_medium_present", name: "UTM Medium Parameter Present",
			recommendation: "Add utm_medium=cpc (or paid_social / display) to all destination URLs"},
		utmPresentCheck{param: "utm_campaign", id: "utm_campaign_present", name: "UTM Campaign Parameter Present",
			recommendation: "Add utm_campaign=<campaign_name> to all destination URLs"},
		utmNoSpacesCheck{},
		utmCaseCheck{},
		utmSourcePlatformCheck{},
		duplicateParamsCheck{},
		campaignNamingCheck{},
		adNamingCheck{},
		budgetMinimumCheck{},
		budgetNumericCheck{},
		verticalContextCheck{},
		objectiveAlignmentCheck{},
		headlineLimitCheck(),
		primaryTextLimitCheck{},
		descriptionLimitCheck(),
		ctaCheck{},
	}
}

func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
