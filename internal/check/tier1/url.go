package tier1

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"

	"golang.org/x/net/publicsuffix"
)

const maxURLLength = 2000

type httpsCheck struct{}

func (httpsCheck) Definition() check.Definition {
	return check.Definition{ID: "url_uses_https", Name: "Destination URLs Use HTTPS", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierSync}
}

func (httpsCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var insecure []string
	for _, u := range rc.URLs {
		if strings.HasPrefix(strings.ToLower(u.RawURL), "http://") {
			insecure = append(insecure, u.RawURL)
		}
	}
	if len(insecure) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("All %d URL(s) use HTTPS", len(rc.URLs)))
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("%d URL(s) use HTTP, ad platforms reject HTTP destination URLs", len(insecure)))
	r.Recommendation = "Update all destination URLs to use HTTPS"
	r.AffectedItems = insecure
	return r
}

type parseableCheck struct{}

func (parseableCheck) Definition() check.Definition {
	return check.Definition{ID: "url_parseable", Name: "Destination URLs Are Valid", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierSync}
}

func (parseableCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var invalid []string
	for _, u := range rc.URLs {
		if !u.Usable() {
			invalid = append(invalid, u.RawURL)
		}
	}
	if len(invalid) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("All %d URL(s) have valid structure", len(rc.URLs)))
	}
	r := check.Result(model.CheckStatusFailed, fmt.Sprintf("%d URL(s) have invalid format", len(invalid)))
	r.Recommendation = "Ensure all URLs include https:// and a valid domain"
	r.AffectedItems = invalid
	return r
}

type noFragmentCheck struct{}

func (noFragmentCheck) Definition() check.Definition {
	return check.Definition{ID: "url_no_fragment", Name: "URLs Do Not Use Hash Fragments for Tracking",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (noFragmentCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var withFragment []string
	for _, u := range rc.URLs {
		if u.Parsed.Fragment != "" {
			withFragment = append(withFragment, u.RawURL)
		}
	}
	if len(withFragment) == 0 {
		return check.Result(model.CheckStatusPassed, "No hash fragments used, URL tracking parameters will work correctly")
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("%d URL(s) contain # fragments; UTM params after # are not sent to servers", len(withFragment)))
	r.Recommendation = "Move UTM parameters before # fragments, or remove fragments if not needed for the landing page"
	r.AffectedItems = withFragment
	return r
}

type uniformDomainCheck struct{}

func (uniformDomainCheck) Definition() check.Definition {
	return check.Definition{ID: "url_uniform_domain", Name: "All URLs Point to Same Domain", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMinor, Tier: check.TierSync}
}

func (uniformDomainCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	if len(rc.URLs) < 2 {
		return check.Result(model.CheckStatusSkipped, "Only one URL provided, domain consistency check skipped")
	}
	set := map[string]struct{}{}
	for _, u := range rc.URLs {
		if !u.Usable() {
			continue
		}
		set[registrableDomain(u.Parsed.Host)] = struct{}{}
	}
	domains := make([]string, 0, len(set))
	for d := range set {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	if len(domains) <= 1 {
		only := "unknown"
		if len(domains) == 1 {
			only = domains[0]
		}
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("All URLs point to the same domain: %s", only))
	}
	r := check.Result(model.CheckStatusWarning,
		fmt.Sprintf("URLs point to %d different domains: %s", len(domains), strings.Join(domains, ", ")))
	r.Recommendation = "Verify that multiple domains are intentional (e.g. split testing) and not a copy-paste error"
	r.Metadata = map[string]any{"domains": domains}
	return r
}

// registrableDomain reduces a host to its eTLD+1 so www. and other subdomains compare equal.
func registrableDomain(host string) string {
	h := strings.ToLower(host)
	if i := strings.LastIndex(h, ":"); i >= 0 && !strings.Contains(h[i:], "]") {
		h = h[:i]
	}
	if net.ParseIP(strings.Trim(h, "[]")) != nil {
		return h
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(h); err == nil {
		return d
	}
	return strings.TrimPrefix(h, "www.")
}

type lengthCheck struct{}

func (lengthCheck) Definition() check.Definition {
	return check.Definition{ID: "url_length", Name: "URL Length Within Platform Limits", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierSync}
}

func (lengthCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var long []string
	for _, u := range rc.URLs {
		if len(u.RawURL) > maxURLLength {
			long = append(long, u.RawURL[:100]+"...")
		}
	}
	if len(long) == 0 {
		return check.Result(model.CheckStatusPassed, fmt.Sprintf("All URL(s) are within the %d character limit", maxURLLength))
	}
	r := check.Result(model.CheckStatusFailed,
		fmt.Sprintf("%d URL(s) exceed %d characters and may be truncated by browsers", len(long), maxURLLength))
	r.Recommendation = "Use a URL shortener or reduce the number of query parameters"
	r.AffectedItems = long
	return r
}

type noWhitespaceCheck struct{}

func (noWhitespaceCheck) Definition() check.Definition {
	return check.Definition{ID: "url_no_whitespace", Name: "URLs Free of Whitespace", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierSync}
}

func (noWhitespaceCheck) Execute(_ context.Context, rc *check.RunContext) model.CheckResult {
	var bad []string
	for _, u := range rc.URLs {
		if strings.ContainsAny(u.RawURL, " \t\n\r") {
			bad = append(bad, u.RawURL)
		}
	}
	if len(bad) == 0 {
		return check.Result(model.CheckStatusPassed, "No whitespace found in any URL")
	}
	r := check.Result(model.CheckStatusFailed, fmt.Sprintf("%d URL(s) contain whitespace and will cause broken links", len(bad)))
	r.Recommendation = "Remove spaces from URLs. Use %20 for encoded spaces or remove them entirely."
	r.AffectedItems = bad
	return r
}
