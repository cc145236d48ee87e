package tier2

import (
	"context"
	"fmt"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

const (
	certWarnDays = 30
	certFailDays = 7
)

// httpsHosts lists the distinct hosts (with port) behind https URLs.
func httpsHosts(rc *check.RunContext, limit int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, u := range rc.URLs {
		if !u.Usable() || !strings.EqualFold(u.Parsed.Scheme, "https") {
			continue
		}
		h := strings.ToLower(u.Parsed.Host)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}

func probeCerts(ctx context.Context, p CertProber, hosts []string) []CertInfo {
	out := make([]CertInfo, len(hosts))
	for i, h := range hosts {
		out[i] = p.Probe(ctx, h)
	}
	return out
}

func certMetadata(infos []CertInfo) []map[string]any {
	out := make([]map[string]any, len(infos))
	for i, c := range infos {
		out[i] = map[string]any{"host": c.Host, "expires": c.Expiry.Format("2006-01-02"), "days_left": c.DaysLeft}
	}
	return out
}

type sslValidCheck struct{ Deps }

func (sslValidCheck) Definition() check.Definition {
	return check.Definition{ID: "ssl_cert_valid", Name: "SSL Certificate Validity", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c sslValidCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	hosts := httpsHosts(rc, c.MaxURLs)
	if len(hosts) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTPS URLs to check for SSL validity")
	}

	var invalid []string
	var valid []CertInfo
	for _, info := range probeCerts(ctx, c.Prober, hosts) {
		switch info.State {
		case CertInvalid:
			invalid = append(invalid, fmt.Sprintf("%s: %s", info.Host, info.Err))
		case CertValid:
			valid = append(valid, info)
		}
	}
	if len(invalid) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d domain(s) have invalid SSL certificates, ads may be disapproved or landing pages blocked", len(invalid)))
		r.Recommendation = "Renew or fix the SSL certificate on the affected domains immediately"
		r.AffectedItems = invalid
		return r
	}
	if len(valid) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not connect to any domain on port 443, SSL check skipped")
	}
	r := check.Result(model.CheckStatusPassed, fmt.Sprintf("SSL certificates valid on all %d checked domain(s)", len(valid)))
	r.Metadata = map[string]any{"domains": certMetadata(valid)}
	return r
}

type sslExpiryCheck struct{ Deps }

func (sslExpiryCheck) Definition() check.Definition {
	return check.Definition{ID: "ssl_cert_expiry", Name: "SSL Certificate Expiry", Category: model.CategoryURL,
		Platforms: universal, Severity: model.SeverityMajor, Tier: check.TierAsync}
}

func (c sslExpiryCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	hosts := httpsHosts(rc, c.MaxURLs)
	if len(hosts) == 0 {
		return check.Result(model.CheckStatusSkipped, "No HTTPS URLs to check for SSL expiry")
	}

	var valid []CertInfo
	for _, info := range probeCerts(ctx, c.Prober, hosts) {
		if info.State == CertValid {
			valid = append(valid, info)
		}
	}
	if len(valid) == 0 {
		return check.Result(model.CheckStatusSkipped, "Could not retrieve cert info for expiry check")
	}

	var expiring, soon []string
	for _, info := range valid {
		item := fmt.Sprintf("%s: expires %s (%d days)", info.Host, info.Expiry.Format("2006-01-02"), info.DaysLeft)
		switch {
		case info.DaysLeft <= certFailDays:
			expiring = append(expiring, item)
		case info.DaysLeft <= certWarnDays:
			soon = append(soon, item)
		}
	}
	if len(expiring) > 0 {
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d SSL certificate(s) expire in %d days or less, ads will break", len(expiring), certFailDays))
		r.Recommendation = "Renew the SSL certificate immediately to avoid campaign disruption"
		r.AffectedItems = expiring
		return r
	}
	if len(soon) > 0 {
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d SSL certificate(s) expire within %d days", len(soon), certWarnDays))
		r.Recommendation = "Schedule SSL certificate renewal to avoid landing page errors during the campaign"
		r.AffectedItems = soon
		return r
	}
	r := check.Result(model.CheckStatusPassed, fmt.Sprintf("All SSL certificates valid for more than %d days", certWarnDays))
	r.Metadata = map[string]any{"domains": certMetadata(valid)}
	return r
}
