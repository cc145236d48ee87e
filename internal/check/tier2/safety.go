package tier2

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

type domainSafetyCheck struct{ Deps }

func (domainSafetyCheck) Definition() check.Definition {
	return check.Definition{ID: "virustotal_domain_safety", Name: "Domain Safety Check (VirusTotal)",
		Category: model.CategoryURL, Platforms: universal, Severity: model.SeverityCritical, Tier: check.TierAsync}
}

func (c domainSafetyCheck) Execute(ctx context.Context, rc *check.RunContext) model.CheckResult {
	if c.VirusTotal == nil {
		return check.Result(model.CheckStatusSkipped, "Domain safety check skipped, VirusTotal API key not configured")
	}

	var domains []string
	seen := map[string]struct{}{}
	for _, u := range rc.URLs {
		if !u.Usable() {
			continue
		}
		d, _ := splitHost(u.Parsed.Host)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
		if len(domains) == c.MaxURLs {
			break
		}
	}
	if len(domains) == 0 {
		return check.Result(model.CheckStatusSkipped, "No domains to check")
	}

	// Lookups are sequential and paced for the public API quota.
	reports := make([]DomainReport, 0, len(domains))
	for i, d := range domains {
		if i > 0 {
			select {
			case <-ctx.Done():
				return check.Result(model.CheckStatusError, fmt.Sprintf("VirusTotal lookup interrupted: %v", ctx.Err()))
			case <-time.After(c.VirusTotal.Pace()):
			}
		}
		reports = append(reports, c.VirusTotal.Lookup(ctx, d))
	}

	var flagged, suspicious, errs []string
	for _, rep := range reports {
		switch {
		case rep.Err != "":
			errs = append(errs, fmt.Sprintf("%s: %s", rep.Domain, rep.Err))
		case rep.Malicious > 0:
			flagged = append(flagged, fmt.Sprintf("%s (%d malicious, %d suspicious detections)",
				rep.Domain, rep.Malicious, rep.Suspicious))
		case rep.Suspicious > 2:
			suspicious = append(suspicious, fmt.Sprintf("%s (%d suspicious)", rep.Domain, rep.Suspicious))
		}
	}

	switch {
	case len(flagged) > 0:
		r := check.Result(model.CheckStatusFailed,
			fmt.Sprintf("%d domain(s) flagged as malicious by VirusTotal, do NOT launch", len(flagged)))
		r.Recommendation = "These domains are flagged by multiple antivirus engines. " +
			"Verify your destination URLs are correct and have not been compromised."
		r.AffectedItems = flagged
		r.Metadata = map[string]any{"results": reports}
		return r
	case len(suspicious) > 0:
		r := check.Result(model.CheckStatusWarning,
			fmt.Sprintf("%d domain(s) have suspicious detections on VirusTotal", len(suspicious)))
		r.Recommendation = "Review these domains, they have suspicious (but not confirmed malicious) signals."
		r.AffectedItems = suspicious
		r.Metadata = map[string]any{"results": reports}
		return r
	case len(errs) == len(reports):
		r := check.Result(model.CheckStatusError, "VirusTotal API returned errors for all domains")
		r.Metadata = map[string]any{"errors": errs}
		return r
	}
	r := check.Result(model.CheckStatusPassed,
		fmt.Sprintf("All %d domain(s) are clean according to VirusTotal", len(reports)-len(errs)))
	r.Metadata = map[string]any{"results": reports}
	if len(errs) > 0 {
		r.Message += fmt.Sprintf(" (%d lookup(s) failed: %s)", len(errs), strings.Join(errs, "; "))
	}
	return r
}
