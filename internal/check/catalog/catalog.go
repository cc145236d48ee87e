// Package catalog assembles the fixed check registry from both tiers.
package catalog

import (
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/check/tier1"
	"campaignqa-srv/internal/check/tier2"
	pkgHttp "campaignqa-srv/pkg/http"
)

type Config struct {
	UserAgent    string
	FetchTimeout time.Duration
	// MaxURLs caps how many URLs a network check inspects.
	MaxURLs int

	VirusTotalAPIKey  string
	VirusTotalBaseURL string
}

// New builds the registry: every Tier 1 check followed by every Tier 2 check. A duplicate id
// surfaces as check.ErrDuplicateCheck.
func New(cfg Config) (*check.Registry, error) {
	vtClient := pkgHttp.DefaultConfig()
	vtClient.UserAgent = cfg.UserAgent

	deps := tier2.Deps{
		Fetcher:    tier2.NewFetcher(tier2.FetcherConfig{UserAgent: cfg.UserAgent, Timeout: cfg.FetchTimeout}),
		Prober:     tier2.NewProber(tier2.ProberConfig{DialTimeout: cfg.FetchTimeout}),
		VirusTotal: tier2.NewVirusTotal(pkgHttp.NewClient(vtClient), cfg.VirusTotalBaseURL, cfg.VirusTotalAPIKey),
		MaxURLs:    cfg.MaxURLs,
	}
	return check.NewRegistry(append(tier1.Checks(), tier2.Checks(deps)...)...)
}
