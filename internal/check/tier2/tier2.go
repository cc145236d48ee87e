// Package tier2 holds the network-bound checks. They load landing pages, probe TLS and call
// VirusTotal, so the executor runs them in the background under a per-check deadline.
package tier2

import (
	"context"
	"net/http"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultMaxURLs   = 10
	fetchConcurrency = 4
)

var (
	universal = []model.Platform{model.PlatformUniversal}
	paid      = []model.Platform{model.PlatformMeta, model.PlatformGoogle, model.PlatformTikTok, model.PlatformLinkedIn}
)

// Deps are the network clients shared by every Tier 2 check. VirusTotal may be nil.
type Deps struct {
	Fetcher    Fetcher
	Prober     CertProber
	VirusTotal DomainScanner
	// MaxURLs caps how many URLs one check inspects.
	MaxURLs int
}

// Checks returns every Tier 2 check in registry order.
func Checks(d Deps) []check.Check {
	if d.MaxURLs <= 0 {
		d.MaxURLs = defaultMaxURLs
	}
	return []check.Check{
		sslValidCheck{d},
		sslExpiryCheck{d},
		reachableCheck{d},
		redirectDepthCheck{d},
		utmRedirectCheck{d},
		securityHeadersCheck{d},
		canonicalCheck{d},
		cookieConsentCheck{d},
		titleCheck{d},
		noindexCheck{d},
		viewportCheck{d},
		ogTagsCheck{d},
		loadTimeCheck{d},
		mobileReadinessCheck{d},
		privacyPolicyCheck{d},
		prohibitedClaimsCheck{d},
		domainSafetyCheck{d},
		pixelPresentCheck{d},
		gtmCheck{d},
		conversionEventCheck{d},
	}
}

var titleCaser = cases.Title(language.English)

// displayPlatform renders a platform for messages, e.g. "Tiktok".
func displayPlatform(p model.Platform) string {
	return titleCaser.String(string(p))
}

type targetMode int

const (
	byURL targetMode = iota
	byHost
)

// targets picks the http(s) URLs a check inspects, deduplicated by raw URL or by host.
func targets(rc *check.RunContext, mode targetMode, httpsOnly bool, limit int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, u := range rc.URLs {
		if !u.Usable() {
			continue
		}
		scheme := strings.ToLower(u.Parsed.Scheme)
		if scheme != "https" && (httpsOnly || scheme != "http") {
			continue
		}
		key := u.RawURL
		if mode == byHost {
			key = strings.ToLower(u.Parsed.Host)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u.RawURL)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// page is one fetched landing page. Err is set when the request itself failed.
type page struct {
	url  string
	resp *Response
	err  error
	doc  document
}

// fetched reports whether the page returned some HTML, whatever the status.
func (p page) fetched() bool {
	return p.err == nil && len(p.resp.Body) > 0
}

// loaded is fetched with a non-error status.
func (p page) loaded() bool {
	return p.fetched() && p.resp.StatusCode < 400
}

// fetchPages GETs urls concurrently and keeps the input order.
func fetchPages(ctx context.Context, f Fetcher, urls []string) []page {
	pages := make([]page, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			resp, err := f.Fetch(gctx, http.MethodGet, u)
			p := page{url: u, resp: resp, err: err}
			if p.fetched() {
				p.doc = parseDocument(resp.Body)
			}
			pages[i] = p
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func splitLoaded(pages []page) (loaded []page, failed []page) {
	return split(pages, page.loaded)
}

func splitFetched(pages []page) (fetched []page, failed []page) {
	return split(pages, page.fetched)
}

func split(pages []page, ok func(page) bool) (in []page, out []page) {
	for _, p := range pages {
		if ok(p) {
			in = append(in, p)
		} else {
			out = append(out, p)
		}
	}
	return in, out
}

func urlsOf(pages []page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.url
	}
	return out
}

// probe issues a HEAD and retries with GET when the server does not support HEAD.
func probe(ctx context.Context, f Fetcher, rawURL string) (*Response, error) {
	resp, err := f.Fetch(ctx, http.MethodHead, rawURL)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		return f.Fetch(ctx, http.MethodGet, rawURL)
	}
	return resp, err
}

type probeResult struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Redirects  int    `json:"redirect_count"`
	FinalURL   string `json:"final_url"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// probeAll HEADs every URL concurrently. Unparseable entries come back as failed probes.
func probeAll(ctx context.Context, f Fetcher, urls []model.CampaignURL) []probeResult {
	out := make([]probeResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			r := probeResult{URL: u.RawURL, FinalURL: u.RawURL}
			if !u.Usable() {
				r.Error = "invalid URL"
				out[i] = r
				return nil
			}
			resp, err := probe(gctx, f, u.RawURL)
			if err != nil {
				r.Error = err.Error()
				out[i] = r
				return nil
			}
			r.StatusCode = resp.StatusCode
			r.Redirects = resp.Redirects
			r.FinalURL = resp.FinalURL
			r.ElapsedMS = resp.Elapsed.Milliseconds()
			r.OK = resp.OK()
			out[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// uniqueURLs drops repeated raw URLs and caps the list.
func uniqueURLs(rc *check.RunContext, limit int) []model.CampaignURL {
	seen := map[string]struct{}{}
	var out []model.CampaignURL
	for _, u := range rc.URLs {
		if _, ok := seen[u.RawURL]; ok {
			continue
		}
		seen[u.RawURL] = struct{}{}
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
