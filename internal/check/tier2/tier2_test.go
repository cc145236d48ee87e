package tier2

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/normalizer"
	pkgHttp "campaignqa-srv/pkg/http"
)

const goodPage = `<!doctype html><html><head>
<title>Spring Sale | Acme</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta property="og:title" content="Spring Sale">
<meta property="og:image" content="https://acme.test/og.png">
<meta property="og:description" content="Save on everything">
<link rel="canonical" href="https://acme.test/spring">
<script src="https://www.googletagmanager.com/gtm.js?id=GTM-ABC123"></script>
<script>fbq('init', '123'); fbq('track', 'Lead');</script>
</head><body><div id="onetrust-banner">Cookie settings</div><a href="/privacy">Privacy Policy</a></body></html>`

const badPage = `<html><head><title>Coming Soon</title>
<meta name="robots" content="NOINDEX, nofollow"></head>
<body>Lose 10 lbs in a week with our plan</body></html>`

func newRC(t *testing.T, platform model.Platform, urls ...string) *check.RunContext {
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

func pageServer(t *testing.T, body string, secure bool) (*httptest.Server, Deps) {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secure {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	return srv, Deps{
		Fetcher: NewFetcher(FetcherConfig{Transport: srv.Client().Transport, Timeout: 2 * time.Second}),
		Prober:  NewProber(ProberConfig{DialTimeout: 2 * time.Second, RootCAs: pool}),
		MaxURLs: defaultMaxURLs,
	}
}

func byID(d Deps) map[string]check.Check {
	out := map[string]check.Check{}
	for _, c := range Checks(d) {
		out[c.Definition().ID] = c
	}
	return out
}

func TestChecksRegister(t *testing.T) {
	reg, err := check.NewRegistry(Checks(Deps{})...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if reg.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", reg.Len())
	}
	if got := len(reg.ChecksFor(model.PlatformGoogle, check.TierAsync)); got != 20 {
		t.Errorf("google tier 2 checks = %d, want 20", got)
	}
	if got := len(reg.ChecksFor(model.PlatformMulti, check.TierAsync)); got != 18 {
		t.Errorf("multi tier 2 checks = %d, want 18 (no paid-only checks)", got)
	}
}

func TestChecksOnHealthyPage(t *testing.T) {
	srv, deps := pageServer(t, goodPage, true)
	checks := byID(deps)
	rc := newRC(t, model.PlatformMeta, srv.URL+"/spring?utm_source=facebook")
	rc.CampaignObjective = "Lead Gen"

	for _, id := range []string{
		"ssl_cert_valid", "ssl_cert_expiry", "url_reachable", "url_redirect_depth", "utm_preserved_through_redirect",
		"security_headers", "canonical_tag", "cookie_consent", "landing_page_title", "landing_page_not_noindex",
		"landing_page_viewport_meta", "og_tags_present", "page_load_time", "mobile_readiness",
		"privacy_policy_present", "prohibited_claims", "pixel_platform_present", "gtm_present", "pixel_conversion_event",
	} {
		t.Run(id, func(t *testing.T) {
			res := check.Run(context.Background(), checks[id], rc)
			if res.Status != model.CheckStatusPassed {
				t.Errorf("Status = %s, want passed (%s %v)", res.Status, res.Message, res.AffectedItems)
			}
		})
	}
}

func TestChecksOnBrokenPage(t *testing.T) {
	srv, deps := pageServer(t, badPage, false)
	checks := byID(deps)
	rc := newRC(t, model.PlatformMeta, srv.URL+"/")
	rc.Headline = "Guaranteed results"

	tests := map[string]model.CheckStatus{
		"security_headers":           model.CheckStatusWarning,
		"canonical_tag":              model.CheckStatusWarning,
		"cookie_consent":             model.CheckStatusWarning,
		"landing_page_title":         model.CheckStatusFailed,
		"landing_page_not_noindex":   model.CheckStatusFailed,
		"landing_page_viewport_meta": model.CheckStatusWarning,
		"og_tags_present":            model.CheckStatusWarning,
		"mobile_readiness":           model.CheckStatusFailed,
		"privacy_policy_present":     model.CheckStatusFailed,
		"prohibited_claims":          model.CheckStatusWarning,
		"pixel_platform_present":     model.CheckStatusFailed,
		"gtm_present":                model.CheckStatusWarning,
		"pixel_conversion_event":     model.CheckStatusSkipped,
	}
	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			res := check.Run(context.Background(), checks[id], rc)
			if res.Status != want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, want, res.Message)
			}
		})
	}

	t.Run("prohibited claims lists copy and page", func(t *testing.T) {
		res := check.Run(context.Background(), checks["prohibited_claims"], rc)
		if len(res.AffectedItems) != 2 {
			t.Fatalf("AffectedItems = %v, want 2", res.AffectedItems)
		}
		if !strings.HasPrefix(res.AffectedItems[0], "Ad copy: contains 'Guaranteed'") {
			t.Errorf("first item = %q", res.AffectedItems[0])
		}
	})
}

func TestChecksOnUnreachablePage(t *testing.T) {
	srv, deps := pageServer(t, goodPage, true)
	target := srv.URL + "/"
	srv.Close()
	checks := byID(deps)
	rc := newRC(t, model.PlatformMeta, target)

	tests := map[string]model.CheckStatus{
		"ssl_cert_valid":           model.CheckStatusSkipped,
		"url_reachable":            model.CheckStatusFailed,
		"security_headers":         model.CheckStatusError,
		"landing_page_title":       model.CheckStatusError,
		"landing_page_not_noindex": model.CheckStatusSkipped,
		"page_load_time":           model.CheckStatusError,
		"mobile_readiness":         model.CheckStatusError,
		"privacy_policy_present":   model.CheckStatusSkipped,
		"prohibited_claims":        model.CheckStatusPassed,
		"pixel_platform_present":   model.CheckStatusError,
	}
	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			res := check.Run(context.Background(), checks[id], rc)
			if res.Status != want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, want, res.Message)
			}
		})
	}
}

func TestRedirectChecks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/r/"))
		if n == 0 {
			http.Redirect(w, r, "/landing", http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/r/%d?%s", n-1, r.URL.RawQuery), http.StatusFound)
	})
	mux.HandleFunc("/keep", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landing?"+r.URL.RawQuery, http.StatusMovedPermanently)
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, goodPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	checks := byID(Deps{Fetcher: NewFetcher(FetcherConfig{}), MaxURLs: defaultMaxURLs})
	rc := newRC(t, model.PlatformGoogle, srv.URL+"/r/5?utm_source=google", srv.URL+"/keep?utm_source=google")

	t.Run("depth", func(t *testing.T) {
		res := check.Run(context.Background(), checks["url_redirect_depth"], rc)
		if res.Status != model.CheckStatusWarning || len(res.AffectedItems) != 1 {
			t.Fatalf("got %s %v, want one warning", res.Status, res.AffectedItems)
		}
		if !strings.Contains(res.AffectedItems[0], "(6 redirects -> ") {
			t.Errorf("item = %q", res.AffectedItems[0])
		}
	})

	t.Run("utm stripped", func(t *testing.T) {
		res := check.Run(context.Background(), checks["utm_preserved_through_redirect"], rc)
		if res.Status != model.CheckStatusFailed || len(res.AffectedItems) != 1 {
			t.Fatalf("got %s %v, want one failure", res.Status, res.AffectedItems)
		}
		if !strings.HasPrefix(res.AffectedItems[0], srv.URL+"/r/5") {
			t.Errorf("item = %q", res.AffectedItems[0])
		}
	})

	t.Run("reachable after redirects", func(t *testing.T) {
		res := check.Run(context.Background(), checks["url_reachable"], rc)
		if res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s (%v)", res.Status, res.AffectedItems)
		}
	})

	t.Run("no utm skips", func(t *testing.T) {
		res := check.Run(context.Background(), checks["utm_preserved_through_redirect"], newRC(t, model.PlatformGoogle, srv.URL+"/keep"))
		if res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s", res.Status)
		}
	})
}

func TestSSLProbe(t *testing.T) {
	srv, deps := pageServer(t, goodPage, true)
	host := srv.Listener.Addr().String()

	t.Run("trusted", func(t *testing.T) {
		info := deps.Prober.Probe(context.Background(), host)
		if info.State != CertValid || info.DaysLeft < certWarnDays {
			t.Fatalf("Probe() = %+v", info)
		}
	})

	t.Run("untrusted", func(t *testing.T) {
		p := NewProber(ProberConfig{DialTimeout: time.Second, RootCAs: x509.NewCertPool()})
		info := p.Probe(context.Background(), host)
		if info.State != CertInvalid || !strings.HasPrefix(info.Err, "Invalid cert:") {
			t.Fatalf("Probe() = %+v", info)
		}
		res := check.Run(context.Background(), sslValidCheck{Deps{Prober: p, MaxURLs: 10}}, newRC(t, model.PlatformMeta, srv.URL))
		if res.Status != model.CheckStatusFailed {
			t.Errorf("Status = %s", res.Status)
		}
	})
}

type fakeProber map[string]CertInfo

func (f fakeProber) Probe(_ context.Context, host string) CertInfo {
	return f[host]
}

func TestSSLExpiry(t *testing.T) {
	expiry := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		days int
		want model.CheckStatus
	}{
		{"expiring", 5, model.CheckStatusFailed},
		{"boundary fail", 7, model.CheckStatusFailed},
		{"soon", 20, model.CheckStatusWarning},
		{"healthy", 90, model.CheckStatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fakeProber{"a.com": {Host: "a.com", State: CertValid, Expiry: expiry, DaysLeft: tt.days}}
			res := check.Run(context.Background(), sslExpiryCheck{Deps{Prober: p, MaxURLs: 10}}, newRC(t, model.PlatformMeta, "https://a.com/"))
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}

	t.Run("http only skips", func(t *testing.T) {
		res := check.Run(context.Background(), sslExpiryCheck{Deps{Prober: fakeProber{}, MaxURLs: 10}}, newRC(t, model.PlatformMeta, "http://a.com/"))
		if res.Status != model.CheckStatusSkipped {
			t.Errorf("Status = %s", res.Status)
		}
	})
}

type fakeFetcher map[string]*Response

func (f fakeFetcher) Fetch(_ context.Context, _ string, rawURL string) (*Response, error) {
	if r, ok := f[rawURL]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("dial tcp: connection refused")
}

func TestPageLoadTime(t *testing.T) {
	timed := func(d time.Duration) *Response {
		return &Response{StatusCode: 200, Body: []byte(goodPage), Elapsed: d}
	}
	tests := []struct {
		name string
		f    fakeFetcher
		want model.CheckStatus
	}{
		{"fast", fakeFetcher{"https://a.com/": timed(300 * time.Millisecond)}, model.CheckStatusPassed},
		{"slowish", fakeFetcher{"https://a.com/": timed(2500 * time.Millisecond)}, model.CheckStatusWarning},
		{"slow", fakeFetcher{"https://a.com/": timed(4 * time.Second)}, model.CheckStatusFailed},
		{"unreachable", fakeFetcher{}, model.CheckStatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := check.Run(context.Background(), loadTimeCheck{Deps{Fetcher: tt.f, MaxURLs: 10}}, newRC(t, model.PlatformMeta, "https://a.com/"))
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestPixelFallsBackToGTM(t *testing.T) {
	f := fakeFetcher{"https://a.com/": {StatusCode: 200, Body: []byte(`<script>(function(){/* GTM-XYZ */})()</script>`)}}
	rc := newRC(t, model.PlatformTikTok, "https://a.com/")
	rc.CampaignObjective = "retargeting"

	res := check.Run(context.Background(), pixelPresentCheck{Deps{Fetcher: f, MaxURLs: 10}}, rc)
	if res.Status != model.CheckStatusWarning || !strings.HasPrefix(res.Message, "Tiktok pixel not found") {
		t.Errorf("pixel = %s %q", res.Status, res.Message)
	}
	res = check.Run(context.Background(), conversionEventCheck{Deps{Fetcher: f, MaxURLs: 10}}, rc)
	if res.Status != model.CheckStatusWarning {
		t.Errorf("conversion = %s %q", res.Status, res.Message)
	}
}

type fakeScanner map[string]DomainReport

func (f fakeScanner) Lookup(_ context.Context, domain string) DomainReport {
	if r, ok := f[domain]; ok {
		r.Domain = domain
		return r
	}
	return DomainReport{Domain: domain, Err: "rate_limited"}
}

func (fakeScanner) Pace() time.Duration { return 0 }

func TestDomainSafety(t *testing.T) {
	tests := []struct {
		name    string
		scanner DomainScanner
		want    model.CheckStatus
	}{
		{"no key", nil, model.CheckStatusSkipped},
		{"clean", fakeScanner{"a.com": {Status: "ok", Harmless: 70}, "b.com": {Status: "unknown"}}, model.CheckStatusPassed},
		{"malicious", fakeScanner{"a.com": {Malicious: 2}, "b.com": {Status: "ok"}}, model.CheckStatusFailed},
		{"suspicious", fakeScanner{"a.com": {Suspicious: 3}, "b.com": {Status: "ok"}}, model.CheckStatusWarning},
		{"all errors", fakeScanner{}, model.CheckStatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domainSafetyCheck{Deps{VirusTotal: tt.scanner, MaxURLs: 10}}
			res := check.Run(context.Background(), c, newRC(t, model.PlatformMeta, "https://a.com/x", "https://B.com:8443/y", "https://a.com/z"))
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestVirusTotalLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-apikey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/domains/new.com":
			w.WriteHeader(http.StatusNotFound)
		case "/domains/busy.com":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, `{"data":{"attributes":{"last_analysis_stats":{"malicious":1,"suspicious":4,"harmless":60}}}}`)
		}
	}))
	defer srv.Close()

	if NewVirusTotal(nil, srv.URL, "") != nil {
		t.Fatal("NewVirusTotal() without key should be nil")
	}
	vt := NewVirusTotal(pkgHttp.NewClient(pkgHttp.ClientConfig{Timeout: time.Second}), srv.URL+"/", "secret")

	if got := vt.Lookup(context.Background(), "evil.com"); got.Malicious != 1 || got.Suspicious != 4 || got.Status != "ok" {
		t.Errorf("evil.com = %+v", got)
	}
	if got := vt.Lookup(context.Background(), "new.com"); got.Status != "unknown" || got.Err != "" {
		t.Errorf("new.com = %+v", got)
	}
	if got := vt.Lookup(context.Background(), "busy.com"); got.Err != "rate_limited" {
		t.Errorf("busy.com = %+v", got)
	}
}

func TestParseDocument(t *testing.T) {
	doc := parseDocument([]byte(`<html><head><title> Hello &amp; welcome </title>
<META NAME="Robots" content="index, follow"><link rel="alternate canonical" href="/x">
<meta property="og:title" content="   "></head><body><svg><title>icon</title></svg></body></html>`))

	if doc.title != "Hello & welcome" {
		t.Errorf("title = %q", doc.title)
	}
	if doc.noindex() {
		t.Error("noindex() = true")
	}
	if !doc.hasCanonical() {
		t.Error("hasCanonical() = false")
	}
	if doc.ogContent("og:title") != "" {
		t.Error("blank og:title should not count")
	}
	if doc.hasViewport() {
		t.Error("hasViewport() = true")
	}
}

func TestFetcherRedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", n+1), http.StatusFound)
	}))
	defer srv.Close()

	deps := Deps{Fetcher: NewFetcher(FetcherConfig{}), MaxURLs: defaultMaxURLs}
	target := srv.URL + "/hop/0"

	t.Run("last response reported", func(t *testing.T) {
		resp, err := deps.Fetcher.Fetch(context.Background(), http.MethodGet, target)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if resp.StatusCode != http.StatusFound || resp.Redirects != maxRedirects {
			t.Errorf("got status %d after %d redirects, want %d after %d", resp.StatusCode, resp.Redirects, http.StatusFound, maxRedirects)
		}
		if !strings.HasSuffix(resp.FinalURL, "/hop/9") {
			t.Errorf("FinalURL = %q", resp.FinalURL)
		}
	})

	checks := byID(deps)
	rc := newRC(t, model.PlatformGoogle, target)

	t.Run("reachable is not a timeout", func(t *testing.T) {
		res := check.Run(context.Background(), checks["url_reachable"], rc)
		if res.Status != model.CheckStatusPassed {
			t.Errorf("Status = %s (%v)", res.Status, res.AffectedItems)
		}
	})

	t.Run("depth counted", func(t *testing.T) {
		res := check.Run(context.Background(), checks["url_redirect_depth"], rc)
		if res.Status != model.CheckStatusWarning || len(res.AffectedItems) != 1 {
			t.Fatalf("got %s %v, want one warning", res.Status, res.AffectedItems)
		}
		if !strings.Contains(res.AffectedItems[0], fmt.Sprintf("(%d redirects -> ", maxRedirects)) {
			t.Errorf("item = %q", res.AffectedItems[0])
		}
	})
}

func TestFetcherSharedFlight(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, goodPage)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{Timeout: 2 * time.Second})

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	shortErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(short, http.MethodGet, srv.URL)
		shortErr <- err
	}()
	time.Sleep(10 * time.Millisecond)

	resp, err := f.Fetch(context.Background(), http.MethodGet, srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want the shared request to outlive the short deadline", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if err := <-shortErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("short caller error = %v, want deadline exceeded", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}
