package tier2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultFetchTimeout = 8 * time.Second
	defaultMaxBodyBytes = 150_000
	defaultUserAgent    = "CampaignQA/1.0 (pre-launch campaign checker)"
	maxRedirects        = 10
)

// Response is the outcome of one landing page request after redirects were followed.
// Values are shared between callers and must be treated as read-only.
type Response struct {
	URL        string
	FinalURL   string
	StatusCode int
	Redirects  int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// OK reports a 2xx or 3xx final status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

//go:generate mockery --name Fetcher
type Fetcher interface {
	Fetch(ctx context.Context, method, rawURL string) (*Response, error)
}

type FetcherConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// Transport overrides the default transport, mostly for tests.
	Transport http.RoundTripper
}

type httpFetcher struct {
	cfg   FetcherConfig
	group singleflight.Group
}

// NewFetcher returns a Fetcher that follows redirects and caps bodies. Identical requests that
// are in flight at the same time share one round trip, since several checks load the same pages.
func NewFetcher(cfg FetcherConfig) Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &httpFetcher{cfg: cfg}
}

// Fetch joins an identical in-flight request when there is one. The shared round trip is detached
// from the callers' contexts and bounded by the fetch timeout; each caller stops waiting on its own ctx.
func (f *httpFetcher) Fetch(ctx context.Context, method, rawURL string) (*Response, error) {
	ch := f.group.DoChan(method+" "+rawURL, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.Timeout)
		defer cancel()
		return f.do(fctx, method, rawURL)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *httpFetcher) do(ctx context.Context, method, rawURL string) (*Response, error) {
	hops := 0
	client := &http.Client{
		Transport: f.cfg.Transport,
		Timeout:   f.cfg.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			hops = len(via)
			if hops >= maxRedirects {
				// Report the redirect we stopped at instead of failing the whole request.
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body []byte
	if method != http.MethodHead {
		body, err = io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	}

	return &Response{
		URL:        rawURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Redirects:  hops,
		Header:     resp.Header,
		Body:       body,
		Elapsed:    time.Since(start),
	}, nil
}
