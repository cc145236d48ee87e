package tier2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgHttp "campaignqa-srv/pkg/http"
)

const (
	defaultVirusTotalURL = "https://www.virustotal.com/api/v3"
	virusTotalPace       = 300 * time.Millisecond
)

// DomainReport is the VirusTotal verdict for one domain. Err is set when the lookup failed.
type DomainReport struct {
	Domain     string `json:"domain"`
	Malicious  int    `json:"malicious"`
	Suspicious int    `json:"suspicious"`
	Harmless   int    `json:"harmless"`
	Status     string `json:"status,omitempty"`
	Err        string `json:"error,omitempty"`
}

//go:generate mockery --name DomainScanner
type DomainScanner interface {
	Lookup(ctx context.Context, domain string) DomainReport
	// Pace is the minimum gap between two lookups.
	Pace() time.Duration
}

type virusTotal struct {
	client  pkgHttp.IClient
	baseURL string
	apiKey  string
	pace    time.Duration
}

// NewVirusTotal returns nil when apiKey is empty; the domain safety check then reports skipped.
func NewVirusTotal(client pkgHttp.IClient, baseURL, apiKey string) DomainScanner {
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = defaultVirusTotalURL
	}
	return &virusTotal{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, pace: virusTotalPace}
}

type vtDomainResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
				Harmless   int `json:"harmless"`
			} `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

func (v *virusTotal) Lookup(ctx context.Context, domain string) DomainReport {
	rep := DomainReport{Domain: domain}
	body, status, err := v.client.Get(ctx, v.baseURL+"/domains/"+domain, map[string]string{"x-apikey": v.apiKey})
	if err != nil {
		rep.Err = err.Error()
		return rep
	}
	switch {
	case status == http.StatusNotFound:
		rep.Status = "unknown"
		return rep
	case status == http.StatusTooManyRequests:
		rep.Err = "rate_limited"
		return rep
	case status >= 400:
		rep.Err = fmt.Sprintf("HTTP %d", status)
		return rep
	}

	var out vtDomainResponse
	if err := json.Unmarshal(body, &out); err != nil {
		rep.Err = fmt.Sprintf("decode response: %v", err)
		return rep
	}
	stats := out.Data.Attributes.LastAnalysisStats
	rep.Malicious = stats.Malicious
	rep.Suspicious = stats.Suspicious
	rep.Harmless = stats.Harmless
	rep.Status = "ok"
	return rep
}

func (v *virusTotal) Pace() time.Duration {
	return v.pace
}
