// Package normalizer turns raw run input into the context checks consume.
package normalizer

import (
	"errors"
	"net/url"
	"strings"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

var (
	ErrNoURLs      = errors.New("at least one URL is required")
	ErrNoUsableURL = errors.New("no submitted URL could be parsed into a scheme and host")
)

// URLEntry is one submitted URL with its optional labels.
type URLEntry struct {
	URL          string
	AdName       string
	AdSetName    string
	CampaignName string
}

type Input struct {
	RunID    string
	UserID   string
	Platform model.Platform
	URLs     []URLEntry

	CampaignName      string
	CampaignObjective string
	IndustryVertical  string
	Headline          string
	PrimaryText       string
	Description       string
	Extra             map[string]string
}

// Normalize parses every URL and builds the run context. A URL that fails to parse is kept
// with its error attached; only a batch with no usable URL at all is rejected.
func Normalize(in Input) (*check.RunContext, error) {
	if len(in.URLs) == 0 {
		return nil, ErrNoURLs
	}

	urls := make([]model.CampaignURL, len(in.URLs))
	usable := 0
	for i, e := range in.URLs {
		urls[i] = ParseURL(in.RunID, i, e)
		if urls[i].Usable() {
			usable++
		}
	}

	extra := make(map[string]string, len(in.Extra))
	for k, v := range in.Extra {
		extra[k] = v
	}

	rc := &check.RunContext{
		RunID:             in.RunID,
		UserID:            in.UserID,
		Platform:          in.Platform,
		URLs:              urls,
		CampaignName:      strings.TrimSpace(in.CampaignName),
		CampaignObjective: strings.TrimSpace(in.CampaignObjective),
		IndustryVertical:  strings.TrimSpace(in.IndustryVertical),
		Headline:          in.Headline,
		PrimaryText:       in.PrimaryText,
		Description:       in.Description,
		Extra:             extra,
	}
	if usable == 0 {
		return rc, ErrNoUsableURL
	}
	return rc, nil
}

// ParseURL parses a single entry. Query keys are case-sensitive and the first value of a
// repeated key wins.
func ParseURL(runID string, position int, e URLEntry) model.CampaignURL {
	raw := strings.TrimSpace(e.URL)
	cu := model.CampaignURL{
		RunID:        runID,
		Position:     position,
		RawURL:       raw,
		AdName:       e.AdName,
		AdSetName:    e.AdSetName,
		CampaignName: e.CampaignName,
		Parsed:       model.ParsedURL{Params: map[string]string{}},
	}

	u, err := url.Parse(raw)
	if err != nil {
		cu.ParseError = err.Error()
		return cu
	}

	// ParseQuery still returns what it could decode alongside an error.
	values, _ := url.ParseQuery(u.RawQuery)
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	cu.Parsed = model.ParsedURL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path,
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
		Params:   params,
		UTM: model.UTMFields{
			Source:   params["utm_source"],
			Medium:   params["utm_medium"],
			Campaign: params["utm_campaign"],
			Content:  params["utm_content"],
			Term:     params["utm_term"],
		},
	}
	if cu.Parsed.Scheme == "" || cu.Parsed.Host == "" {
		cu.ParseError = "missing scheme or host"
	}
	return cu
}
