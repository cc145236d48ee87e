package http

import (
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/comparator"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/scorer"
	"campaignqa-srv/pkg/paginator"
)

// Requests

type urlReq struct {
	URL          string `json:"url"`
	AdName       string `json:"ad_name,omitempty"`
	AdSetName    string `json:"ad_set_name,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
}

type submitRunReq struct {
	RunName           string            `json:"run_name"`
	Platform          string            `json:"platform"`
	InputMethod       string            `json:"input_method,omitempty"`
	URLs              []urlReq          `json:"urls"`
	CampaignName      string            `json:"campaign_name,omitempty"`
	CampaignObjective string            `json:"campaign_objective,omitempty"`
	IndustryVertical  string            `json:"industry_vertical,omitempty"`
	Headline          string            `json:"headline,omitempty"`
	PrimaryText       string            `json:"primary_text,omitempty"`
	Description       string            `json:"description,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
}

func (r submitRunReq) toInput() run.SubmitInput {
	urls := make([]run.URLInput, len(r.URLs))
	for i, u := range r.URLs {
		urls[i] = run.URLInput{
			URL:          u.URL,
			AdName:       u.AdName,
			AdSetName:    u.AdSetName,
			CampaignName: u.CampaignName,
		}
	}
	return run.SubmitInput{
		RunName:           r.RunName,
		Platform:          model.Platform(r.Platform),
		InputMethod:       model.InputMethod(r.InputMethod),
		URLs:              urls,
		CampaignName:      r.CampaignName,
		CampaignObjective: r.CampaignObjective,
		IndustryVertical:  r.IndustryVertical,
		Headline:          r.Headline,
		PrimaryText:       r.PrimaryText,
		Description:       r.Description,
		Extra:             r.Extra,
	}
}

// internalSubmitReq is a submission made by another service on behalf of a user.
type internalSubmitReq struct {
	UserID string `json:"user_id"`
	submitRunReq
}

type runReq struct {
	RunID string
}

func (r runReq) toInput() run.GetRunInput {
	return run.GetRunInput{RunID: r.RunID}
}

type listRunsReq struct {
	Page  int   `form:"page"`
	Limit int64 `form:"limit"`
}

func (r listRunsReq) toInput() run.ListInput {
	return run.ListInput{
		Paginate: paginator.PaginateQuery{Page: r.Page, Limit: r.Limit},
	}
}

type compareReq struct {
	RunA string `form:"a"`
	RunB string `form:"b"`
}

func (r compareReq) toInput() run.CompareInput {
	return run.CompareInput{RunA: r.RunA, RunB: r.RunB}
}

type shareReq struct {
	RunID    string `json:"-"`
	IsPublic *bool  `json:"is_public"`
}

func (r shareReq) toInput() run.ShareInput {
	return run.ShareInput{RunID: r.RunID, IsPublic: *r.IsPublic}
}

type sharedReq struct {
	Token string
}

func (r sharedReq) toInput() run.SharedInput {
	return run.SharedInput{Token: r.Token}
}

type benchmarkReq struct {
	Platform         string `form:"platform"`
	IndustryVertical string `form:"industry_vertical"`
}

func (r benchmarkReq) toInput() run.BenchmarkInput {
	return run.BenchmarkInput{
		Platform:         model.Platform(r.Platform),
		IndustryVertical: r.IndustryVertical,
	}
}

// Responses

type runResp struct {
	ID                string     `json:"run_id"`
	Name              string     `json:"run_name"`
	Platform          string     `json:"platform"`
	InputMethod       string     `json:"input_method"`
	Status            string     `json:"status"`
	ProgressPct       int        `json:"progress_pct"`
	TotalChecks       int        `json:"total_checks"`
	PassedChecks      int        `json:"passed_checks"`
	FailedChecks      int        `json:"failed_checks"`
	WarningChecks     int        `json:"warning_checks"`
	ReadinessScore    *float64   `json:"readiness_score"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	IsPublic          bool       `json:"is_public"`
	IndustryVertical  string     `json:"industry_vertical,omitempty"`
	CampaignObjective string     `json:"campaign_objective,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func newRunResp(r model.Run) runResp {
	return runResp{
		ID:                r.ID,
		Name:              r.Name,
		Platform:          string(r.Platform),
		InputMethod:       string(r.InputMethod),
		Status:            string(r.Status),
		ProgressPct:       r.ProgressPct,
		TotalChecks:       r.TotalChecks,
		PassedChecks:      r.PassedChecks,
		FailedChecks:      r.FailedChecks,
		WarningChecks:     r.WarningChecks,
		ReadinessScore:    r.ReadinessScore,
		ErrorMessage:      r.ErrorMessage,
		IsPublic:          r.IsPublic,
		IndustryVertical:  r.IndustryVertical,
		CampaignObjective: r.CampaignObjective,
		CreatedAt:         r.CreatedAt,
		StartedAt:         r.StartedAt,
		CompletedAt:       r.CompletedAt,
	}
}

type submitRunResp struct {
	RunID        string              `json:"run_id"`
	Status       string              `json:"status"`
	Tier1Results []model.CheckResult `json:"tier1_results"`
	Message      string              `json:"message"`
}

func (h *handler) newSubmitRunResp(o run.SubmitOutput) submitRunResp {
	results := o.Tier1Results
	if results == nil {
		results = []model.CheckResult{}
	}
	return submitRunResp{
		RunID:        o.Run.ID,
		Status:       string(o.Run.Status),
		Tier1Results: results,
		Message:      o.Message,
	}
}

type statusResp struct {
	RunID          string    `json:"run_id"`
	Status         string    `json:"status"`
	ProgressPct    int       `json:"progress_pct"`
	TotalChecks    int       `json:"total_checks"`
	PassedChecks   int       `json:"passed_checks"`
	FailedChecks   int       `json:"failed_checks"`
	WarningChecks  int       `json:"warning_checks"`
	ReadinessScore *float64  `json:"readiness_score"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *handler) newStatusResp(o run.StatusOutput) statusResp {
	return statusResp{
		RunID:          o.RunID,
		Status:         string(o.Status),
		ProgressPct:    o.ProgressPct,
		TotalChecks:    o.TotalChecks,
		PassedChecks:   o.PassedChecks,
		FailedChecks:   o.FailedChecks,
		WarningChecks:  o.WarningChecks,
		ReadinessScore: o.ReadinessScore,
		ErrorMessage:   o.ErrorMessage,
		UpdatedAt:      o.UpdatedAt,
	}
}

type summaryResp struct {
	ReadinessScore   float64                   `json:"readiness_score"`
	Total            int                       `json:"total"`
	Passed           int                       `json:"passed"`
	Failed           int                       `json:"failed"`
	Warnings         int                       `json:"warnings"`
	Errors           int                       `json:"errors"`
	Skipped          int                       `json:"skipped"`
	ByCategory       map[string]map[string]int `json:"by_category"`
	CriticalFailures []string                  `json:"critical_failures"`
	Warning          string                    `json:"warning,omitempty"`
}

func newSummaryResp(s scorer.Summary) summaryResp {
	return summaryResp{
		ReadinessScore:   s.ReadinessScore,
		Total:            s.Total,
		Passed:           s.Passed,
		Failed:           s.Failed,
		Warnings:         s.Warnings,
		Errors:           s.Errors,
		Skipped:          s.Skipped,
		ByCategory:       s.ByCategory,
		CriticalFailures: s.CriticalFailures,
		Warning:          s.Warning,
	}
}

type campaignURLResp struct {
	Position     int             `json:"position"`
	RawURL       string          `json:"raw_url"`
	Parsed       model.ParsedURL `json:"parsed_url"`
	ParseError   string          `json:"parse_error,omitempty"`
	AdName       string          `json:"ad_name,omitempty"`
	AdSetName    string          `json:"ad_set_name,omitempty"`
	CampaignName string          `json:"campaign_name,omitempty"`
}

type reportResp struct {
	Run      runResp             `json:"run"`
	Summary  summaryResp         `json:"summary"`
	Checks   []model.CheckResult `json:"checks"`
	URLs     []campaignURLResp   `json:"urls,omitempty"`
	ShareURL string              `json:"share_url,omitempty"`
}

func (h *handler) newReportResp(o run.ReportOutput) reportResp {
	checks := o.Checks
	if checks == nil {
		checks = []model.CheckResult{}
	}
	resp := reportResp{
		Run:      newRunResp(o.Run),
		Summary:  newSummaryResp(o.Summary),
		Checks:   checks,
		ShareURL: o.ShareURL,
	}
	for _, u := range o.URLs {
		resp.URLs = append(resp.URLs, campaignURLResp{
			Position:     u.Position,
			RawURL:       u.RawURL,
			Parsed:       u.Parsed,
			ParseError:   u.ParseError,
			AdName:       u.AdName,
			AdSetName:    u.AdSetName,
			CampaignName: u.CampaignName,
		})
	}
	return resp
}

type downloadResp struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *handler) newDownloadResp(o run.DownloadOutput) downloadResp {
	return downloadResp{
		DownloadURL: o.URL,
		ExpiresAt:   o.ExpiresAt,
	}
}

type listRunsResp struct {
	Runs      []runResp                   `json:"runs"`
	Paginator paginator.PaginatorResponse `json:"paginator"`
}

func (h *handler) newListRunsResp(o run.ListOutput) listRunsResp {
	runs := make([]runResp, len(o.Runs))
	for i, r := range o.Runs {
		runs[i] = newRunResp(r)
	}
	return listRunsResp{
		Runs:      runs,
		Paginator: o.Paginator.ToResponse(),
	}
}

type compareResp struct {
	RunA     runResp                   `json:"run_a"`
	RunB     runResp                   `json:"run_b"`
	SummaryA summaryResp               `json:"summary_a"`
	SummaryB summaryResp               `json:"summary_b"`
	Diffs    []comparator.Diff         `json:"diffs"`
	Counts   map[comparator.Change]int `json:"counts"`
}

func (h *handler) newCompareResp(o run.CompareOutput) compareResp {
	diffs := o.Diffs
	if diffs == nil {
		diffs = []comparator.Diff{}
	}
	return compareResp{
		RunA:     newRunResp(o.RunA),
		RunB:     newRunResp(o.RunB),
		SummaryA: newSummaryResp(o.SummaryA),
		SummaryB: newSummaryResp(o.SummaryB),
		Diffs:    diffs,
		Counts:   o.Counts,
	}
}

type shareResp struct {
	RunID      string `json:"run_id"`
	IsPublic   bool   `json:"is_public"`
	ShareToken string `json:"share_token,omitempty"`
	ShareURL   string `json:"share_url,omitempty"`
}

func (h *handler) newShareResp(o run.ShareOutput) shareResp {
	return shareResp{
		RunID:      o.RunID,
		IsPublic:   o.IsPublic,
		ShareToken: o.ShareToken,
		ShareURL:   o.ShareURL,
	}
}

type checksResp struct {
	Checks []check.Definition `json:"checks"`
	Total  int                `json:"total"`
}

func (h *handler) newChecksResp(defs []check.Definition) checksResp {
	return checksResp{Checks: defs, Total: len(defs)}
}

type benchmarkStatResp struct {
	CheckID     string  `json:"check_id"`
	Category    string  `json:"category"`
	PassRatePct float64 `json:"pass_rate_pct"`
	CheckCount  int     `json:"check_count"`
}

type benchmarkResp struct {
	Platform         string              `json:"platform"`
	IndustryVertical string              `json:"industry_vertical,omitempty"`
	MinOwners        int                 `json:"min_owners"`
	Checks           []benchmarkStatResp `json:"checks"`
}

func (h *handler) newBenchmarkResp(o run.BenchmarkOutput) benchmarkResp {
	stats := make([]benchmarkStatResp, len(o.Checks))
	for i, s := range o.Checks {
		stats[i] = benchmarkStatResp{
			CheckID:     s.CheckID,
			Category:    string(s.Category),
			PassRatePct: s.PassRatePct,
			CheckCount:  s.CheckCount,
		}
	}
	return benchmarkResp{
		Platform:         string(o.Platform),
		IndustryVertical: o.IndustryVertical,
		MinOwners:        run.BenchmarkMinOwners,
		Checks:           stats,
	}
}

type recoverResp struct {
	Recovered int      `json:"recovered"`
	RunIDs    []string `json:"run_ids"`
}

func (h *handler) newRecoverResp(o run.RecoverOutput) recoverResp {
	return recoverResp{Recovered: len(o.RunIDs), RunIDs: o.RunIDs}
}
