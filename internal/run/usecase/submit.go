package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/normalizer"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
	pkgOtel "campaignqa-srv/pkg/otel"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Submit validates the input, stores the run, runs Tier 1 inline and hands Tier 2 to a
// background execution. Input errors are returned before anything is written.
func (uc *implUseCase) Submit(ctx context.Context, sc model.Scope, input run.SubmitInput) (run.SubmitOutput, error) {
	ctx, span := pkgOtel.Tracer(tracerName).Start(ctx, "run.Submit")
	defer span.End()

	input, err := validateSubmit(input)
	if err != nil {
		return run.SubmitOutput{}, err
	}

	rawInput, err := json.Marshal(input)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.Submit: marshal raw input failed: %v", err)
		return run.SubmitOutput{}, err
	}

	now := uc.now()
	r := model.Run{
		ID:                uuid.NewString(),
		UserID:            sc.UserID,
		Name:              input.RunName,
		Platform:          input.Platform,
		InputMethod:       input.InputMethod,
		RawInput:          rawInput,
		Status:            model.RunStatusPending,
		IndustryVertical:  strings.TrimSpace(input.IndustryVertical),
		CampaignObjective: strings.TrimSpace(input.CampaignObjective),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	span.SetAttributes(attribute.String("run.id", r.ID), attribute.String("run.platform", string(r.Platform)))

	rc, normErr := normalizer.Normalize(toNormalizerInput(r, input))
	var urls []model.CampaignURL
	if rc != nil {
		urls = rc.URLs
	}

	// Once the run row exists every write must land, or the run is stuck in pending.
	ctx = context.WithoutCancel(ctx)

	created, err := uc.repo.CreateRun(ctx, repository.CreateRunOptions{Run: r, URLs: urls})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.Submit: repo.CreateRun failed: %v", err)
		return run.SubmitOutput{}, err
	}
	r = created

	if normErr != nil {
		uc.l.Warnf(ctx, "run.usecase.Submit: run %s has no usable URL: %v", r.ID, normErr)
		r = uc.failRun(ctx, r, "Normalization failed: "+normErr.Error())
		return run.SubmitOutput{
			Run:          r,
			Tier1Results: []model.CheckResult{},
			Message:      "QA run failed: " + normErr.Error(),
		}, nil
	}

	startedAt := uc.now()
	if err := uc.repo.MarkRunning(ctx, r.ID, startedAt); err != nil {
		uc.l.Errorf(ctx, "run.usecase.Submit: repo.MarkRunning failed: %v", err)
		uc.failPipeline(ctx, r, "Pipeline error: failed to start the run", err)
		return run.SubmitOutput{}, err
	}
	r.Status = model.RunStatusRunning
	r.StartedAt = &startedAt
	r.UpdatedAt = startedAt

	tier1 := uc.registry.ChecksFor(r.Platform, check.TierSync)
	tier2 := uc.registry.ChecksFor(r.Platform, check.TierAsync)
	agg := newRunAggregator(len(tier1) + len(tier2))

	results := uc.executeTier1(ctx, rc, tier1)
	var flushErr error
	p := agg.add(func(p progress, kept []model.CheckResult) {
		flushErr = uc.flush(ctx, &r, p, kept)
	}, results...)
	if flushErr != nil {
		uc.l.Errorf(ctx, "run.usecase.Submit: Tier 1 checkpoint failed for run %s: %v", r.ID, flushErr)
		uc.failPipeline(ctx, r, "Pipeline error: failed to store Tier 1 results", flushErr)
		return run.SubmitOutput{}, flushErr
	}

	uc.l.Infof(ctx, "run.usecase.Submit: run %s started, %d instant checks done, %d scheduled in background (%d%%)",
		r.ID, len(results), len(tier2), p.Pct)

	uc.wg.Add(1)
	go uc.executeTier2(r, rc, tier2, agg)

	return run.SubmitOutput{
		Run:          r,
		Tier1Results: results,
		Message:      fmt.Sprintf("QA run started. %d instant checks complete. URL reachability checks running...", len(results)),
	}, nil
}

// executeTier1 runs the sync checks in registry order under one shared time budget.
// Checks left when the budget runs out are recorded as timed out.
func (uc *implUseCase) executeTier1(ctx context.Context, rc *check.RunContext, checks []check.Check) []model.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.Tier1Timeout)
	defer cancel()

	start := time.Now()
	results := make([]model.CheckResult, 0, len(checks))
	for _, c := range checks {
		if ctx.Err() != nil {
			results = append(results, check.Timeout(c.Definition(), rc.RunID, time.Since(start)))
			continue
		}
		results = append(results, check.Run(ctx, c, rc))
	}
	return results
}

func validateSubmit(in run.SubmitInput) (run.SubmitInput, error) {
	in.RunName = strings.TrimSpace(in.RunName)
	if in.RunName == "" {
		return in, run.ErrRunNameRequired
	}
	if utf8.RuneCountInString(in.RunName) > run.MaxRunNameLength {
		return in, run.ErrRunNameTooLong
	}
	if len(in.URLs) == 0 {
		return in, run.ErrNoURLs
	}
	if len(in.URLs) > run.MaxURLs {
		return in, run.ErrTooManyURLs
	}
	if !in.Platform.IsValid() {
		return in, run.ErrInvalidPlatform
	}
	switch in.InputMethod {
	case "":
		in.InputMethod = model.InputMethodManual
	case model.InputMethodManual, model.InputMethodCSV, model.InputMethodAPI:
	default:
		return in, run.ErrInvalidInput
	}
	return in, nil
}

func toNormalizerInput(r model.Run, in run.SubmitInput) normalizer.Input {
	urls := make([]normalizer.URLEntry, len(in.URLs))
	for i, u := range in.URLs {
		urls[i] = normalizer.URLEntry{
			URL:          u.URL,
			AdName:       u.AdName,
			AdSetName:    u.AdSetName,
			CampaignName: u.CampaignName,
		}
	}
	return normalizer.Input{
		RunID:             r.ID,
		UserID:            r.UserID,
		Platform:          r.Platform,
		URLs:              urls,
		CampaignName:      in.CampaignName,
		CampaignObjective: in.CampaignObjective,
		IndustryVertical:  in.IndustryVertical,
		Headline:          in.Headline,
		PrimaryText:       in.PrimaryText,
		Description:       in.Description,
		Extra:             in.Extra,
	}
}
