package usecase

import (
	"context"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/scorer"
)

// GetReport returns the full report of a completed run. A run still executing is rejected with
// ErrRunNotCompleted even though its status can be polled.
func (uc *implUseCase) GetReport(ctx context.Context, sc model.Scope, input run.GetRunInput) (run.ReportOutput, error) {
	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		return run.ReportOutput{}, err
	}
	if r.Status != model.RunStatusCompleted {
		return run.ReportOutput{}, run.ErrRunNotCompleted
	}
	return uc.buildReport(ctx, r, true)
}

// GetSharedReport returns the report behind a share token. Private runs are not found, public
// runs that are still in progress are not completed.
func (uc *implUseCase) GetSharedReport(ctx context.Context, input run.SharedInput) (run.ReportOutput, error) {
	r, err := uc.getSharedRun(ctx, input.Token)
	if err != nil {
		return run.ReportOutput{}, err
	}
	if r.Status != model.RunStatusCompleted {
		return run.ReportOutput{}, run.ErrRunNotCompleted
	}
	return uc.buildReport(ctx, r, false)
}

func (uc *implUseCase) buildReport(ctx context.Context, r model.Run, withURLs bool) (run.ReportOutput, error) {
	results, err := uc.repo.ListResults(ctx, r.ID)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.buildReport: repo.ListResults failed: %v", err)
		return run.ReportOutput{}, err
	}
	sortForReport(results)

	out := run.ReportOutput{
		Run:     r,
		Summary: scorer.Score(results),
		Checks:  results,
		URLs:    []model.CampaignURL{},
	}
	if withURLs {
		urls, err := uc.repo.ListURLs(ctx, r.ID)
		if err != nil {
			uc.l.Errorf(ctx, "run.usecase.buildReport: repo.ListURLs failed: %v", err)
			return run.ReportOutput{}, err
		}
		out.URLs = urls
	}
	if r.IsPublic && r.ShareToken != "" {
		out.ShareURL = uc.shareURL(r.ShareToken)
	}
	return out, nil
}
