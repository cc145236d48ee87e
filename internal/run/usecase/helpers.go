package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"

	"github.com/google/uuid"
)

var severityRank = map[model.Severity]int{
	model.SeverityCritical: 0,
	model.SeverityMajor:    1,
	model.SeverityMinor:    2,
}

var statusRank = map[model.CheckStatus]int{
	model.CheckStatusFailed:  0,
	model.CheckStatusWarning: 1,
	model.CheckStatusError:   2,
	model.CheckStatusPassed:  3,
	model.CheckStatusSkipped: 4,
}

// getRun loads a run owned by the caller. Malformed ids and other owners' runs are not found.
func (uc *implUseCase) getRun(ctx context.Context, sc model.Scope, runID string) (model.Run, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return model.Run{}, run.ErrRunNotFound
	}

	r, err := uc.repo.GetRun(ctx, repository.GetRunOptions{ID: runID, UserID: sc.UserID})
	if errors.Is(err, repository.ErrNotFound) {
		return model.Run{}, run.ErrRunNotFound
	}
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.getRun: repo.GetRun failed: %v", err)
		return model.Run{}, err
	}
	return r, nil
}

// getSharedRun loads a run by share token. Runs that are not public are not found.
func (uc *implUseCase) getSharedRun(ctx context.Context, token string) (model.Run, error) {
	if token == "" {
		return model.Run{}, run.ErrRunNotFound
	}

	r, err := uc.repo.GetRunByShareToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Run{}, run.ErrRunNotFound
	}
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.getSharedRun: repo.GetRunByShareToken failed: %v", err)
		return model.Run{}, err
	}
	if !r.IsPublic {
		return model.Run{}, run.ErrRunNotFound
	}
	return r, nil
}

// sortForReport orders results by severity, then by status from failed to skipped.
func sortForReport(results []model.CheckResult) {
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := severityRank[results[i].Severity], severityRank[results[j].Severity]
		if si != sj {
			return si < sj
		}
		return statusRank[results[i].Status] < statusRank[results[j].Status]
	})
}

func (uc *implUseCase) shareURL(token string) string {
	return strings.TrimRight(uc.cfg.PublicBaseURL, "/") + "/reports/share/" + token
}
