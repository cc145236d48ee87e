package usecase

import (
	"context"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
)

// GetStatus serves polls from the status cache when it holds the run and falls back to the store.
// Only the executor writes the cache, so a poll never moves it backwards.
func (uc *implUseCase) GetStatus(ctx context.Context, sc model.Scope, input run.GetRunInput) (run.StatusOutput, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetStatus(ctx, input.RunID); err == nil {
			if cached.UserID != sc.UserID {
				return run.StatusOutput{}, run.ErrRunNotFound
			}
			return toStatusOutput(cached), nil
		}
	}

	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		return run.StatusOutput{}, err
	}
	return toStatusOutput(r), nil
}

// Watch subscribes to a run's events. The current state is delivered first.
func (uc *implUseCase) Watch(ctx context.Context, sc model.Scope, input run.GetRunInput) (run.Subscription, error) {
	ch, cancel := uc.hub.subscribe(input.RunID)

	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		cancel()
		return run.Subscription{}, err
	}

	typ := run.EventProgress
	if r.Status.IsTerminal() {
		typ = run.EventCompleted
	}
	select {
	case ch <- newEvent(typ, r, nil, uc.now()):
	default:
	}
	return run.Subscription{Events: ch, Close: cancel}, nil
}

func toStatusOutput(r model.Run) run.StatusOutput {
	return run.StatusOutput{
		RunID:          r.ID,
		Status:         r.Status,
		ProgressPct:    r.ProgressPct,
		TotalChecks:    r.TotalChecks,
		PassedChecks:   r.PassedChecks,
		FailedChecks:   r.FailedChecks,
		WarningChecks:  r.WarningChecks,
		ReadinessScore: r.ReadinessScore,
		ErrorMessage:   r.ErrorMessage,
		UpdatedAt:      r.UpdatedAt,
	}
}
