package usecase

import (
	"context"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
)

// RecoverStale fails runs left running, or never started, for longer than StaleAfter. It is
// meant to run at startup, before the process accepts new submissions.
func (uc *implUseCase) RecoverStale(ctx context.Context) (run.RecoverOutput, error) {
	now := uc.now()
	ids, err := uc.repo.FailStaleRuns(ctx, repository.FailStaleRunsOptions{
		Before:       now.Add(-uc.cfg.StaleAfter),
		ErrorMessage: run.RecoveryMessage,
		FailedAt:     now,
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.RecoverStale: repo.FailStaleRuns failed: %v", err)
		return run.RecoverOutput{}, err
	}
	if len(ids) == 0 {
		return run.RecoverOutput{RunIDs: []string{}}, nil
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteStatus(ctx, ids...); err != nil {
			uc.l.Warnf(ctx, "run.usecase.RecoverStale: cache.DeleteStatus failed: %v", err)
		}
	}
	for _, id := range ids {
		uc.notify(ctx, run.EventCompleted, model.Run{
			ID:           id,
			Status:       model.RunStatusFailed,
			ErrorMessage: run.RecoveryMessage,
			CompletedAt:  &now,
			UpdatedAt:    now,
		}, nil)
	}

	uc.l.Warnf(ctx, "run.usecase.RecoverStale: failed %d interrupted runs", len(ids))
	return run.RecoverOutput{RunIDs: ids}, nil
}

// Wait blocks until background executions are done or ctx expires.
func (uc *implUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
