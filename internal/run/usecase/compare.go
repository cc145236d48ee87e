package usecase

import (
	"context"

	"campaignqa-srv/internal/comparator"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/scorer"
)

// Compare diffs the check results of two completed runs owned by the caller.
// Comparing a run with itself is allowed and yields only unchanged entries.
func (uc *implUseCase) Compare(ctx context.Context, sc model.Scope, input run.CompareInput) (run.CompareOutput, error) {
	a, err := uc.getRun(ctx, sc, input.RunA)
	if err != nil {
		return run.CompareOutput{}, err
	}
	b, err := uc.getRun(ctx, sc, input.RunB)
	if err != nil {
		return run.CompareOutput{}, err
	}
	if a.Status != model.RunStatusCompleted || b.Status != model.RunStatusCompleted {
		return run.CompareOutput{}, run.ErrRunNotCompleted
	}

	resultsA, err := uc.repo.ListResults(ctx, a.ID)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.Compare: repo.ListResults failed for run %s: %v", a.ID, err)
		return run.CompareOutput{}, err
	}
	resultsB, err := uc.repo.ListResults(ctx, b.ID)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.Compare: repo.ListResults failed for run %s: %v", b.ID, err)
		return run.CompareOutput{}, err
	}

	diffs := comparator.Compare(resultsA, resultsB)
	return run.CompareOutput{
		RunA:     a,
		RunB:     b,
		SummaryA: scorer.Score(resultsA),
		SummaryB: scorer.Score(resultsB),
		Diffs:    diffs,
		Counts:   comparator.Counts(diffs),
	}, nil
}
