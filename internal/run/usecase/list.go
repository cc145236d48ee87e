package usecase

import (
	"context"
	"encoding/json"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/paginator"
)

// List returns the caller's runs, newest first.
func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input run.ListInput) (run.ListOutput, error) {
	input.Paginate.Adjust()

	runs, total, err := uc.repo.ListRuns(ctx, repository.ListRunsOptions{
		UserID: sc.UserID,
		Limit:  int(input.Paginate.Limit),
		Offset: int(input.Paginate.Offset()),
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.List: repo.ListRuns failed: %v", err)
		return run.ListOutput{}, err
	}

	return run.ListOutput{
		Runs: runs,
		Paginator: paginator.Paginator{
			Total:       total,
			Count:       int64(len(runs)),
			PerPage:     input.Paginate.Limit,
			CurrentPage: input.Paginate.Page,
		},
	}, nil
}

// Rerun submits a fresh run from the stored input of an existing one.
func (uc *implUseCase) Rerun(ctx context.Context, sc model.Scope, input run.GetRunInput) (run.SubmitOutput, error) {
	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		return run.SubmitOutput{}, err
	}

	var snapshot run.SubmitInput
	if len(r.RawInput) == 0 {
		return run.SubmitOutput{}, run.ErrInvalidSnapshot
	}
	if err := json.Unmarshal(r.RawInput, &snapshot); err != nil {
		uc.l.Warnf(ctx, "run.usecase.Rerun: raw input of run %s is unreadable: %v", r.ID, err)
		return run.SubmitOutput{}, run.ErrInvalidSnapshot
	}

	return uc.Submit(ctx, sc, snapshot)
}

func (uc *implUseCase) ListChecks(ctx context.Context) []check.Definition {
	return uc.registry.Definitions()
}

// Benchmark returns anonymized pass rates per check. Checks seen by fewer than
// BenchmarkMinOwners distinct owners are left out.
func (uc *implUseCase) Benchmark(ctx context.Context, input run.BenchmarkInput) (run.BenchmarkOutput, error) {
	if input.Platform == "" {
		input.Platform = model.PlatformUniversal
	}
	if !input.Platform.IsValid() {
		return run.BenchmarkOutput{}, run.ErrInvalidPlatform
	}

	stats, err := uc.repo.Benchmark(ctx, repository.BenchmarkOptions{
		Platform:         input.Platform,
		IndustryVertical: input.IndustryVertical,
		MinOwners:        run.BenchmarkMinOwners,
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.Benchmark: repo.Benchmark failed: %v", err)
		return run.BenchmarkOutput{}, err
	}
	if stats == nil {
		stats = []model.BenchmarkStat{}
	}

	return run.BenchmarkOutput{
		Platform:         input.Platform,
		IndustryVertical: input.IndustryVertical,
		Checks:           stats,
	}, nil
}
