package repository

import (
	"context"
	"time"

	"campaignqa-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	RunRepository
	ResultRepository
	Ping(ctx context.Context) error
}

// RunRepository - run lifecycle and ownership queries
type RunRepository interface {
	// CreateRun inserts the run and its URLs in one transaction.
	CreateRun(ctx context.Context, opt CreateRunOptions) (model.Run, error)
	GetRun(ctx context.Context, opt GetRunOptions) (model.Run, error)
	GetRunByShareToken(ctx context.Context, token string) (model.Run, error)
	ListRuns(ctx context.Context, opt ListRunsOptions) ([]model.Run, int64, error)
	ListURLs(ctx context.Context, runID string) ([]model.CampaignURL, error)

	MarkRunning(ctx context.Context, runID string, startedAt time.Time) error
	// UpdateProgress never lowers the stored progress and only touches running runs.
	UpdateProgress(ctx context.Context, opt UpdateProgressOptions) error
	// FinalizeRun moves a running run to completed. It reports false when the run was no longer running.
	FinalizeRun(ctx context.Context, opt FinalizeRunOptions) (bool, error)
	// FailRun moves a non-terminal run to failed. It reports false when the run was already terminal.
	FailRun(ctx context.Context, opt FailRunOptions) (bool, error)
	// FailStaleRuns fails running runs started before opt.Before and pending runs created before it,
	// returning their ids.
	FailStaleRuns(ctx context.Context, opt FailStaleRunsOptions) ([]string, error)
	UpdateShare(ctx context.Context, opt UpdateShareOptions) (model.Run, error)
}

// ResultRepository - check results and aggregates over them
type ResultRepository interface {
	// SaveResults inserts results, ignoring any (run_id, check_id) already stored.
	SaveResults(ctx context.Context, results []model.CheckResult) error
	ListResults(ctx context.Context, runID string) ([]model.CheckResult, error)
	Benchmark(ctx context.Context, opt BenchmarkOptions) ([]model.BenchmarkStat, error)
}

// StatusCache keeps the latest status snapshot of active runs for cheap polling.
//
//go:generate mockery --name StatusCache
type StatusCache interface {
	GetStatus(ctx context.Context, runID string) (model.Run, error)
	SetStatus(ctx context.Context, r model.Run) error
	DeleteStatus(ctx context.Context, runIDs ...string) error
}
