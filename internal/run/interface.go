package run

import (
	"context"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Submit(ctx context.Context, sc model.Scope, input SubmitInput) (SubmitOutput, error)
	GetStatus(ctx context.Context, sc model.Scope, input GetRunInput) (StatusOutput, error)
	GetReport(ctx context.Context, sc model.Scope, input GetRunInput) (ReportOutput, error)
	GetReportDownload(ctx context.Context, sc model.Scope, input GetRunInput) (DownloadOutput, error)
	List(ctx context.Context, sc model.Scope, input ListInput) (ListOutput, error)
	Rerun(ctx context.Context, sc model.Scope, input GetRunInput) (SubmitOutput, error)
	Compare(ctx context.Context, sc model.Scope, input CompareInput) (CompareOutput, error)
	SetShare(ctx context.Context, sc model.Scope, input ShareInput) (ShareOutput, error)
	Watch(ctx context.Context, sc model.Scope, input GetRunInput) (Subscription, error)

	GetSharedReport(ctx context.Context, input SharedInput) (ReportOutput, error)
	GetBadge(ctx context.Context, input SharedInput) (Badge, error)
	ListChecks(ctx context.Context) []check.Definition
	Benchmark(ctx context.Context, input BenchmarkInput) (BenchmarkOutput, error)

	// RecoverStale fails runs left running by a previous process.
	RecoverStale(ctx context.Context) (RecoverOutput, error)
	// Wait blocks until every background Tier 2 execution has finalized or ctx is done.
	Wait(ctx context.Context) error
}

// Producer publishes run lifecycle events to the message bus.
//
//go:generate mockery --name Producer
type Producer interface {
	PublishProgress(ctx context.Context, ev Event) error
	PublishCompleted(ctx context.Context, ev Event) error
}
