package usecase

import (
	"context"
	"fmt"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/internal/scorer"
	pkgOtel "campaignqa-srv/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// executeTier2 runs the async checks of one run concurrently and finalizes the run once all
// of them reported. It runs detached from the submitting request.
func (uc *implUseCase) executeTier2(r model.Run, rc *check.RunContext, checks []check.Check, agg *runAggregator) {
	defer uc.wg.Done()

	ctx, span := pkgOtel.Tracer(tracerName).Start(context.Background(), "run.executeTier2")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", r.ID), attribute.Int("run.tier2_checks", len(checks)))

	defer func() {
		if p := recover(); p != nil {
			uc.l.Errorf(ctx, "run.usecase.executeTier2: panic recovered for run %s: %v", r.ID, p)
			uc.failPipeline(ctx, r, fmt.Sprintf("Pipeline error: %v", p), fmt.Errorf("panic: %v", p))
		}
	}()

	g := new(errgroup.Group)
	g.SetLimit(uc.cfg.RunConcurrency)
	for _, c := range checks {
		g.Go(func() error {
			if err := uc.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer uc.sem.Release(1)

			res := uc.runWithDeadline(ctx, c, rc)
			agg.add(func(p progress, kept []model.CheckResult) {
				if err := uc.flush(ctx, &r, p, kept); err != nil {
					uc.l.Warnf(ctx, "run.usecase.executeTier2: checkpoint of %s for run %s failed: %v", res.CheckID, r.ID, err)
				}
			}, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.l.Errorf(ctx, "run.usecase.executeTier2: run %s stopped scheduling: %v", r.ID, err)
	}

	uc.finalize(ctx, r, agg)
}

// runWithDeadline runs c under the per-check deadline. A check that has not returned by then
// is reported as an error result; its goroutine is left to finish on its own.
func (uc *implUseCase) runWithDeadline(ctx context.Context, c check.Check, rc *check.RunContext) model.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.CheckTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan model.CheckResult, 1)
	go func() {
		done <- check.Run(ctx, c, rc)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return check.Timeout(c.Definition(), rc.RunID, time.Since(start))
	}
}

// finalize scores the full result set and completes the run. Any failure on the way fails
// the run instead, so it never stays running.
func (uc *implUseCase) finalize(ctx context.Context, r model.Run, agg *runAggregator) {
	results := agg.snapshot()

	if err := uc.repo.SaveResults(ctx, results); err != nil {
		uc.l.Errorf(ctx, "run.usecase.finalize: repo.SaveResults failed for run %s: %v", r.ID, err)
		uc.failPipeline(ctx, r, "Pipeline error: failed to store check results", err)
		return
	}

	summary, err := score(results)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.finalize: scoring failed for run %s: %v", r.ID, err)
		uc.failPipeline(ctx, r, "Scoring error: "+err.Error(), err)
		return
	}

	completedAt := uc.now()
	ok, err := uc.repo.FinalizeRun(ctx, repository.FinalizeRunOptions{
		RunID:          r.ID,
		TotalChecks:    summary.Total,
		PassedChecks:   summary.Passed,
		FailedChecks:   summary.Failed,
		WarningChecks:  summary.Warnings,
		ReadinessScore: summary.ReadinessScore,
		CompletedAt:    completedAt,
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.finalize: repo.FinalizeRun failed for run %s: %v", r.ID, err)
		uc.failPipeline(ctx, r, "Pipeline error: failed to store the run summary", err)
		return
	}
	if !ok {
		uc.l.Warnf(ctx, "run.usecase.finalize: run %s was no longer running, summary discarded", r.ID)
		return
	}

	r.Status = model.RunStatusCompleted
	r.ProgressPct = 100
	r.TotalChecks = summary.Total
	r.PassedChecks = summary.Passed
	r.FailedChecks = summary.Failed
	r.WarningChecks = summary.Warnings
	r.ReadinessScore = &summary.ReadinessScore
	r.CompletedAt = &completedAt
	r.UpdatedAt = completedAt

	uc.setCache(ctx, r)
	uc.notify(ctx, run.EventCompleted, r, nil)
	uc.l.Infof(ctx, "run.usecase.finalize: run %s completed with score %.1f (%d checks)", r.ID, summary.ReadinessScore, summary.Total)

	if uc.storage != nil {
		if _, err := uc.archiveReport(ctx, r, results); err != nil {
			uc.l.Warnf(ctx, "run.usecase.finalize: archive of run %s failed: %v", r.ID, err)
		}
	}
}

// flush persists newly recorded results and the run's progress, then tells watchers.
func (uc *implUseCase) flush(ctx context.Context, r *model.Run, p progress, kept []model.CheckResult) error {
	if err := uc.repo.SaveResults(ctx, kept); err != nil {
		return err
	}
	if err := uc.repo.UpdateProgress(ctx, repository.UpdateProgressOptions{
		RunID:         r.ID,
		ProgressPct:   p.Pct,
		TotalChecks:   p.Done,
		PassedChecks:  p.Passed,
		FailedChecks:  p.Failed,
		WarningChecks: p.Warning,
	}); err != nil {
		return err
	}

	r.ProgressPct = p.Pct
	r.TotalChecks = p.Done
	r.PassedChecks = p.Passed
	r.FailedChecks = p.Failed
	r.WarningChecks = p.Warning
	r.UpdatedAt = uc.now()

	uc.setCache(ctx, *r)
	var last *model.CheckResult
	if len(kept) == 1 {
		last = &kept[0]
	}
	uc.notify(ctx, run.EventProgress, *r, last)
	return nil
}

// failRun moves r to failed unless it is already terminal and returns the updated run.
func (uc *implUseCase) failRun(ctx context.Context, r model.Run, msg string) model.Run {
	failedAt := uc.now()
	ok, err := uc.repo.FailRun(ctx, repository.FailRunOptions{RunID: r.ID, ErrorMessage: msg, FailedAt: failedAt})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.failRun: repo.FailRun failed for run %s: %v", r.ID, err)
		return r
	}
	if !ok {
		return r
	}

	r.Status = model.RunStatusFailed
	r.ErrorMessage = msg
	r.CompletedAt = &failedAt
	r.UpdatedAt = failedAt

	uc.setCache(ctx, r)
	uc.notify(ctx, run.EventCompleted, r, nil)
	return r
}

// failPipeline fails r after an internal error and alerts the ops channel when one is configured.
func (uc *implUseCase) failPipeline(ctx context.Context, r model.Run, msg string, cause error) model.Run {
	r = uc.failRun(ctx, r, msg)
	if uc.discord == nil {
		return r
	}
	if err := uc.discord.SendError(ctx, "Campaign QA run failed", fmt.Sprintf("Run %s (%s): %s", r.ID, r.Name, msg), cause); err != nil {
		uc.l.Warnf(ctx, "run.usecase.failPipeline: discord.SendError failed for run %s: %v", r.ID, err)
	}
	return r
}

func (uc *implUseCase) setCache(ctx context.Context, r model.Run) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetStatus(ctx, r); err != nil {
		uc.l.Warnf(ctx, "run.usecase.setCache: cache.SetStatus failed for run %s: %v", r.ID, err)
	}
}

// notify fans an event out to stream watchers and, when configured, to Kafka.
func (uc *implUseCase) notify(ctx context.Context, typ run.EventType, r model.Run, res *model.CheckResult) {
	ev := newEvent(typ, r, res, uc.now())
	uc.hub.broadcast(ev)

	if uc.producer == nil {
		return
	}
	var err error
	switch typ {
	case run.EventCompleted:
		err = uc.producer.PublishCompleted(ctx, ev)
	default:
		err = uc.producer.PublishProgress(ctx, ev)
	}
	if err != nil {
		uc.l.Warnf(ctx, "run.usecase.notify: publish %s for run %s failed: %v", typ, r.ID, err)
	}
}

func newEvent(typ run.EventType, r model.Run, res *model.CheckResult, at time.Time) run.Event {
	return run.Event{
		Type:           typ,
		RunID:          r.ID,
		UserID:         r.UserID,
		Status:         r.Status,
		ProgressPct:    r.ProgressPct,
		TotalChecks:    r.TotalChecks,
		PassedChecks:   r.PassedChecks,
		FailedChecks:   r.FailedChecks,
		WarningChecks:  r.WarningChecks,
		ReadinessScore: r.ReadinessScore,
		ErrorMessage:   r.ErrorMessage,
		Result:         res,
		At:             at,
	}
}

// score runs the scorer, turning a panic into an error so the run can still be failed.
func score(results []model.CheckResult) (s scorer.Summary, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return scorer.Score(results), nil
}
