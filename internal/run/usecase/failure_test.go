package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/discord"
)

var errConnReset = errors.New("connection reset")

// faultyRepo fails selected writes of a working repository.
type faultyRepo struct {
	repository.Repository
	markRunningErr error
	finalizeErr    error
	// saveResultsErr is returned once saveResultsOK calls have succeeded.
	saveResultsErr error
	saveResultsOK  int

	mu        sync.Mutex
	saveCalls int
}

func (r *faultyRepo) MarkRunning(ctx context.Context, runID string, startedAt time.Time) error {
	if r.markRunningErr != nil {
		return r.markRunningErr
	}
	return r.Repository.MarkRunning(ctx, runID, startedAt)
}

func (r *faultyRepo) SaveResults(ctx context.Context, results []model.CheckResult) error {
	r.mu.Lock()
	r.saveCalls++
	n := r.saveCalls
	r.mu.Unlock()

	if r.saveResultsErr != nil && n > r.saveResultsOK {
		return r.saveResultsErr
	}
	return r.Repository.SaveResults(ctx, results)
}

func (r *faultyRepo) FinalizeRun(ctx context.Context, opt repository.FinalizeRunOptions) (bool, error) {
	if r.finalizeErr != nil {
		return false, r.finalizeErr
	}
	return r.Repository.FinalizeRun(ctx, opt)
}

type recordingDiscord struct {
	mu     sync.Mutex
	errors []string
}

func (d *recordingDiscord) SendMessage(context.Context, string) error { return nil }

func (d *recordingDiscord) SendEmbed(context.Context, discord.MessageOptions) error { return nil }

func (d *recordingDiscord) ReportBug(context.Context, string) error { return nil }

func (d *recordingDiscord) SendError(_ context.Context, title, description string, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, title+": "+description+": "+err.Error())
	return nil
}

func (d *recordingDiscord) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.errors...)
}

func onlyRun(t *testing.T, repo repository.Repository) model.Run {
	t.Helper()
	runs, total, err := repo.ListRuns(context.Background(), repository.ListRunsOptions{UserID: testScope.UserID})
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if total != 1 || len(runs) != 1 {
		t.Fatalf("runs stored = %d, want 1", total)
	}
	r, err := repo.GetRun(context.Background(), repository.GetRunOptions{ID: runs[0].ID})
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	return r
}

func TestPipelineErrorsFailRun(t *testing.T) {
	tests := []struct {
		name           string
		markRunningErr error
		saveResultsErr error
		saveResultsOK  int
		finalizeErr    error
		submitErr      error
		wantMsg        string
	}{
		{
			name:           "start",
			markRunningErr: errConnReset,
			submitErr:      errConnReset,
			wantMsg:        "Pipeline error: failed to start the run",
		},
		{
			name:           "tier 1 checkpoint",
			saveResultsErr: errConnReset,
			submitErr:      errConnReset,
			wantMsg:        "Pipeline error: failed to store Tier 1 results",
		},
		{
			name:           "final results",
			saveResultsErr: errConnReset,
			saveResultsOK:  1,
			wantMsg:        "Pipeline error: failed to store check results",
		},
		{
			name:        "summary",
			finalizeErr: errConnReset,
			wantMsg:     "Pipeline error: failed to store the run summary",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, producer := newTestUseCase(t,
				staticCheck("https", check.TierSync, model.CheckStatusPassed),
				staticCheck("reachable", check.TierAsync, model.CheckStatusPassed),
			)
			alerts := &recordingDiscord{}
			uc.discord = alerts
			uc.repo = &faultyRepo{
				Repository:     repo,
				markRunningErr: tt.markRunningErr,
				finalizeErr:    tt.finalizeErr,
				saveResultsErr: tt.saveResultsErr,
				saveResultsOK:  tt.saveResultsOK,
			}

			_, err := uc.Submit(context.Background(), testScope, submitInput(1))
			if tt.submitErr == nil && err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if tt.submitErr != nil && !errors.Is(err, tt.submitErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.submitErr)
			}
			waitIdle(t, uc)

			got := onlyRun(t, repo)
			if got.Status != model.RunStatusFailed || got.ErrorMessage != tt.wantMsg {
				t.Errorf("run = %s %q, want failed %q", got.Status, got.ErrorMessage, tt.wantMsg)
			}
			if got.CompletedAt == nil {
				t.Error("CompletedAt not set on failed run")
			}

			sent := alerts.sent()
			if len(sent) != 1 || !strings.Contains(sent[0], tt.wantMsg) || !strings.Contains(sent[0], errConnReset.Error()) {
				t.Errorf("alerts = %v", sent)
			}

			events := producer.snapshot()
			if len(events) == 0 {
				t.Fatal("no events published")
			}
			if last := events[len(events)-1]; last.Type != run.EventCompleted || last.Status != model.RunStatusFailed {
				t.Errorf("last event = %+v", last)
			}
		})
	}
}

func TestSubmitOutlivesCancelledRequest(t *testing.T) {
	uc, repo, _ := newTestUseCase(t,
		staticCheck("https", check.TierSync, model.CheckStatusPassed),
		staticCheck("reachable", check.TierAsync, model.CheckStatusPassed),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.Submit(ctx, testScope, submitInput(1)); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitIdle(t, uc)

	if got := onlyRun(t, repo); got.Status != model.RunStatusCompleted {
		t.Errorf("run status = %s %q, want completed", got.Status, got.ErrorMessage)
	}
}
