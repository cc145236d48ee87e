package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"campaignqa-srv/config"
	sqliteConn "campaignqa-srv/config/sqlite"
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/log"
)

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	ctx := context.Background()
	db, err := sqliteConn.Connect(ctx, config.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return New(db, log.NewNop())
}

func createRun(t *testing.T, repo repository.Repository, id string) model.Run {
	t.Helper()
	return createRunAt(t, repo, id, time.Now())
}

func createRunAt(t *testing.T, repo repository.Repository, id string, createdAt time.Time) model.Run {
	t.Helper()
	r, err := repo.CreateRun(context.Background(), repository.CreateRunOptions{
		Run: model.Run{
			ID:          id,
			UserID:      "user-1",
			Name:        "Spring launch",
			Platform:    model.PlatformMeta,
			InputMethod: model.InputMethodManual,
			Status:      model.RunStatusPending,
			CreatedAt:   createdAt.UTC(),
		},
		URLs: []model.CampaignURL{{Position: 0, RawURL: "https://shop.example.com/?utm_source=facebook"}},
	})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	return r
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := createRun(t, repo, "run-1")
	if created.Status != model.RunStatusPending {
		t.Fatalf("created status = %s", created.Status)
	}

	if err := repo.MarkRunning(ctx, "run-1", time.Now()); err != nil {
		t.Fatalf("MarkRunning() error = %v", err)
	}
	if err := repo.MarkRunning(ctx, "run-1", time.Now()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second MarkRunning() error = %v, want ErrNotFound", err)
	}

	t.Run("progress never decreases", func(t *testing.T) {
		for _, pct := range []int{40, 20} {
			if err := repo.UpdateProgress(ctx, repository.UpdateProgressOptions{RunID: "run-1", ProgressPct: pct}); err != nil {
				t.Fatalf("UpdateProgress(%d) error = %v", pct, err)
			}
		}
		got, err := repo.GetRun(ctx, repository.GetRunOptions{ID: "run-1"})
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if got.ProgressPct != 40 {
			t.Errorf("progress = %d, want 40", got.ProgressPct)
		}
	})

	t.Run("finalize once", func(t *testing.T) {
		opt := repository.FinalizeRunOptions{RunID: "run-1", TotalChecks: 2, PassedChecks: 2, ReadinessScore: 100, CompletedAt: time.Now()}
		ok, err := repo.FinalizeRun(ctx, opt)
		if err != nil || !ok {
			t.Fatalf("FinalizeRun() = %v, %v; want true", ok, err)
		}
		ok, err = repo.FinalizeRun(ctx, opt)
		if err != nil || ok {
			t.Errorf("second FinalizeRun() = %v, %v; want false", ok, err)
		}
		failed, err := repo.FailRun(ctx, repository.FailRunOptions{RunID: "run-1", ErrorMessage: "late", FailedAt: time.Now()})
		if err != nil || failed {
			t.Errorf("FailRun() on completed = %v, %v; want false", failed, err)
		}

		got, _ := repo.GetRun(ctx, repository.GetRunOptions{ID: "run-1"})
		if got.Status != model.RunStatusCompleted || got.ProgressPct != 100 || got.ReadinessScore == nil {
			t.Errorf("finalized run = %+v", got)
		}
	})

	t.Run("owner scope", func(t *testing.T) {
		if _, err := repo.GetRun(ctx, repository.GetRunOptions{ID: "run-1", UserID: "user-2"}); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("GetRun() other owner error = %v, want ErrNotFound", err)
		}
	})
}

func TestSaveResultsKeepsFirstResult(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	createRun(t, repo, "run-1")

	first := model.CheckResult{
		RunID: "run-1", CheckID: "url_uses_https", CheckName: "URL uses HTTPS", Category: model.CategoryURL,
		Platform: "universal", Status: model.CheckStatusPassed, Severity: model.SeverityCritical, Message: "ok",
	}
	second := first
	second.Status = model.CheckStatusError
	second.Message = "late duplicate"

	if err := repo.SaveResults(ctx, []model.CheckResult{first}); err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}
	if err := repo.SaveResults(ctx, []model.CheckResult{second}); err != nil {
		t.Fatalf("SaveResults() duplicate error = %v", err)
	}

	got, err := repo.ListResults(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListResults() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != model.CheckStatusPassed || len(got[0].AffectedItems) != 0 {
		t.Errorf("results = %+v", got)
	}
}

func TestFailStaleRuns(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Now()
	createRun(t, repo, "stale")
	createRun(t, repo, "fresh")
	createRunAt(t, repo, "stuck-pending", now.Add(-time.Hour))
	createRun(t, repo, "new-pending")

	_ = repo.MarkRunning(ctx, "stale", now.Add(-time.Hour))
	_ = repo.MarkRunning(ctx, "fresh", now)

	ids, err := repo.FailStaleRuns(ctx, repository.FailStaleRunsOptions{
		Before:       now.Add(-10 * time.Minute),
		ErrorMessage: "interrupted",
		FailedAt:     now,
	})
	if err != nil {
		t.Fatalf("FailStaleRuns() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want [stale stuck-pending]", ids)
	}

	tests := []struct {
		id   string
		want model.RunStatus
	}{
		{id: "stale", want: model.RunStatusFailed},
		{id: "stuck-pending", want: model.RunStatusFailed},
		{id: "fresh", want: model.RunStatusRunning},
		{id: "new-pending", want: model.RunStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := repo.GetRun(ctx, repository.GetRunOptions{ID: tt.id})
			if err != nil {
				t.Fatalf("GetRun() error = %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("Status = %s, want %s", got.Status, tt.want)
			}
			if tt.want == model.RunStatusFailed && got.ErrorMessage != "interrupted" {
				t.Errorf("ErrorMessage = %q", got.ErrorMessage)
			}
		})
	}
}
