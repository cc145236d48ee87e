package check

import (
	"context"
	"errors"
	"testing"
	"time"

	"campaignqa-srv/internal/model"
)

type stubCheck struct {
	def  Definition
	exec func(ctx context.Context, rc *RunContext) model.CheckResult
}

func (s stubCheck) Definition() Definition { return s.def }

func (s stubCheck) Execute(ctx context.Context, rc *RunContext) model.CheckResult {
	return s.exec(ctx, rc)
}

func newStub(id string, tier Tier, platforms ...model.Platform) stubCheck {
	return stubCheck{
		def: Definition{
			ID:        id,
			Name:      id,
			Category:  model.CategoryURL,
			Platforms: platforms,
			Severity:  model.SeverityMajor,
			Tier:      tier,
		},
		exec: func(context.Context, *RunContext) model.CheckResult {
			return Result(model.CheckStatusPassed, "ok")
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("duplicate id is rejected", func(t *testing.T) {
		_, err := NewRegistry(
			newStub("a", TierSync, model.PlatformUniversal),
			newStub("a", TierAsync, model.PlatformMeta),
		)
		if !errors.Is(err, ErrDuplicateCheck) {
			t.Fatalf("err = %v, want ErrDuplicateCheck", err)
		}
	})

	t.Run("missing platforms is rejected", func(t *testing.T) {
		_, err := NewRegistry(newStub("a", TierSync))
		if !errors.Is(err, ErrInvalidCheck) {
			t.Fatalf("err = %v, want ErrInvalidCheck", err)
		}
	})

	t.Run("unknown tier is rejected", func(t *testing.T) {
		_, err := NewRegistry(newStub("a", Tier(3), model.PlatformUniversal))
		if !errors.Is(err, ErrInvalidCheck) {
			t.Fatalf("err = %v, want ErrInvalidCheck", err)
		}
	})
}

func TestChecksFor(t *testing.T) {
	reg, err := NewRegistry(
		newStub("universal_1", TierSync, model.PlatformUniversal),
		newStub("meta_only", TierSync, model.PlatformMeta),
		newStub("google_tiktok", TierSync, model.PlatformGoogle, model.PlatformTikTok),
		newStub("universal_2", TierSync, model.PlatformUniversal),
		newStub("async", TierAsync, model.PlatformUniversal),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		name     string
		platform model.Platform
		tier     Tier
		want     []string
	}{
		{"meta", model.PlatformMeta, TierSync, []string{"universal_1", "meta_only", "universal_2"}},
		{"tiktok", model.PlatformTikTok, TierSync, []string{"universal_1", "google_tiktok", "universal_2"}},
		{"multi gets universal only", model.PlatformMulti, TierSync, []string{"universal_1", "universal_2"}},
		{"async tier", model.PlatformLinkedIn, TierAsync, []string{"async"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.ChecksFor(tt.platform, tt.tier)
			if len(got) != len(tt.want) {
				t.Fatalf("ChecksFor() returned %d checks, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if c.Definition().ID != tt.want[i] {
					t.Errorf("ChecksFor()[%d] = %s, want %s", i, c.Definition().ID, tt.want[i])
				}
			}
		})
	}

	if n := len(reg.Definitions()); n != 5 {
		t.Errorf("Definitions() len = %d, want 5", n)
	}
}

func TestRun(t *testing.T) {
	rc := &RunContext{RunID: "run-1", Platform: model.PlatformMeta}

	t.Run("identity is stamped", func(t *testing.T) {
		c := newStub("utm_source_present", TierSync, model.PlatformMeta, model.PlatformGoogle)
		res := Run(context.Background(), c, rc)
		if res.RunID != "run-1" || res.CheckID != "utm_source_present" {
			t.Errorf("identity = (%s, %s), want (run-1, utm_source_present)", res.RunID, res.CheckID)
		}
		if res.Platform != "meta,google" {
			t.Errorf("Platform = %q, want meta,google", res.Platform)
		}
		if res.Severity != model.SeverityMajor || res.Category != model.CategoryURL {
			t.Errorf("severity/category not copied from definition: %+v", res)
		}
		if res.AffectedItems == nil || res.Metadata == nil {
			t.Error("AffectedItems and Metadata must be non-nil")
		}
	})

	t.Run("panic becomes error result", func(t *testing.T) {
		c := newStub("boom", TierSync, model.PlatformUniversal)
		c.exec = func(context.Context, *RunContext) model.CheckResult { panic("nil map") }
		res := Run(context.Background(), c, rc)
		if res.Status != model.CheckStatusError {
			t.Fatalf("Status = %s, want error", res.Status)
		}
		if res.Message != "Check error: nil map" {
			t.Errorf("Message = %q", res.Message)
		}
		if res.CheckID != "boom" {
			t.Errorf("CheckID = %q, want boom", res.CheckID)
		}
	})

	t.Run("empty status becomes error", func(t *testing.T) {
		c := newStub("empty", TierSync, model.PlatformUniversal)
		c.exec = func(context.Context, *RunContext) model.CheckResult { return model.CheckResult{} }
		if res := Run(context.Background(), c, rc); res.Status != model.CheckStatusError {
			t.Errorf("Status = %s, want error", res.Status)
		}
	})
}

func TestTimeout(t *testing.T) {
	def := newStub("slow", TierAsync, model.PlatformUniversal).def
	res := Timeout(def, "run-1", 1500*time.Millisecond)
	if res.Status != model.CheckStatusError {
		t.Errorf("Status = %s, want error", res.Status)
	}
	if res.ExecutionMS != 1500 {
		t.Errorf("ExecutionMS = %d, want 1500", res.ExecutionMS)
	}
}

func TestAdCopy(t *testing.T) {
	rc := &RunContext{Headline: "Shop Now", Description: "Free shipping"}
	if got := rc.AdCopy(); got != "Shop Now Free shipping" {
		t.Errorf("AdCopy() = %q", got)
	}
}
