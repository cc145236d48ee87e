package scorer

import (
	"math/rand"
	"reflect"
	"testing"

	"campaignqa-srv/internal/model"
)

func result(id string, cat model.Category, sev model.Severity, st model.CheckStatus) model.CheckResult {
	return model.CheckResult{CheckID: id, CheckName: "Check " + id, Category: cat, Severity: sev, Status: st}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		results []model.CheckResult
		want    float64
		warning bool
	}{
		{
			name: "weighted mix",
			results: []model.CheckResult{
				result("a", model.CategoryURL, model.SeverityCritical, model.CheckStatusPassed),
				result("b", model.CategoryUTM, model.SeverityMajor, model.CheckStatusFailed),
				result("c", model.CategoryCreative, model.SeverityMinor, model.CheckStatusWarning),
			},
			want: 64.3,
		},
		{
			name: "skipped and error excluded",
			results: []model.CheckResult{
				result("a", model.CategoryURL, model.SeverityMinor, model.CheckStatusPassed),
				result("b", model.CategoryURL, model.SeverityCritical, model.CheckStatusError),
				result("c", model.CategoryURL, model.SeverityCritical, model.CheckStatusSkipped),
			},
			want: 100,
		},
		{
			name: "nothing counted",
			results: []model.CheckResult{
				result("a", model.CategoryURL, model.SeverityCritical, model.CheckStatusSkipped),
				result("b", model.CategoryURL, model.SeverityCritical, model.CheckStatusError),
			},
			want:    0,
			warning: true,
		},
		{name: "empty", want: 0, warning: true},
		{
			name: "all failed",
			results: []model.CheckResult{
				result("a", model.CategoryBudget, model.SeverityCritical, model.CheckStatusFailed),
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Score(tt.results)
			if s.ReadinessScore != tt.want {
				t.Errorf("ReadinessScore = %v, want %v", s.ReadinessScore, tt.want)
			}
			if (s.Warning != "") != tt.warning {
				t.Errorf("Warning = %q, want set=%v", s.Warning, tt.warning)
			}
			if s.Total != len(tt.results) {
				t.Errorf("Total = %d, want %d", s.Total, len(tt.results))
			}
		})
	}
}

func TestScoreSummary(t *testing.T) {
	s := Score([]model.CheckResult{
		result("a", model.CategoryURL, model.SeverityCritical, model.CheckStatusFailed),
		result("b", model.CategoryURL, model.SeverityMajor, model.CheckStatusFailed),
		result("c", model.CategoryURL, model.SeverityCritical, model.CheckStatusPassed),
		result("d", model.CategoryUTM, model.SeverityCritical, model.CheckStatusFailed),
		result("e", model.CategoryUTM, model.SeverityMinor, model.CheckStatusSkipped),
	})

	if want := []string{"Check a", "Check d"}; !reflect.DeepEqual(s.CriticalFailures, want) {
		t.Errorf("CriticalFailures = %v, want %v", s.CriticalFailures, want)
	}
	want := map[string]map[string]int{
		"url": {"failed": 2, "passed": 1},
		"utm": {"failed": 1, "skipped": 1},
	}
	if !reflect.DeepEqual(s.ByCategory, want) {
		t.Errorf("ByCategory = %v, want %v", s.ByCategory, want)
	}
	if s.Passed != 1 || s.Failed != 3 || s.Skipped != 1 {
		t.Errorf("counts = %+v", s)
	}
}

func TestScoreIsOrderIndependent(t *testing.T) {
	results := []model.CheckResult{
		result("a", model.CategoryURL, model.SeverityCritical, model.CheckStatusPassed),
		result("b", model.CategoryUTM, model.SeverityMajor, model.CheckStatusWarning),
		result("c", model.CategoryCreative, model.SeverityMinor, model.CheckStatusFailed),
		result("d", model.CategoryURL, model.SeverityCritical, model.CheckStatusFailed),
		result("e", model.CategoryTracking, model.SeverityMajor, model.CheckStatusError),
		result("f", model.CategoryBudget, model.SeverityMinor, model.CheckStatusPassed),
	}
	want := Score(results)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.CheckResult(nil), results...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := Score(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: got %+v, want %+v", i, got, want)
		}
	}
}
