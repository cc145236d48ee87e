// Package scorer turns a set of check results into a readiness score and summary counts.
package scorer

import (
	"math"
	"sort"

	"campaignqa-srv/internal/model"
)

const noScorableChecks = "No passed, failed or warning checks to score"

// Summary is derived from results and never stored on its own.
type Summary struct {
	ReadinessScore   float64                   `json:"readiness_score"`
	Total            int                       `json:"total"`
	Passed           int                       `json:"passed"`
	Failed           int                       `json:"failed"`
	Warnings         int                       `json:"warnings"`
	Errors           int                       `json:"errors"`
	Skipped          int                       `json:"skipped"`
	ByCategory       map[string]map[string]int `json:"by_category"`
	CriticalFailures []string                  `json:"critical_failures"`
	// Warning is set when nothing counted towards the score.
	Warning string `json:"warning,omitempty"`
}

// Score weighs each counted result by severity (critical 4, major 2, minor 1). A warning earns half
// its weight, skipped and error results are left out entirely. The result does not depend on order.
func Score(results []model.CheckResult) Summary {
	s := Summary{
		Total:            len(results),
		ByCategory:       map[string]map[string]int{},
		CriticalFailures: []string{},
	}

	var earned, possible float64
	for _, r := range results {
		cat := string(r.Category)
		if s.ByCategory[cat] == nil {
			s.ByCategory[cat] = map[string]int{}
		}
		s.ByCategory[cat][string(r.Status)]++

		switch r.Status {
		case model.CheckStatusPassed:
			s.Passed++
		case model.CheckStatusFailed:
			s.Failed++
			if r.Severity == model.SeverityCritical {
				s.CriticalFailures = append(s.CriticalFailures, r.CheckName)
			}
		case model.CheckStatusWarning:
			s.Warnings++
		case model.CheckStatusError:
			s.Errors++
		case model.CheckStatusSkipped:
			s.Skipped++
		}

		if !r.Status.Counted() {
			continue
		}
		w := float64(r.Severity.Weight())
		possible += w
		switch r.Status {
		case model.CheckStatusPassed:
			earned += w
		case model.CheckStatusWarning:
			earned += w * 0.5
		}
	}
	sort.Strings(s.CriticalFailures)

	if possible == 0 {
		s.Warning = noScorableChecks
		return s
	}
	s.ReadinessScore = math.Round(earned/possible*1000) / 10
	return s
}
