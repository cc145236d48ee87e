// Package comparator diffs the results of two completed runs check by check.
package comparator

import (
	"sort"

	"campaignqa-srv/internal/model"
)

type Change string

const (
	ChangeRegressed Change = "regressed"
	ChangeImproved  Change = "improved"
	ChangeNew       Change = "new"
	ChangeUnchanged Change = "unchanged"
	// ChangeRemoved marks a check that only the baseline ran.
	ChangeRemoved Change = "removed"
)

var changeOrder = map[Change]int{
	ChangeRegressed: 0,
	ChangeImproved:  1,
	ChangeNew:       2,
	ChangeUnchanged: 3,
	ChangeRemoved:   4,
}

// Diff is the comparison of one check across a baseline run A and a candidate run B.
// StatusA is empty for new checks and StatusB is empty for removed ones.
type Diff struct {
	CheckID   string            `json:"check_id"`
	CheckName string            `json:"check_name"`
	Category  model.Category    `json:"category"`
	Severity  model.Severity    `json:"severity"`
	StatusA   model.CheckStatus `json:"status_a,omitempty"`
	StatusB   model.CheckStatus `json:"status_b,omitempty"`
	Change    Change            `json:"change"`
}

// Rank orders statuses from worst to best. Failed and error both rank 0.
func Rank(s model.CheckStatus) int {
	switch s {
	case model.CheckStatusPassed:
		return 3
	case model.CheckStatusWarning:
		return 2
	case model.CheckStatusSkipped:
		return 1
	default:
		return 0
	}
}

// Compare returns one Diff per check id found in either set: regressions first, then improvements,
// new checks, unchanged ones and finally removed ones. Ties break on check id.
func Compare(a, b []model.CheckResult) []Diff {
	byA := index(a)
	byB := index(b)

	diffs := make([]Diff, 0, len(byA)+len(byB))
	for id, rb := range byB {
		d := Diff{CheckID: id, CheckName: rb.CheckName, Category: rb.Category, Severity: rb.Severity, StatusB: rb.Status}
		ra, ok := byA[id]
		if !ok {
			d.Change = ChangeNew
			diffs = append(diffs, d)
			continue
		}
		d.StatusA = ra.Status
		switch ka, kb := Rank(ra.Status), Rank(rb.Status); {
		case kb > ka:
			d.Change = ChangeImproved
		case kb < ka:
			d.Change = ChangeRegressed
		default:
			d.Change = ChangeUnchanged
		}
		diffs = append(diffs, d)
	}
	for id, ra := range byA {
		if _, ok := byB[id]; ok {
			continue
		}
		diffs = append(diffs, Diff{
			CheckID: id, CheckName: ra.CheckName, Category: ra.Category, Severity: ra.Severity,
			StatusA: ra.Status, Change: ChangeRemoved,
		})
	}

	sort.Slice(diffs, func(i, j int) bool {
		if oi, oj := changeOrder[diffs[i].Change], changeOrder[diffs[j].Change]; oi != oj {
			return oi < oj
		}
		return diffs[i].CheckID < diffs[j].CheckID
	})
	return diffs
}

// Counts tallies diffs per change kind.
func Counts(diffs []Diff) map[Change]int {
	out := make(map[Change]int, len(changeOrder))
	for c := range changeOrder {
		out[c] = 0
	}
	for _, d := range diffs {
		out[d.Change]++
	}
	return out
}

func index(results []model.CheckResult) map[string]model.CheckResult {
	out := make(map[string]model.CheckResult, len(results))
	for _, r := range results {
		out[r.CheckID] = r
	}
	return out
}
