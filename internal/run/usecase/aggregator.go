package usecase

import (
	"sync"

	"campaignqa-srv/internal/model"
)

// progress is a point-in-time view of a run's execution.
type progress struct {
	Done      int
	Scheduled int
	Pct       int
	Passed    int
	Failed    int
	Warning   int
}

// runAggregator collects the results of one run execution. It is owned by that execution and
// shared only between its Tier 2 goroutines.
type runAggregator struct {
	mu        sync.Mutex
	scheduled int
	results   []model.CheckResult
	seen      map[string]bool
}

func newRunAggregator(scheduled int) *runAggregator {
	return &runAggregator{
		scheduled: scheduled,
		results:   make([]model.CheckResult, 0, scheduled),
		seen:      make(map[string]bool, scheduled),
	}
}

// add records results and calls flush with the new progress while still holding the lock, so
// flushes happen in the order progress was computed. A second result for a check id is dropped.
func (a *runAggregator) add(flush func(progress, []model.CheckResult), results ...model.CheckResult) progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := make([]model.CheckResult, 0, len(results))
	for _, res := range results {
		if a.seen[res.CheckID] {
			continue
		}
		a.seen[res.CheckID] = true
		kept = append(kept, res)
	}
	a.results = append(a.results, kept...)

	p := a.progressLocked()
	if flush != nil && len(kept) > 0 {
		flush(p, kept)
	}
	return p
}

// snapshot returns a copy of the results recorded so far.
func (a *runAggregator) snapshot() []model.CheckResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.CheckResult, len(a.results))
	copy(out, a.results)
	return out
}

func (a *runAggregator) progressLocked() progress {
	p := progress{Done: len(a.results), Scheduled: a.scheduled}
	if a.scheduled > 0 {
		p.Pct = p.Done * 100 / a.scheduled
	} else {
		p.Pct = 100
	}
	for _, res := range a.results {
		switch res.Status {
		case model.CheckStatusPassed:
			p.Passed++
		case model.CheckStatusFailed:
			p.Failed++
		case model.CheckStatusWarning:
			p.Warning++
		}
	}
	return p
}
