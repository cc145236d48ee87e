package usecase

import (
	"sync"

	"campaignqa-srv/internal/run"
)

const subscriberBuffer = 32

// hub fans run events out to in-process watchers, keyed by run id.
type hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan run.Event]struct{}
}

func newHub() *hub {
	return &hub{
		subs: make(map[string]map[chan run.Event]struct{}),
	}
}

func (h *hub) subscribe(runID string) (chan run.Event, func()) {
	ch := make(chan run.Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[runID] == nil {
		h.subs[runID] = make(map[chan run.Event]struct{})
	}
	h.subs[runID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if chans, ok := h.subs[runID]; ok {
				delete(chans, ch)
				if len(chans) == 0 {
					delete(h.subs, runID)
				}
			}
			close(ch)
		})
	}
}

// broadcast never blocks: a watcher whose buffer is full misses the event.
func (h *hub) broadcast(ev run.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[ev.RunID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
