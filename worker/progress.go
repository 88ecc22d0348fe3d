package worker

import (
	"sync"
)

// Progress is one snapshot in the dispatcher's event stream. Events arrive in
// send order and the stream is terminated by exactly one event with Done set.
type Progress struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`

	RecipientID uint   `json:"recipient_id,omitempty"`
	ContactID   uint   `json:"contact_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`

	Approaching  bool `json:"approaching,omitempty"`
	RateLimitHit bool `json:"rate_limit_hit,omitempty"`
	Done         bool `json:"done,omitempty"`
}

// Sink receives progress events. Delivery is best-effort: a sink that panics
// (consumer gone) is swallowed by the dispatcher, never crashing the run.
type Sink func(Progress)

// Hub fans progress events out to websocket subscribers per campaign.
// Publishing never blocks; a slow subscriber just misses intermediate
// snapshots, which is fine because every event carries cumulative counters.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Progress]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan Progress]struct{})}
}

// Subscribe registers a listener for one campaign's events. The returned
// cancel func must be called when the consumer is done; it closes the channel.
func (h *Hub) Subscribe(campaignID uint) (<-chan Progress, func()) {
	ch := make(chan Progress, 16)

	h.mu.Lock()
	if h.subs[campaignID] == nil {
		h.subs[campaignID] = make(map[chan Progress]struct{})
	}
	h.subs[campaignID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[campaignID], ch)
			if len(h.subs[campaignID]) == 0 {
				delete(h.subs, campaignID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to all current subscribers of the campaign.
func (h *Hub) Publish(campaignID uint, p Progress) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[campaignID] {
		select {
		case ch <- p:
		default:
		}
	}
}

// Sink returns a dispatcher sink bound to one campaign.
func (h *Hub) Sink(campaignID uint) Sink {
	return func(p Progress) {
		h.Publish(campaignID, p)
	}
}
