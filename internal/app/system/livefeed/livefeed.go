// internal/app/system/livefeed/livefeed.go
package livefeed

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans a change signal out to live post-list subscribers. Writers call
// Notify after any mutation of the posts collection; each subscriber wakes
// up and re-reads the full list. Signals coalesce: a subscriber that has a
// wakeup pending does not accumulate more.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	log    *zap.Logger
	closed bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[chan struct{}]struct{}),
		log:  logger,
	}
}

// Subscribe registers a listener and returns its wakeup channel plus an
// unsubscribe func. The channel carries one pending signal at most.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("live feed subscriber added", zap.Int("subscribers", n))

	return ch, func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
		}
		h.mu.Unlock()
	}
}

// Notify wakes every subscriber. Never blocks: a subscriber with a signal
// already pending is skipped.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close drops all subscribers and closes their channels so in-flight
// streams terminate. Used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}
