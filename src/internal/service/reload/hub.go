// Package reload fans filesystem change events out to livereload clients.
package reload

import (
	"sync"

	"github.com/sirupsen/logrus"

	"modserve/src/internal/domain"
)

// Hub broadcasts reload events to any number of subscribers. Subscribers
// receive on a buffered channel; a subscriber that falls behind drops events
// instead of stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan domain.ReloadEvent]struct{}
	closed bool
}

func CreateHub() *Hub {
	return &Hub{
		subs: make(map[chan domain.ReloadEvent]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its channel together with
// a cancel function. Cancel is idempotent and closes the channel.
func (h *Hub) Subscribe() (<-chan domain.ReloadEvent, func()) {
	ch := make(chan domain.ReloadEvent, 8)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish delivers ev to every current subscriber without blocking.
func (h *Hub) Publish(ev domain.ReloadEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logrus.Debug("Dropping reload event for slow subscriber")
		}
	}
}

// Close tears down the hub and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
