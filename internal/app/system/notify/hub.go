// internal/app/system/notify/hub.go

// Package notify fans out "session state changed" events to in-process
// observers. Delivery is fire-and-forget: publishers never block and never
// learn whether anyone was listening, which is all the matching engine needs
// to keep live dashboards fresh.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/domain/models"
)

// Event carries the updated session snapshot after a successful assignment,
// a sponsor join, or an admin edit.
type Event struct {
	Kind    string         `json:"kind"` // always "session_updated" for now
	Session models.Session `json:"session"`
	At      time.Time      `json:"at"`
}

const KindSessionUpdated = "session_updated"

// Hub is an in-process broadcaster. Subscribers get a buffered channel;
// a subscriber that falls behind has events dropped rather than stalling
// the publisher.
type Hub struct {
	log *zap.Logger

	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// subscriberBuffer is per-subscriber; dashboards only care about the latest
// state, so a small buffer is plenty.
const subscriberBuffer = 8

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		log:  logger,
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers an observer. The returned cancel function must be
// called when the observer goes away; after cancel the channel is closed.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// SessionChanged broadcasts the updated session snapshot to all subscribers.
func (h *Hub) SessionChanged(sess models.Session) {
	ev := Event{
		Kind:    KindSessionUpdated,
		Session: sess,
		At:      time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not draining; drop rather than block the
			// assignment path.
			h.log.Warn("notify: dropping event for slow subscriber",
				zap.String("session_id", sess.ID.Hex()))
		}
	}
}

// SubscriberCount reports how many observers are registered.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
