package pubsub

import (
	"sync"
)

// Event is a broadcast engine event (a notification, a lifecycle change).
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub fans engine events out to subscribers, typically websocket connections
// held by a front end listening for reminders.
type Hub struct {
	subscribers    map[chan Event]struct{}
	subscribersMux sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe registers and returns a new event channel.
func (h *Hub) Subscribe() chan Event {
	h.subscribersMux.Lock()
	defer h.subscribersMux.Unlock()

	ch := make(chan Event, 16)
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a channel registered with Subscribe.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.subscribersMux.Lock()
	defer h.subscribersMux.Unlock()

	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Broadcast sends an event to every subscriber. A subscriber that cannot keep
// up is skipped rather than blocking the engine.
func (h *Hub) Broadcast(event Event) {
	h.subscribersMux.RLock()
	defer h.subscribersMux.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}
