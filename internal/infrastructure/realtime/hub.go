package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
)

const defaultBuffer = 16

type topic struct {
	table  string
	teamID uuid.UUID
}

type subscription struct {
	ch   chan entities.Change
	once sync.Once
}

// Hub is an in-process pub/sub of row changes keyed by (table, team).
// Delivery never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[topic]map[*subscription]struct{}
	buffer int
}

// NewHub creates a hub whose subscriber channels hold buffer events
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[topic]map[*subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe returns a channel of changes for table within teamID and a func
// that ends the subscription and closes the channel. The func is safe to call twice.
func (h *Hub) Subscribe(table string, teamID uuid.UUID) (<-chan entities.Change, func()) {
	key := topic{table: table, teamID: teamID}
	sub := &subscription{ch: make(chan entities.Change, h.buffer)}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()
	subscriberGauge.Inc()

	return sub.ch, func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[key], sub)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(sub.ch)
			h.mu.Unlock()
			subscriberGauge.Dec()
		})
	}
}

// Publish delivers change to local subscribers
func (h *Hub) Publish(_ context.Context, change entities.Change) error {
	h.Deliver(change)
	return nil
}

// Deliver fans change out to every subscriber of its (table, team)
func (h *Hub) Deliver(change entities.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[topic{table: change.Table, teamID: change.TeamID}] {
		select {
		case sub.ch <- change:
		default:
			droppedEvents.Inc()
		}
	}
}

// Subscribers returns the number of live subscriptions for (table, team)
func (h *Hub) Subscribers(table string, teamID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic{table: table, teamID: teamID}])
}
