// Package notify is the change-event boundary between the ledger and
// downstream consumers (dashboards, aggregation). Delivery is
// fire-and-forget and never blocks the originating command.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entity types carried by events.
const (
	EntityItem  = "item"
	EntityAsset = "asset"
)

// Event describes one committed change to a shared quantity or
// availability flag.
type Event struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Quantity   *int      `json:"quantity,omitempty"`
	Available  *bool     `json:"available,omitempty"`
	At         time.Time `json:"at"`
}

// ItemChanged builds an event for an item whose quantity changed.
func ItemChanged(id int64, quantity int) Event {
	return Event{
		ID:         uuid.New(),
		EntityType: EntityItem,
		EntityID:   id,
		Quantity:   &quantity,
		At:         time.Now().UTC(),
	}
}

// AssetChanged builds an event for an asset whose availability changed.
func AssetChanged(id int64, available bool) Event {
	return Event{
		ID:         uuid.New(),
		EntityType: EntityAsset,
		EntityID:   id,
		Available:  &available,
		At:         time.Now().UTC(),
	}
}

// Notifier receives committed change events.
type Notifier interface {
	Notify(Event)
}

// Bus fans events out to subscribers. Each delivery runs in its own
// goroutine so a slow subscriber cannot hold up a ledger command.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Notify delivers the event to all subscribers without blocking.
func (b *Bus) Notify(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		go fn(e)
	}
}
