package notify

import (
	"sync"
	"time"
)

// Bus: sipariş tarafından kasa paneline atılan "yeni kayıt var" sinyali.
// Tarayıcıdaki postMessage'ın karşılığı: teslimat garantisi yok, ack yok,
// dolunca en eski olay düşer. Sipariş akışı bu kanala asla bel bağlamaz.

type EventKind string

const (
	EventNewOrder     EventKind = "new_order"
	EventQuickRequest EventKind = "quick_request"
)

type Event struct {
	Kind      EventKind   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

const busCapacity = 50

type Bus struct {
	mu     sync.Mutex
	events []Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Publish: bloklamaz, hata dönmez
func (b *Bus) Publish(kind EventKind, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, Event{
		Kind:      kind,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if len(b.events) > busCapacity {
		b.events = b.events[len(b.events)-busCapacity:]
	}
}

// Recent: en yeni olay başta
func (b *Bus) Recent(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if limit <= 0 || limit > len(b.events) {
		limit = len(b.events)
	}
	out := make([]Event, 0, limit)
	for i := len(b.events) - 1; i >= len(b.events)-limit; i-- {
		out = append(out, b.events[i])
	}
	return out
}
