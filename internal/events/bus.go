package events

import (
	"sync"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

// Handler receives one stored event. Handlers run synchronously after the
// event row is durably written; a failing handler only means that one read
// model is stale.
type Handler func(event types.Event)

// Bus fans stored events out to read-model projectors. It is owned by the
// wiring layer and passed to constructors, never a process-wide singleton,
// so every test can run against a fresh one.
type Bus struct {
	mu       sync.RWMutex
	log      *logger.Logger
	handlers map[Kind][]Handler
}

func NewBus(baseLog *logger.Logger) *Bus {
	return &Bus{
		log:      baseLog.With("component", "EventBus"),
		handlers: make(map[Kind][]Handler),
	}
}

func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Publish invokes every handler registered for the event's kind. A
// panicking handler is recovered and logged so the remaining handlers
// still run and the original caller never sees the failure.
func (b *Bus) Publish(event types.Event) {
	b.mu.RLock()
	hs := b.handlers[Kind(event.Type)]
	b.mu.RUnlock()
	for _, h := range hs {
		b.invoke(h, event)
	}
}

func (b *Bus) invoke(h Handler, event types.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", "type", event.Type, "panic", r)
		}
	}()
	h(event)
}
