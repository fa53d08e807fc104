// Package event is an in-process publish/subscribe bus for domain events
// such as "order.created".
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Bus routes events to their listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewBus returns a bus whose async listeners run on pool. A nil pool runs
// them on fresh goroutines.
func NewBus(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire calls every listener synchronously, in registration order.
func (b *Bus) Fire(ctx context.Context, name string, payload interface{}) {
	for _, h := range b.listeners(name) {
		h(ctx, payload)
	}
}

// FireAsync hands each listener to the pool and returns immediately. The
// listeners get a context that survives the end of the request. When the
// pool is saturated the listener is skipped and a warning logged.
func (b *Bus) FireAsync(ctx context.Context, name string, payload interface{}) {
	detached := context.WithoutCancel(ctx)
	for _, h := range b.listeners(name) {
		h := h
		task := func() { h(detached, payload) }
		if b.pool == nil {
			go task()
			continue
		}
		if err := b.pool.Submit(task); err != nil {
			logger.WithCtx(ctx).Warn("event: listener dropped", "event", name, "error", err)
		}
	}
}

// Has reports whether name has at least one listener.
func (b *Bus) Has(name string) bool {
	return len(b.listeners(name)) > 0
}
