package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is used when NewBus is given a non-positive size.
const DefaultBufferSize = 1024

// Bus decouples the registry from sinks. Publish never blocks: when the buffer
// is full the event is dropped and counted.
type Bus struct {
	ch      chan Event
	dropped atomic.Uint64
	onDrop  func()
	logger  *slog.Logger

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithDropHook is called for every dropped event.
func WithDropHook(fn func()) BusOption {
	return func(b *Bus) {
		b.onDrop = fn
	}
}

// WithBusLogger sets the logger used to report drops.
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates a bus buffering up to size events.
func NewBus(size int, opts ...BusOption) *Bus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	b := &Bus{ch: make(chan Event, size), logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish enqueues e without blocking.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.ch <- e.Stamp(time.Now()):
	default:
		b.dropped.Add(1)
		if b.onDrop != nil {
			b.onDrop()
		}
		b.logger.WarnContext(ctx, "event buffer full, dropping event",
			"action", e.Action,
			"declaration_id", e.DeclarationID,
		)
	}
}

// Events exposes the buffered events to a Worker.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Dropped returns the number of events dropped so far.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close stops accepting events and closes the channel so workers drain and exit.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.ch)
		b.mu.Unlock()
	})
}
