package memory

import (
	"context"
	"sync"

	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/models"
)

// InMemoryStore keeps events in append order. Used when no external sink is
// configured and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []events.Event
	limit  int
}

// NewInMemoryStore keeps at most limit events, discarding the oldest. A
// non-positive limit keeps everything.
func NewInMemoryStore(limit int) *InMemoryStore {
	return &InMemoryStore{limit: limit}
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.limit > 0 && len(s.events) > s.limit {
		s.events = append([]events.Event(nil), s.events[len(s.events)-s.limit:]...)
	}
	return nil
}

// ListAll returns every retained event.
func (s *InMemoryStore) ListAll(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events...), nil
}

// ListByDeclaration returns the events of one declaration.
func (s *InMemoryStore) ListByDeclaration(_ context.Context, id models.ServiceID) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []events.Event
	for _, e := range s.events {
		if e.DeclarationID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns the most recent limit events.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if start < 0 {
		start = 0
	}
	return append([]events.Event{}, s.events[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
