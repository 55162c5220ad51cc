package memory

import (
	"context"
	"sync"

	audit "personnummer/pkg/platform/audit"
)

const defaultCapacity = 10000

// InMemoryStore keeps the most recent events in a bounded ring. When full,
// the oldest event is overwritten.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   []audit.Event
	head     int // next write position
	count    int
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &InMemoryStore{
		events:   make([]audit.Event, capacity),
		capacity: capacity,
	}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count < s.capacity {
		s.count++
	}
	s.events[s.head] = event
	s.head = (s.head + 1) % s.capacity
	return nil
}

// ListRecent returns up to limit events, oldest first. A non-positive limit
// returns everything retained.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]audit.Event, 0, n)
	start := (s.head - n + s.capacity) % s.capacity
	for i := range n {
		out = append(out, s.events[(start+i)%s.capacity])
	}
	return out, nil
}
