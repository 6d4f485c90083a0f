package storage

import (
	"sync"

	"poolEngine/internal/model"
)

// MemorySink buffers event records in memory. Used in tests and by the
// simulator when no journal path is configured.
type MemorySink struct {
	mu     sync.Mutex
	events []model.EventRecord
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) PutEventBatch(events []model.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Events returns a copy of everything recorded so far.
func (s *MemorySink) Events() []model.EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EventRecord, len(s.events))
	copy(out, s.events)
	return out
}
