// Package memory is a process-local Slot used for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"
)

type Slot struct {
	mu     sync.Mutex
	values map[string][]byte
}

func New() *Slot {
	return &Slot{values: map[string][]byte{}}
}

// NewWithValue returns a slot pre-seeded with value under key.
func NewWithValue(key string, value []byte) *Slot {
	s := New()
	s.values[key] = append([]byte(nil), value...)
	return s
}

// Get returns a copy of the stored value.
func (s *Slot) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value, replacing anything under key.
func (s *Slot) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Keys returns the number of stored keys.
func (s *Slot) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
