// Package memory is an in-process ledger backend for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"kassabot/internal/core"
	"kassabot/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []core.Entry
}

var _ ledger.Backend = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// Query returns entries inside the period in append order.
func (s *Store) Query(_ context.Context, p core.Period) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, e := range s.entries {
		if p.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
