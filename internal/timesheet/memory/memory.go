// Package memory is an in-process timesheet target for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "hourtracker/internal/timesheet"
)

type Store struct {
	mu   sync.Mutex
	rows []ports.Row
}

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row ports.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// List returns the stored rows in append order.
func (s *Store) List(_ context.Context) ([]ports.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Row(nil), s.rows...), nil
}
