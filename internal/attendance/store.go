package attendance

import (
	"context"
	"sort"
	"sync"

	"github.com/ironsheep/roster-attendance/internal/roster"
)

// Store accumulates every student's statuses across a batch of sheets.
//
// Merge is the only mutation. It passes the admission Gate first and then
// takes the mutex, so a sheet is merged as a whole: no reader or other
// merge can observe half of it.
type Store struct {
	gate *Gate

	mu       sync.Mutex
	statuses map[string][]string
	merges   int
}

// NewStore creates an empty store whose Merge admits at most limit callers
// past the gate at once.
func NewStore(limit int) *Store {
	return &Store{
		gate:     NewGate(limit),
		statuses: make(map[string][]string),
	}
}

// Merge appends each entry's statuses to that student's sequence, inserting
// the student if unseen. Both statuses of an entry stay adjacent.
func (s *Store) Merge(rec roster.Record) {
	// Background context: an admitted record is never dropped.
	_ = s.gate.Enter(context.Background())
	defer s.gate.Leave()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range rec {
		s.statuses[e.Name] = append(s.statuses[e.Name], e.Session1, e.Session2)
	}
	s.merges++
}

// Snapshot returns a deep copy of the accumulated statuses.
func (s *Store) Snapshot() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]string, len(s.statuses))
	for name, st := range s.statuses {
		out[name] = append([]string(nil), st...)
	}
	return out
}

// Students returns the known student names, sorted.
func (s *Store) Students() []string {
	s.mu.Lock()
	names := make([]string, 0, len(s.statuses))
	for name := range s.statuses {
		names = append(names, name)
	}
	s.mu.Unlock()

	sort.Strings(names)
	return names
}

// Merges returns how many records have been merged.
func (s *Store) Merges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merges
}

// Gate exposes the store's admission gate.
func (s *Store) Gate() *Gate { return s.gate }
