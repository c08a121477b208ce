package dataset

import "sync/atomic"

// Store holds the current Table for concurrent readers.
//
// Readers take a snapshot once per request and keep using it even if a
// refresh swaps in a newer table meanwhile.
type Store struct {
	current atomic.Pointer[Table]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current table, or nil before the first load.
func (s *Store) Snapshot() *Table {
	return s.current.Load()
}

// Swap publishes t and returns the table it replaces.
func (s *Store) Swap(t *Table) *Table {
	return s.current.Swap(t)
}

// Ready reports whether a non-empty table has been published.
func (s *Store) Ready() bool {
	return s.Snapshot().Len() > 0
}
