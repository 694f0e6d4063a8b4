package eqwho

import (
	"fmt"
	"sync"
)

// Store holds captured snapshots newest-first and drops re-parsed
// duplicates. The monitor goroutine writes while any number of consumers
// read, so all access is guarded.
type Store struct {
	mu    sync.RWMutex
	snaps []Snapshot
	seen  map[string]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Add inserts a snapshot at the front unless an identical capture (same
// timestamp, same lines) is already stored. Reports whether the snapshot
// was added.
func (s *Store) Add(snap Snapshot) bool {
	key := snap.key()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.snaps = append([]Snapshot{snap}, s.snaps...)
	return true
}

// All returns the stored snapshots, newest first. The returned slice is a
// copy and safe to retain.
func (s *Store) All() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

// Get returns the snapshot at the given newest-first index. Returns
// ErrOutOfRange for indexes outside [0, Len).
func (s *Store) Get(index int) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.snaps) {
		return Snapshot{}, fmt.Errorf("%w: index %d with %d stored", ErrOutOfRange, index, len(s.snaps))
	}
	return s.snaps[index], nil
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}

// Clear removes all snapshots. Previously seen captures may be stored
// again afterward.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = nil
	s.seen = make(map[string]struct{})
}
