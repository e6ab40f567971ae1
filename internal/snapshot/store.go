package snapshot

import "sync"

// Store owns the one Snapshot shared by all samplers and the aggregator.
//
// Apply and Read are the only ways in; both hold the lock just long enough
// to copy values, so callers must finish any sampling before calling Apply.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore returns a store holding an all-default Snapshot.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{
			Keys:           KeySet{},
			PointerButtons: []bool{},
			OpenWindows:    []WindowInfo{},
		},
	}
}

// Apply runs update against the live Snapshot under the write lock. Readers
// see either none or all of update's writes. update must not call back into
// the store.
func (s *Store) Apply(update func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update(&s.snap)
}

// Read returns a deep copy of the current Snapshot.
func (s *Store) Read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.Clone()
}
