package home

import "sync/atomic"

// empty is returned by Store.Current before anything has been published.
var empty = NewSnapshot(nil, nil, nil)

// Store holds the current Snapshot and swaps it atomically on every
// platform sync. Readers never observe a half-built snapshot: a new one is
// fully constructed before Publish makes it visible.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the most recently published snapshot. It never returns nil.
func (s *Store) Current() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return empty
}

// Publish replaces the current snapshot and returns the new version number.
// A nil snapshot is treated as empty.
func (s *Store) Publish(snap *Snapshot) uint64 {
	if snap == nil {
		snap = empty
	}
	s.current.Store(snap)
	return s.version.Add(1)
}

// Version returns how many snapshots have been published.
func (s *Store) Version() uint64 {
	return s.version.Load()
}
