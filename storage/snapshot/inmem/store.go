package inmemstore

import (
	"sync"
	"time"

	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
)

// Store keeps the whole snapshot in memory behind a RWMutex.
// The first Load seeds the snapshot with the default dojo data.
type Store struct {
	mu     sync.RWMutex
	snap   snapshotdb.Snapshot
	seeded bool
}

var _ snapshotdb.Store = (*Store)(nil)

func Open() *Store {
	return &Store{}
}

func (s *Store) Load() (snapshotdb.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded {
		s.snap = snapshotdb.Seed(time.Now())
		s.seeded = true
	}
	snap := s.snap
	snapshotdb.Backfill(&snap, time.Now())
	return snap, nil
}

func (s *Store) Save(snap snapshotdb.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.seeded = true
	return nil
}
