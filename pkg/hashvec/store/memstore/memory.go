package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/store"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	ids       *store.IDGenerator
	now       func() time.Time
	snapshots map[string]store.Snapshot
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:       store.NewIDGenerator(),
		now:       time.Now,
		snapshots: make(map[string]store.Snapshot),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot stores a deep copy of state.
func (s *Store) SaveSnapshot(ctx context.Context, label string, state vectorizer.State) (store.SnapshotInfo, error) {
	if err := state.Validate(); err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	info := store.Info(s.ids.New(now), label, now, state)
	s.snapshots[info.ID] = store.Snapshot{SnapshotInfo: info, State: store.CopyState(state)}
	return info, nil
}

// GetSnapshot returns a snapshot by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return copySnapshot(snap), nil
}

// LatestSnapshot returns the newest snapshot with the given label.
func (s *Store) LatestSnapshot(ctx context.Context, label string) (store.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest store.Snapshot
	found := false
	for id, snap := range s.snapshots {
		if snap.Label != label {
			continue
		}
		if !found || id > latest.ID {
			latest = snap
			found = true
		}
	}
	if !found {
		return store.Snapshot{}, false, nil
	}
	return copySnapshot(latest), true, nil
}

// ListSnapshots returns all snapshot metadata ordered by ID.
func (s *Store) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.SnapshotInfo, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap.SnapshotInfo)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteSnapshot removes a snapshot by ID.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	delete(s.snapshots, id)
	return nil
}

func copySnapshot(snap store.Snapshot) store.Snapshot {
	return store.Snapshot{SnapshotInfo: snap.SnapshotInfo, State: store.CopyState(snap.State)}
}
