package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// Store persists vectorizer state snapshots
type Store interface {
	Close() error

	// SaveSnapshot stores a copy of state under label and returns its metadata.
	SaveSnapshot(ctx context.Context, label string, state vectorizer.State) (SnapshotInfo, error)
	// GetSnapshot loads a snapshot by ID; unknown IDs yield internalerr.ErrNotFound.
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	// LatestSnapshot returns the most recent snapshot saved under label.
	LatestSnapshot(ctx context.Context, label string) (Snapshot, bool, error)
	// ListSnapshots returns metadata of all snapshots, oldest first.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	// DeleteSnapshot removes a snapshot; unknown IDs yield internalerr.ErrNotFound.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotInfo describes a stored snapshot without its payload
type SnapshotInfo struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Dim       int
	Probes    int
	UseIDF    bool
	Sampled   int64
	Rows      int
}

// Snapshot is a stored vectorizer state
type Snapshot struct {
	SnapshotInfo
	State vectorizer.State
}

// IDGenerator issues monotonic ULIDs. It is safe for concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator seeded from crypto/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns an ID for time t. IDs sort in creation order.
func (g *IDGenerator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// Info builds snapshot metadata for state.
func Info(id, label string, createdAt time.Time, state vectorizer.State) SnapshotInfo {
	return SnapshotInfo{
		ID:        id,
		Label:     label,
		CreatedAt: createdAt,
		Dim:       state.Dim,
		Probes:    state.Probes,
		UseIDF:    state.UseIDF,
		Sampled:   state.Sampled,
		Rows:      len(state.Rows),
	}
}

// CopyState returns a deep copy of state.
func CopyState(state vectorizer.State) vectorizer.State {
	out := state
	out.DF = append([]int64(nil), state.DF...)
	out.Rows = make([][]float64, len(state.Rows))
	for i, row := range state.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}
