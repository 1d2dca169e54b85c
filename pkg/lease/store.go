// Package lease tracks which node, if any, holds an exclusive claim on
// a dataset. Leases gate destructive and migratory operations: a
// dataset with a live lease held by some node cannot be moved or
// deleted at another node's request.
//
// The store is the single owner of lease state. Expiry is lazy: a
// lease whose deadline has passed is treated as non-existent by every
// query and conflict check, with no background sweeper.
package lease

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/lease/status"
	"github.com/volmand/volmand/pkg/model"
)

// Forever acquires a lease with no expiry.
const Forever time.Duration = 0

// Store holds the cluster's lease table.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	leases map[uuid.UUID]model.Lease
	l      *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock injects a time source, so tests can control expiry
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a logger for the store
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// New builds an empty lease store.
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		leases: make(map[uuid.UUID]model.Lease),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// live returns the current lease on a dataset, dropping it from the
// table if it has lapsed. Callers must hold s.mu.
func (s *Store) live(datasetID uuid.UUID) (model.Lease, bool) {
	lease, ok := s.leases[datasetID]
	if !ok {
		return model.Lease{}, false
	}
	if lease.Expired(s.now()) {
		delete(s.leases, datasetID)
		s.l.Debug("lease expired",
			zap.Stringer("dataset_id", lease.DatasetID),
			zap.Stringer("node_id", lease.NodeID))
		return model.Lease{}, false
	}
	return lease, true
}

// Acquire claims the dataset for the node for the given duration, or
// forever when ttl <= 0. A live lease held by another node fails with
// ErrLeaseConflict without state change; re-acquiring by the holding
// node refreshes the expiry.
func (s *Store) Acquire(datasetID, nodeID uuid.UUID, ttl time.Duration) (model.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.live(datasetID); ok && current.NodeID != nodeID {
		return model.Lease{}, status.ErrLeaseConflict
	}
	lease := model.Lease{DatasetID: datasetID, NodeID: nodeID}
	if ttl > 0 {
		lease.Expires = s.now().Add(ttl)
	}
	s.leases[datasetID] = lease
	s.l.Debug("lease acquired",
		zap.Stringer("dataset_id", datasetID),
		zap.Stringer("node_id", nodeID),
		zap.Time("expires", lease.Expires))
	return lease, nil
}

// Release drops the node's lease on the dataset. Fails with
// ErrNoSuchLease when no live lease exists, or ErrNotLeaseHolder when
// another node holds it.
func (s *Store) Release(datasetID, nodeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.live(datasetID)
	if !ok {
		return status.ErrNoSuchLease
	}
	if current.NodeID != nodeID {
		return status.ErrNotLeaseHolder
	}
	delete(s.leases, datasetID)
	s.l.Debug("lease released",
		zap.Stringer("dataset_id", datasetID),
		zap.Stringer("node_id", nodeID))
	return nil
}

// List returns all live leases, ordered by dataset id.
func (s *Store) List() []model.Lease {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Lease, 0, len(s.leases))
	for datasetID := range s.leases {
		if lease, ok := s.live(datasetID); ok {
			out = append(out, lease)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DatasetID.String() < out[j].DatasetID.String()
	})
	return out
}

// IsLeased reports whether a live lease exists on the dataset held by
// a node other than excluding. This is the migration/deletion gate.
func (s *Store) IsLeased(datasetID, excluding uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.live(datasetID)
	return ok && current.NodeID != excluding
}

// Export copies out the live leases for persistence.
func (s *Store) Export() []model.Lease {
	return s.List()
}

// Restore replaces the table with previously exported leases. Lapsed
// entries are dropped on the next query.
func (s *Store) Restore(leases []model.Lease) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leases = make(map[uuid.UUID]model.Lease, len(leases))
	for _, lease := range leases {
		s.leases[lease.DatasetID] = lease
	}
}
