package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/core/status"
	"github.com/volmand/volmand/pkg/lease"
	"github.com/volmand/volmand/pkg/model"
	"github.com/volmand/volmand/pkg/zfs"
)

// Manager is the operation surface consumed by the API layer: lease
// acquisition and release, and lease-gated dataset migration and
// deletion. It owns the placement registry and one snapshot catalog
// per node.
type Manager struct {
	mu       sync.Mutex
	leases   *lease.Store
	engine   *Engine
	runner   zfs.Runner
	catalogs map[uuid.UUID]*Catalog
	datasets map[uuid.UUID]model.DatasetRecord
	l        *zap.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithRunner injects the command runner used for best-effort dataset
// destruction and snapshot discovery
func WithRunner(r zfs.Runner) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.runner = r
		}
	}
}

// ManagerLogger sets a logger on the manager
func ManagerLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.l = l
		}
	}
}

// NewManager wires the lease store and replication engine into the
// operation surface.
func NewManager(leases *lease.Store, engine *Engine, opts ...ManagerOption) *Manager {
	m := &Manager{
		leases:   leases,
		engine:   engine,
		runner:   zfs.ExecRunner{},
		catalogs: make(map[uuid.UUID]*Catalog),
		datasets: make(map[uuid.UUID]model.DatasetRecord),
		l:        zap.NewNop(),
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// RegisterDataset records a dataset's placement. Re-registration
// overwrites the previous record.
func (m *Manager) RegisterDataset(record model.DatasetRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[record.ID] = record
}

// Datasets returns the placement registry, ordered by dataset id.
func (m *Manager) Datasets() []model.DatasetRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.DatasetRecord, 0, len(m.datasets))
	for _, record := range m.datasets {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// CatalogFor returns the node's snapshot catalog, creating it on first
// use.
func (m *Manager) CatalogFor(nodeID uuid.UUID) *Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogForLocked(nodeID)
}

func (m *Manager) catalogForLocked(nodeID uuid.UUID) *Catalog {
	c, ok := m.catalogs[nodeID]
	if !ok {
		c = NewCatalog(CatalogLogger(m.l))
		m.catalogs[nodeID] = c
	}
	return c
}

// AcquireLease claims the dataset for the node. expiresIn <= 0 means
// the lease never expires.
func (m *Manager) AcquireLease(_ context.Context, datasetID, nodeID uuid.UUID, expiresIn time.Duration) (model.Lease, error) {
	return m.leases.Acquire(datasetID, nodeID, expiresIn)
}

// ReleaseLease drops the node's lease on the dataset.
func (m *Manager) ReleaseLease(_ context.Context, datasetID, nodeID uuid.UUID) error {
	return m.leases.Release(datasetID, nodeID)
}

// ListLeases returns all live leases.
func (m *Manager) ListLeases(_ context.Context) []model.Lease {
	return m.leases.List()
}

// MoveDataset migrates a dataset to the target node. The move is
// denied with ErrDatasetLeased while a node other than the target
// holds a live lease. On success the target becomes the primary and
// its catalog carries the replicated history.
func (m *Manager) MoveDataset(ctx context.Context, datasetID, targetNodeID uuid.UUID) error {
	m.mu.Lock()
	record, ok := m.datasets[datasetID]
	if !ok {
		m.mu.Unlock()
		return status.ErrUnknownDataset
	}
	if record.Primary == targetNodeID {
		m.mu.Unlock()
		return nil
	}
	source := record.Filesystem
	destination := model.NewFilesystem(source.Pool(), source.Dataset(),
		model.Mountpoint(source.Mountpoint()), model.Size(source.Size()))
	sourceHistory := m.catalogForLocked(record.Primary).History(source)
	destinationHistory := m.catalogForLocked(targetNodeID).History(destination)
	m.mu.Unlock()

	if m.leases.IsLeased(datasetID, targetNodeID) {
		m.l.Info("move denied, dataset is leased",
			zap.Stringer("dataset_id", datasetID),
			zap.Stringer("target_node_id", targetNodeID))
		return status.ErrDatasetLeased
	}

	if err := m.engine.Replicate(ctx, source, destination, sourceHistory, destinationHistory); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	target := m.catalogForLocked(targetNodeID)
	for _, snap := range sourceHistory {
		if _, found := target.Lookup(destination, snap.Name); !found {
			_ = target.Append(destination, snap)
		}
	}
	// the registry may have changed while the transfer ran; re-read so a
	// concurrent re-registration is not clobbered
	record, ok = m.datasets[datasetID]
	if !ok {
		return status.ErrUnknownDataset
	}
	record.Primary = targetNodeID
	m.datasets[datasetID] = record
	m.l.Info("dataset moved",
		zap.Stringer("dataset_id", datasetID),
		zap.Stringer("node_id", targetNodeID))
	return nil
}

// DeleteDataset removes a dataset at the requesting node. Denied with
// ErrDatasetLeased while another node holds a live lease. The on-disk
// destruction is best-effort: a tool failure is absorbed and logged,
// not returned.
func (m *Manager) DeleteDataset(ctx context.Context, datasetID, nodeID uuid.UUID) error {
	m.mu.Lock()
	record, ok := m.datasets[datasetID]
	m.mu.Unlock()
	if !ok {
		return status.ErrUnknownDataset
	}
	if m.leases.IsLeased(datasetID, nodeID) {
		m.l.Info("delete denied, dataset is leased",
			zap.Stringer("dataset_id", datasetID),
			zap.Stringer("node_id", nodeID))
		return status.ErrDatasetLeased
	}

	zfs.CommandSquashed(ctx, m.runner, m.l, "destroy", "-r", record.Filesystem.Name())

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.datasets, datasetID)
	m.l.Info("dataset deleted", zap.Stringer("dataset_id", datasetID))
	return nil
}

// SyncSnapshots refreshes a node's catalog from the live snapshot list
// reported by the storage tool, appending entries not yet recorded.
func (m *Manager) SyncSnapshots(ctx context.Context, nodeID uuid.UUID, fs model.Filesystem) error {
	snaps, err := zfs.ListSnapshots(ctx, m.runner, fs)
	if err != nil {
		return err
	}
	catalog := m.CatalogFor(nodeID)
	for _, snap := range snaps {
		if _, found := catalog.Lookup(fs, snap.Name); !found {
			if err := catalog.Append(fs, snap); err != nil {
				return err
			}
		}
	}
	return nil
}
