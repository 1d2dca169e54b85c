package core

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"github.com/volmand/volmand/pkg/model"
	"github.com/volmand/volmand/pkg/storage"
)

// Serialized control-plane state. Kept separate from the model types so
// the wire layout can evolve without touching them.
type stateDoc struct {
	Leases   []leaseDoc            `yaml:"leases,omitempty"`
	Datasets []datasetDoc          `yaml:"datasets,omitempty"`
	Catalogs map[string]catalogDoc `yaml:"catalogs,omitempty"`
}

type leaseDoc struct {
	DatasetID string    `yaml:"dataset_id"`
	NodeID    string    `yaml:"node_id"`
	Expires   time.Time `yaml:"expires,omitempty"`
}

type datasetDoc struct {
	ID         string `yaml:"id"`
	Primary    string `yaml:"primary"`
	Pool       string `yaml:"pool"`
	Dataset    string `yaml:"dataset,omitempty"`
	Mountpoint string `yaml:"mountpoint,omitempty"`
	Size       uint64 `yaml:"size,omitempty"`
}

type catalogDoc map[string][]string

// Save writes the lease table, placement registry and snapshot
// catalogs to the store under key.
func (m *Manager) Save(ctx context.Context, store storage.Store, key string) error {
	doc := stateDoc{Catalogs: make(map[string]catalogDoc)}

	for _, l := range m.leases.Export() {
		doc.Leases = append(doc.Leases, leaseDoc{
			DatasetID: l.DatasetID.String(),
			NodeID:    l.NodeID.String(),
			Expires:   l.Expires,
		})
	}

	m.mu.Lock()
	for _, record := range m.datasets {
		fs := record.Filesystem
		doc.Datasets = append(doc.Datasets, datasetDoc{
			ID:         record.ID.String(),
			Primary:    record.Primary.String(),
			Pool:       fs.Pool(),
			Dataset:    fs.Dataset(),
			Mountpoint: fs.Mountpoint(),
			Size:       fs.Size(),
		})
	}
	for nodeID, catalog := range m.catalogs {
		histories := catalog.Export()
		if len(histories) == 0 {
			continue
		}
		node := make(catalogDoc, len(histories))
		for fsName, history := range histories {
			names := make([]string, 0, len(history))
			for _, snap := range history {
				names = append(names, snap.Name)
			}
			node[fsName] = names
		}
		doc.Catalogs[nodeID.String()] = node
	}
	m.mu.Unlock()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, bytes.NewReader(data))
}

// Load replaces the manager's state with a previously saved document.
// The whole document is parsed before any state is touched: a corrupt
// document leaves the manager as it was.
func (m *Manager) Load(ctx context.Context, store storage.Store, key string) error {
	rdr, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rdr.Close()
	data, err := io.ReadAll(rdr)
	if err != nil {
		return err
	}
	var doc stateDoc
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	leases := make([]model.Lease, 0, len(doc.Leases))
	for _, l := range doc.Leases {
		datasetID, err := uuid.Parse(l.DatasetID)
		if err != nil {
			return err
		}
		nodeID, err := uuid.Parse(l.NodeID)
		if err != nil {
			return err
		}
		leases = append(leases, model.Lease{DatasetID: datasetID, NodeID: nodeID, Expires: l.Expires})
	}

	datasets := make(map[uuid.UUID]model.DatasetRecord, len(doc.Datasets))
	for _, d := range doc.Datasets {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return err
		}
		primary, err := uuid.Parse(d.Primary)
		if err != nil {
			return err
		}
		datasets[id] = model.DatasetRecord{
			ID:      id,
			Primary: primary,
			Filesystem: model.NewFilesystem(d.Pool, d.Dataset,
				model.Mountpoint(d.Mountpoint), model.Size(d.Size)),
		}
	}

	catalogs := make(map[uuid.UUID]*Catalog, len(doc.Catalogs))
	for node, histories := range doc.Catalogs {
		nodeID, err := uuid.Parse(node)
		if err != nil {
			return err
		}
		imported := make(map[string]model.Snapshots, len(histories))
		for fsName, names := range histories {
			history := make(model.Snapshots, 0, len(names))
			for _, name := range names {
				history = append(history, model.Snapshot{Name: name})
			}
			imported[fsName] = history
		}
		catalog := NewCatalog(CatalogLogger(m.l))
		catalog.Import(imported)
		catalogs[nodeID] = catalog
	}

	m.leases.Restore(leases)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = datasets
	m.catalogs = catalogs
	return nil
}
