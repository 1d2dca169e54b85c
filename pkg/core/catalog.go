package core

import (
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix"
	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/core/status"
	"github.com/volmand/volmand/pkg/model"
)

// Catalog holds the ordered snapshot history of every filesystem on
// one node. Histories are append-only: entries are never reordered or
// deleted (retention is out of scope). A radix index per filesystem
// backs name lookups.
type Catalog struct {
	mu        sync.RWMutex
	histories map[string]model.Snapshots
	index     map[string]*iradix.Tree
	l         *zap.Logger
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// CatalogLogger sets a logger on the catalog
func CatalogLogger(l *zap.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.l = l
		}
	}
}

// NewCatalog builds an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		histories: make(map[string]model.Snapshots),
		index:     make(map[string]*iradix.Tree),
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// Append records a newly taken snapshot as the most recent entry of
// the filesystem's history. A name already present fails with
// ErrSnapshotExists.
func (c *Catalog) Append(fs model.Filesystem, snap model.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := fs.Name()
	idx, ok := c.index[key]
	if !ok {
		idx = iradix.New()
	}
	if _, found := idx.Get([]byte(snap.Name)); found {
		return status.ErrSnapshotExists
	}
	c.histories[key] = append(c.histories[key], snap)
	idx, _, _ = idx.Insert([]byte(snap.Name), len(c.histories[key])-1)
	c.index[key] = idx
	c.l.Debug("snapshot recorded",
		zap.String("filesystem", key),
		zap.String("snapshot", snap.Name))
	return nil
}

// History returns a copy of the filesystem's history, oldest first.
func (c *Catalog) History(fs model.Filesystem) model.Snapshots {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := c.histories[fs.Name()]
	out := make(model.Snapshots, len(history))
	copy(out, history)
	return out
}

// Latest returns the most recently taken snapshot of the filesystem.
func (c *Catalog) Latest(fs model.Filesystem) (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.histories[fs.Name()].Latest()
}

// Lookup finds a snapshot of the filesystem by name.
func (c *Catalog) Lookup(fs model.Filesystem, name string) (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.index[fs.Name()]
	if !ok {
		return model.Snapshot{}, false
	}
	pos, found := idx.Get([]byte(name))
	if !found {
		return model.Snapshot{}, false
	}
	return c.histories[fs.Name()][pos.(int)], true
}

// Filesystems lists the names of filesystems with a recorded history.
func (c *Catalog) Filesystems() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.histories))
	for name := range c.histories {
		out = append(out, name)
	}
	return out
}

// Export copies out all histories for persistence.
func (c *Catalog) Export() map[string]model.Snapshots {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]model.Snapshots, len(c.histories))
	for name, history := range c.histories {
		cp := make(model.Snapshots, len(history))
		copy(cp, history)
		out[name] = cp
	}
	return out
}

// Import replaces the catalog content with previously exported
// histories.
func (c *Catalog) Import(histories map[string]model.Snapshots) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.histories = make(map[string]model.Snapshots, len(histories))
	c.index = make(map[string]*iradix.Tree, len(histories))
	for name, history := range histories {
		cp := make(model.Snapshots, len(history))
		copy(cp, history)
		c.histories[name] = cp
		idx := iradix.New()
		for pos, snap := range cp {
			idx, _, _ = idx.Insert([]byte(snap.Name), pos)
		}
		c.index[name] = idx
	}
}
