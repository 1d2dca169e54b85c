// Package status exports errors produced by the core package.
package status

import (
	"github.com/volmand/volmand/pkg/errors"
)

var (
	// ErrNoSourceSnapshot indicates a replication was requested from a
	// filesystem with an empty snapshot history
	ErrNoSourceSnapshot = errors.New("source filesystem has no snapshots")

	// ErrDestinationNotEmpty indicates a full transfer was required but
	// the destination already holds unrelated data
	ErrDestinationNotEmpty = errors.New("destination filesystem already has snapshots with no common ancestor")

	// ErrSnapshotExists indicates an append of a snapshot name already
	// present in a filesystem's history
	ErrSnapshotExists = errors.New("snapshot already in history")

	// ErrDatasetLeased indicates a move or delete was denied because a
	// live lease is held by another node
	ErrDatasetLeased = errors.New("dataset is leased by another node")

	// ErrUnknownDataset indicates the dataset id is not in the registry
	ErrUnknownDataset = errors.New("unknown dataset")
)
