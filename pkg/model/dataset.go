package model

import (
	"github.com/google/uuid"

	"github.com/volmand/volmand/pkg/model/status"
)

// DatasetInfo describes one dataset as reported by the storage tool:
// name, mountpoint and reference quota. Fully immutable after
// construction.
type DatasetInfo struct {
	dataset    string
	mountpoint string
	refquota   uint64
}

// NewDatasetInfo builds an immutable DatasetInfo.
func NewDatasetInfo(dataset, mountpoint string, refquota uint64) DatasetInfo {
	return DatasetInfo{
		dataset:    dataset,
		mountpoint: mountpoint,
		refquota:   refquota,
	}
}

// Dataset name
func (i DatasetInfo) Dataset() string { return i.dataset }

// Mountpoint path
func (i DatasetInfo) Mountpoint() string { return i.mountpoint }

// Refquota in bytes
func (i DatasetInfo) Refquota() uint64 { return i.refquota }

// SetDataset always fails: the field cannot be rebound.
func (i *DatasetInfo) SetDataset(string) error {
	return status.ErrImmutableField
}

// SetMountpoint always fails: the field cannot be rebound.
func (i *DatasetInfo) SetMountpoint(string) error {
	return status.ErrImmutableField
}

// SetRefquota always fails: the field cannot be rebound.
func (i *DatasetInfo) SetRefquota(uint64) error {
	return status.ErrImmutableField
}

// DatasetRecord is the placement registry entry for one cluster dataset:
// which node currently hosts it and as what filesystem.
type DatasetRecord struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	Primary    uuid.UUID  `json:"primary" yaml:"primary"`
	Filesystem Filesystem `json:"-" yaml:"-"`
}
