// Package model describes the value types handled by the volmand control
// plane: filesystems, snapshots, dataset descriptors and leases.
//
// All types in this package are immutable values: identity is fixed at
// construction and attempted rebinding either does not compile (unexported
// fields) or fails with status.ErrImmutableField.
package model
