// Package status exports errors produced by the lease package.
package status

import (
	"github.com/volmand/volmand/pkg/errors"
)

var (
	// ErrLeaseConflict indicates a live lease on the dataset is held by
	// another node
	ErrLeaseConflict = errors.New("dataset already leased by another node")

	// ErrNotLeaseHolder indicates the releasing node does not hold the lease
	ErrNotLeaseHolder = errors.New("lease held by another node")

	// ErrNoSuchLease indicates no live lease exists on the dataset
	ErrNoSuchLease = errors.New("no lease on dataset")
)
