// Package status exports errors produced by the zfs package.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/zfs and its callers.
package status

import (
	"github.com/volmand/volmand/pkg/errors"
)

var (
	// ErrCommandFailed indicates the storage tool reported a generic
	// failure (exit code 1). Callers may retry or surface to an operator.
	ErrCommandFailed = errors.New("zfs command failed")

	// ErrBadArguments indicates the storage tool rejected its arguments
	// (exit code 2). Retrying with the same arguments is pointless.
	ErrBadArguments = errors.New("zfs command got bad arguments")
)
