// Package status exports errors produced by the model package.
package status

import (
	"github.com/volmand/volmand/pkg/errors"
)

var (
	// ErrImmutableField indicates an attempt to rebind a field of an
	// immutable value type. This is a programming error, not a runtime
	// condition to recover from.
	ErrImmutableField = errors.New("field of immutable value cannot be rebound")
)
