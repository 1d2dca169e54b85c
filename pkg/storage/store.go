// Package storage declares the K/V store port used to persist control
// plane state (lease table, snapshot catalogs, dataset registry).
//
// Implementations are assumed to be fairly simple, file system-like
// backends.
package storage

import (
	"context"
	"io"
)

// Store implementations know how to read and write whole opaque
// documents by key.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}

// PipeIO copies the reader to the writer until exhaustion
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	return io.Copy(writer, reader)
}
