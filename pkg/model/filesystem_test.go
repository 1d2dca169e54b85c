package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilesystemName(t *testing.T) {
	fs := NewFilesystem("hpool", "mydataset")
	assert.Equal(t, "hpool/mydataset", fs.Name())
}

func TestFilesystemRootName(t *testing.T) {
	fs := NewFilesystem("hpool", "")
	assert.Equal(t, "hpool", fs.Name())
}

func TestFilesystemEquality(t *testing.T) {
	// mountpoint, size and execution handle play no part in identity
	a := NewFilesystem("zpool", "zdata", Mountpoint("foo"), Size(123), Exec(&struct{}{}))
	b := NewFilesystem("zpool", "zdata", Mountpoint("bar"), Size(321), Exec(&struct{}{}))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestFilesystemInequalityPool(t *testing.T) {
	a := NewFilesystem("apool", "zdata", Mountpoint("/foo"), Size(123))
	b := NewFilesystem("bpool", "zdata", Mountpoint("/foo"), Size(123))
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}

func TestFilesystemInequalityDataset(t *testing.T) {
	a := NewFilesystem("zpool", "adataset", Mountpoint("/foo"), Size(123))
	b := NewFilesystem("zpool", "bdataset", Mountpoint("/foo"), Size(123))
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}

func TestFilesystemAttributes(t *testing.T) {
	fs := NewFilesystem("zpool", "zdata", Mountpoint("/mnt/zdata"), Size(1<<30))
	assert.Equal(t, "zpool", fs.Pool())
	assert.Equal(t, "zdata", fs.Dataset())
	assert.Equal(t, "/mnt/zdata", fs.Mountpoint())
	assert.Equal(t, uint64(1<<30), fs.Size())
}
