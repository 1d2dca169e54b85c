package model

// Filesystem identifies a ZFS-backed storage unit on some node.
//
// Identity and equality are defined only by (pool, dataset): mountpoint,
// size and the execution handle are node-local attributes and two
// Filesystem values differing only in those are still equal.
type Filesystem struct {
	pool       string
	dataset    string
	mountpoint string
	size       uint64
	exec       interface{}
}

// FilesystemOption sets a mutable attribute at construction time
type FilesystemOption func(*Filesystem)

// Mountpoint sets the path the filesystem is mounted at
func Mountpoint(path string) FilesystemOption {
	return func(f *Filesystem) {
		f.mountpoint = path
	}
}

// Size sets the quota of the filesystem, in bytes
func Size(bytes uint64) FilesystemOption {
	return func(f *Filesystem) {
		f.size = bytes
	}
}

// Exec attaches an opaque execution handle (e.g. the command runner for
// the node hosting this filesystem). Excluded from equality.
func Exec(handle interface{}) FilesystemOption {
	return func(f *Filesystem) {
		f.exec = handle
	}
}

// NewFilesystem builds a Filesystem for pool/dataset. An empty dataset
// denotes the pool's root filesystem.
func NewFilesystem(pool, dataset string, opts ...FilesystemOption) Filesystem {
	f := Filesystem{pool: pool, dataset: dataset}
	for _, apply := range opts {
		apply(&f)
	}
	return f
}

// Pool name
func (f Filesystem) Pool() string { return f.pool }

// Dataset name; empty for the pool root
func (f Filesystem) Dataset() string { return f.dataset }

// Mountpoint path
func (f Filesystem) Mountpoint() string { return f.mountpoint }

// Size quota in bytes
func (f Filesystem) Size() uint64 { return f.size }

// ExecHandle returns the opaque execution handle, if any
func (f Filesystem) ExecHandle() interface{} { return f.exec }

// Name is the canonical ZFS name: pool/dataset, or the pool alone for
// the root filesystem.
func (f Filesystem) Name() string {
	if f.dataset == "" {
		return f.pool
	}
	return f.pool + "/" + f.dataset
}

// Equal compares identity only: same pool and same dataset.
func (f Filesystem) Equal(other Filesystem) bool {
	return f.pool == other.pool && f.dataset == other.dataset
}

func (f Filesystem) String() string {
	return f.Name()
}
