package model

// Snapshot is a named, immutable point-in-time image of a filesystem.
// Identity is the name alone.
type Snapshot struct {
	Name string `json:"name" yaml:"name"`
}

// Snapshots is an ordered history of snapshots for one filesystem.
// Position encodes recency: the last element is the most recently taken.
type Snapshots []Snapshot

// Latest returns the most recently taken snapshot of the history.
func (sn Snapshots) Latest() (Snapshot, bool) {
	if len(sn) == 0 {
		return Snapshot{}, false
	}
	return sn[len(sn)-1], true
}

// Contains reports whether a snapshot with the given name is part of
// the history.
func (sn Snapshots) Contains(name string) bool {
	for _, s := range sn {
		if s.Name == name {
			return true
		}
	}
	return false
}
