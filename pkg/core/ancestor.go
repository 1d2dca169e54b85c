package core

import (
	"github.com/volmand/volmand/pkg/model"
)

// LatestCommonSnapshot finds the most recently taken snapshot present
// in both histories. Histories are ordered oldest first: the last
// element of each slice is the newest.
//
// The scan walks the first history from its end toward the start and
// returns the first name also present in the second, so when the two
// histories disagree about the relative recency of shared names, the
// first argument's ordering wins.
//
// Returns false when either history is empty or nothing is shared.
func LatestCommonSnapshot(a, b model.Snapshots) (model.Snapshot, bool) {
	if len(a) == 0 || len(b) == 0 {
		return model.Snapshot{}, false
	}
	names := make(map[string]struct{}, len(b))
	for _, s := range b {
		names[s.Name] = struct{}{}
	}
	for i := len(a) - 1; i >= 0; i-- {
		if _, ok := names[a[i].Name]; ok {
			return a[i], true
		}
	}
	return model.Snapshot{}, false
}
