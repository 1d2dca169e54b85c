package zfs

import (
	"context"
	"strconv"
	"strings"

	"github.com/volmand/volmand/pkg/model"
)

// ListDatasets returns the datasets of a pool with their mountpoint and
// reference quota, as reported by `zfs list`.
func ListDatasets(ctx context.Context, r Runner, pool string) ([]model.DatasetInfo, error) {
	out, err := Command(ctx, r,
		"list", "-H", "-p", "-t", "filesystem",
		"-o", "name,mountpoint,refquota", "-r", pool)
	if err != nil {
		return nil, err
	}
	var infos []model.DatasetInfo
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		if fields[0] == pool {
			// the pool root is not a dataset
			continue
		}
		infos = append(infos, model.NewDatasetInfo(
			strings.TrimPrefix(fields[0], pool+"/"),
			fields[1],
			parseQuota(fields[2]),
		))
	}
	return infos, nil
}

// ListSnapshots returns the snapshot history of a filesystem, oldest
// first, as reported by `zfs list -t snapshot -s creation`.
func ListSnapshots(ctx context.Context, r Runner, fs model.Filesystem) (model.Snapshots, error) {
	out, err := Command(ctx, r,
		"list", "-H", "-p", "-t", "snapshot",
		"-o", "name", "-s", "creation", "-r", fs.Name())
	if err != nil {
		return nil, err
	}
	var snaps model.Snapshots
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		// names come back as pool/dataset@snapshot
		if at := strings.IndexByte(line, '@'); at >= 0 {
			snaps = append(snaps, model.Snapshot{Name: line[at+1:]})
		}
	}
	return snaps, nil
}

// CreateSnapshot takes a new named snapshot of a filesystem.
func CreateSnapshot(ctx context.Context, r Runner, fs model.Filesystem, name string) error {
	_, err := Command(ctx, r, "snapshot", fs.Name()+"@"+name)
	return err
}

// zfs reports unset quotas as "-" or "none" depending on version
func parseQuota(s string) uint64 {
	q, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return q
}
