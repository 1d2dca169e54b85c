package core

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volmand/volmand/pkg/core/status"
	"github.com/volmand/volmand/pkg/lease"
	"github.com/volmand/volmand/pkg/model"
)

// recordingRunner captures argv handed to the storage tool.
type recordingRunner struct {
	argv [][]string
	out  []byte
	err  error
}

func (r *recordingRunner) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	r.argv = append(r.argv, args)
	return r.out, r.err
}

type managerFixture struct {
	manager   *Manager
	transport *fakeTransport
	runner    *recordingRunner
	clock     *time.Time

	datasetID uuid.UUID
	node1     uuid.UUID
	node2     uuid.UUID
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	now := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	fix := &managerFixture{
		transport: &fakeTransport{},
		runner:    &recordingRunner{},
		clock:     &now,
		datasetID: uuid.New(),
		node1:     uuid.New(),
		node2:     uuid.New(),
	}
	leases := lease.New(lease.WithClock(func() time.Time { return *fix.clock }))
	fix.manager = NewManager(leases, NewEngine(fix.transport), WithRunner(fix.runner))

	fs := model.NewFilesystem("hpool", "data", model.Mountpoint("/volumes/data"))
	fix.manager.RegisterDataset(model.DatasetRecord{
		ID:         fix.datasetID,
		Primary:    fix.node1,
		Filesystem: fs,
	})
	catalog := fix.manager.CatalogFor(fix.node1)
	require.NoError(t, catalog.Append(fs, model.Snapshot{Name: "s1"}))
	require.NoError(t, catalog.Append(fs, model.Snapshot{Name: "s2"}))
	return fix
}

func TestLeasePreventsMove(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Hour)
	require.NoError(t, err)

	err = fix.manager.MoveDataset(ctx, fix.datasetID, fix.node2)
	require.ErrorIs(t, err, status.ErrDatasetLeased)
	assert.Empty(t, fix.transport.sendArgs, "no transfer while leased")

	// the registry still points at the original primary
	records := fix.manager.Datasets()
	require.Len(t, records, 1)
	assert.Equal(t, fix.node1, records[0].Primary)
}

func TestMoveAfterLeaseRelease(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Hour)
	require.NoError(t, err)
	require.NoError(t, fix.manager.ReleaseLease(ctx, fix.datasetID, fix.node1))

	require.NoError(t, fix.manager.MoveDataset(ctx, fix.datasetID, fix.node2))
	require.Len(t, fix.transport.sendArgs, 1)
	assert.Equal(t, []string{"send", "hpool/data@s2"}, fix.transport.sendArgs[0])

	records := fix.manager.Datasets()
	assert.Equal(t, fix.node2, records[0].Primary)

	// destination catalog now carries the replicated history
	fs := model.NewFilesystem("hpool", "data")
	assert.Equal(t, snaps("s1", "s2"), fix.manager.CatalogFor(fix.node2).History(fs))
}

func TestMoveAfterLeaseExpiry(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Minute)
	require.NoError(t, err)

	*fix.clock = fix.clock.Add(2 * time.Minute)
	require.NoError(t, fix.manager.MoveDataset(ctx, fix.datasetID, fix.node2))
	assert.Len(t, fix.transport.sendArgs, 1)
}

func TestMoveByLeaseHolderIsAllowed(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	// the target node holding the lease does not block its own move
	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node2, time.Hour)
	require.NoError(t, err)

	require.NoError(t, fix.manager.MoveDataset(ctx, fix.datasetID, fix.node2))
}

func TestMoveToCurrentPrimaryIsNoop(t *testing.T) {
	fix := newManagerFixture(t)

	require.NoError(t, fix.manager.MoveDataset(context.Background(), fix.datasetID, fix.node1))
	assert.Empty(t, fix.transport.sendArgs)
}

func TestMoveUnknownDataset(t *testing.T) {
	fix := newManagerFixture(t)

	err := fix.manager.MoveDataset(context.Background(), uuid.New(), fix.node2)
	require.ErrorIs(t, err, status.ErrUnknownDataset)
}

func TestMoveIsIncrementalWhenHistoriesOverlap(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	fs := model.NewFilesystem("hpool", "data")
	require.NoError(t, fix.manager.CatalogFor(fix.node2).Append(fs, model.Snapshot{Name: "s1"}))

	require.NoError(t, fix.manager.MoveDataset(ctx, fix.datasetID, fix.node2))
	require.Len(t, fix.transport.sendArgs, 1)
	assert.Equal(t, []string{"send", "-i", "hpool/data@s1", "hpool/data@s2"}, fix.transport.sendArgs[0])
}

func TestMoveKeepsConcurrentReregistration(t *testing.T) {
	fix := newManagerFixture(t)

	// a re-registration lands while the transfer is in flight; the move
	// must update its primary without discarding the newer record
	updated := model.NewFilesystem("hpool", "data",
		model.Mountpoint("/volumes/data2"), model.Size(42))
	fix.transport.onTransfer = func() {
		fix.manager.RegisterDataset(model.DatasetRecord{
			ID:         fix.datasetID,
			Primary:    fix.node1,
			Filesystem: updated,
		})
	}

	require.NoError(t, fix.manager.MoveDataset(context.Background(), fix.datasetID, fix.node2))

	records := fix.manager.Datasets()
	require.Len(t, records, 1)
	assert.Equal(t, fix.node2, records[0].Primary)
	assert.Equal(t, "/volumes/data2", records[0].Filesystem.Mountpoint())
	assert.Equal(t, uint64(42), records[0].Filesystem.Size())
}

func TestLeasePreventsDelete(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Hour)
	require.NoError(t, err)

	err = fix.manager.DeleteDataset(ctx, fix.datasetID, fix.node2)
	require.ErrorIs(t, err, status.ErrDatasetLeased)
	assert.Empty(t, fix.runner.argv, "no destroy while leased")
	assert.Len(t, fix.manager.Datasets(), 1)
}

func TestDeleteAfterLeaseRelease(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Hour)
	require.NoError(t, err)
	require.NoError(t, fix.manager.ReleaseLease(ctx, fix.datasetID, fix.node1))

	require.NoError(t, fix.manager.DeleteDataset(ctx, fix.datasetID, fix.node2))
	require.Len(t, fix.runner.argv, 1)
	assert.Equal(t, []string{"destroy", "-r", "hpool/data"}, fix.runner.argv[0])
	assert.Empty(t, fix.manager.Datasets())
}

func TestDeleteAfterLeaseExpiry(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Minute)
	require.NoError(t, err)

	*fix.clock = fix.clock.Add(2 * time.Minute)
	require.NoError(t, fix.manager.DeleteDataset(ctx, fix.datasetID, fix.node2))
	assert.Empty(t, fix.manager.Datasets())
}

func TestDeleteIsBestEffort(t *testing.T) {
	fix := newManagerFixture(t)
	fix.runner.err = context.DeadlineExceeded

	// a tool failure is absorbed, the registry entry still goes away
	require.NoError(t, fix.manager.DeleteDataset(context.Background(), fix.datasetID, fix.node2))
	assert.Empty(t, fix.manager.Datasets())
}

func TestListLeases(t *testing.T) {
	fix := newManagerFixture(t)
	ctx := context.Background()

	_, err := fix.manager.AcquireLease(ctx, fix.datasetID, fix.node1, time.Hour)
	require.NoError(t, err)

	leases := fix.manager.ListLeases(ctx)
	require.Len(t, leases, 1)
	assert.Equal(t, fix.datasetID, leases[0].DatasetID)
	assert.Equal(t, fix.node1, leases[0].NodeID)
}

func TestSyncSnapshots(t *testing.T) {
	fix := newManagerFixture(t)
	fix.runner.out = []byte("hpool/data@s2\nhpool/data@s3\n")

	fs := model.NewFilesystem("hpool", "data")
	catalog := fix.manager.CatalogFor(fix.node2)
	require.NoError(t, catalog.Append(fs, model.Snapshot{Name: "s2"}))

	require.NoError(t, fix.manager.SyncSnapshots(context.Background(), fix.node2, fs))
	assert.Equal(t, snaps("s2", "s3"), catalog.History(fs))
}
