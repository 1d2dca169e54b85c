package cmd

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/volmand/volmand/pkg/core"
	"github.com/volmand/volmand/pkg/lease"
	"github.com/volmand/volmand/pkg/storage/localfs"
	"github.com/volmand/volmand/pkg/vlogger"
	"github.com/volmand/volmand/pkg/zfs"
)

type flagsT struct {
	root struct {
		logLevel string
		stateDir string
	}
	lease struct {
		datasetID string
		nodeID    string
		expiresIn time.Duration
	}
	dataset struct {
		id         string
		nodeID     string
		targetNode string
		pool       string
	}
}

var volmandFlags flagsT

func addLogLevelFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&volmandFlags.root.logLevel, "log-level", "",
		"log level (info, debug, none)")
}

func addStateDirFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&volmandFlags.root.stateDir, "state-dir", "",
		"directory holding persisted control plane state")
}

func addDatasetIDFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "dataset", "", "dataset id (UUID)")
	_ = cmd.MarkFlagRequired("dataset")
}

func addNodeIDFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "node", "", "node id (UUID)")
	_ = cmd.MarkFlagRequired("node")
}

func addExpiresInFlag(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&volmandFlags.lease.expiresIn, "expires-in", lease.Forever,
		"lease duration; zero or negative means the lease never expires")
}

func addPoolFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&volmandFlags.dataset.pool, "pool", "", "ZFS pool name")
	_ = cmd.MarkFlagRequired("pool")
}

// stateKey is the document the manager persists itself under.
const stateKey = "state.yaml"

// newManager assembles the control plane from persisted state and
// returns it along with a save callback flushing state back to disk.
func newManager(ctx context.Context) (*core.Manager, func() error, error) {
	logger, err := vlogger.New(volmandFlags.root.logLevel)
	if err != nil {
		return nil, nil, err
	}
	store := localfs.New(afero.NewBasePathFs(afero.NewOsFs(), volmandFlags.root.stateDir))
	leases := lease.New(lease.WithLogger(logger))
	engine := core.NewEngine(
		zfs.NewExecTransport(zfs.TransportLogger(logger)),
		core.EngineLogger(logger),
	)
	mgr := core.NewManager(leases, engine,
		core.WithRunner(zfs.ExecRunner{}),
		core.ManagerLogger(logger),
	)
	if ok, _ := store.Has(ctx, stateKey); ok {
		if err = mgr.Load(ctx, store, stateKey); err != nil {
			return nil, nil, err
		}
	}
	save := func() error {
		return mgr.Save(ctx, store, stateKey)
	}
	return mgr, save, nil
}
