package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var leaseRelease = &cobra.Command{
	Use:   "release",
	Short: "Release a lease on a dataset",
	Long: `Release the lease a node holds on a dataset.

Fails when no live lease exists or when the lease is held by a
different node.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		datasetID, err := uuid.Parse(volmandFlags.lease.datasetID)
		if err != nil {
			wrapFatalln("parse dataset id", err)
			return
		}
		nodeID, err := uuid.Parse(volmandFlags.lease.nodeID)
		if err != nil {
			wrapFatalln("parse node id", err)
			return
		}
		mgr, save, err := newManager(ctx)
		if err != nil {
			wrapFatalln("initialize control plane", err)
			return
		}
		if err = mgr.ReleaseLease(ctx, datasetID, nodeID); err != nil {
			wrapFatalln("release lease", err)
			return
		}
		if err = save(); err != nil {
			wrapFatalln("persist state", err)
			return
		}
	},
}

func init() {
	addDatasetIDFlag(leaseRelease, &volmandFlags.lease.datasetID)
	addNodeIDFlag(leaseRelease, &volmandFlags.lease.nodeID)
	leaseCmd.AddCommand(leaseRelease)
}
