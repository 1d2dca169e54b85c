package cmd

import (
	"context"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var leaseAcquire = &cobra.Command{
	Use:   "acquire",
	Short: "Acquire a lease on a dataset",
	Long: `Acquire a lease on a dataset for a node.

Fails when another node already holds a live lease on the dataset.
Re-acquiring for the holding node refreshes the expiry.`,
	Example: `% volmand lease acquire --dataset 9e2e58ab-3bd9-4781-a49a-0b4dd41ba716 --node 2af94a93-01a7-4d6f-8871-e11c5ad746b4 --expires-in 60s`,
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
		acquired, err := mgr.AcquireLease(ctx, datasetID, nodeID, volmandFlags.lease.expiresIn)
		if err != nil {
			wrapFatalln("acquire lease", err)
			return
		}
		if err = save(); err != nil {
			wrapFatalln("persist state", err)
			return
		}
		out, _ := jsoniter.MarshalToString(acquired)
		infoLogger.Println(out)
	},
}

func init() {
	addDatasetIDFlag(leaseAcquire, &volmandFlags.lease.datasetID)
	addNodeIDFlag(leaseAcquire, &volmandFlags.lease.nodeID)
	addExpiresInFlag(leaseAcquire)
	leaseCmd.AddCommand(leaseAcquire)
}
