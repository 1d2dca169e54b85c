package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var datasetDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete a dataset",
	Long: `Delete a dataset at the requesting node.

Denied while another node holds a live lease on the dataset. The
on-disk destruction is best-effort: tool failures are logged, not
reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		datasetID, err := uuid.Parse(volmandFlags.dataset.id)
		if err != nil {
			wrapFatalln("parse dataset id", err)
			return
		}
		nodeID, err := uuid.Parse(volmandFlags.dataset.nodeID)
		if err != nil {
			wrapFatalln("parse node id", err)
			return
		}
		mgr, save, err := newManager(ctx)
		if err != nil {
			wrapFatalln("initialize control plane", err)
			return
		}
		if err = mgr.DeleteDataset(ctx, datasetID, nodeID); err != nil {
			wrapFatalln("delete dataset", err)
			return
		}
		if err = save(); err != nil {
			wrapFatalln("persist state", err)
			return
		}
	},
}

func init() {
	addDatasetIDFlag(datasetDelete, &volmandFlags.dataset.id)
	addNodeIDFlag(datasetDelete, &volmandFlags.dataset.nodeID)
	datasetCmd.AddCommand(datasetDelete)
}
