package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var datasetMove = &cobra.Command{
	Use:   "move",
	Short: "Move a dataset to another node",
	Long: `Move a dataset to the target node.

The move is denied while a node other than the target holds a live
lease on the dataset. The transfer is incremental when the two nodes
share a snapshot.`,
	Example: `% volmand dataset move --dataset 9e2e58ab-3bd9-4781-a49a-0b4dd41ba716 --target-node 2af94a93-01a7-4d6f-8871-e11c5ad746b4`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		datasetID, err := uuid.Parse(volmandFlags.dataset.id)
		if err != nil {
			wrapFatalln("parse dataset id", err)
			return
		}
		targetNodeID, err := uuid.Parse(volmandFlags.dataset.targetNode)
		if err != nil {
			wrapFatalln("parse target node id", err)
			return
		}
		mgr, save, err := newManager(ctx)
		if err != nil {
			wrapFatalln("initialize control plane", err)
			return
		}
		if err = mgr.MoveDataset(ctx, datasetID, targetNodeID); err != nil {
			wrapFatalln("move dataset", err)
			return
		}
		if err = save(); err != nil {
			wrapFatalln("persist state", err)
			return
		}
	},
}

func init() {
	addDatasetIDFlag(datasetMove, &volmandFlags.dataset.id)
	datasetMove.Flags().StringVar(&volmandFlags.dataset.targetNode, "target-node", "",
		"target node id (UUID)")
	_ = datasetMove.MarkFlagRequired("target-node")
	datasetCmd.AddCommand(datasetMove)
}
