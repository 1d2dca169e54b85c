package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/volmand/volmand/pkg/model"
)

var datasetRegister = &cobra.Command{
	Use:   "register",
	Short: "Register a dataset's placement",
	Long: `Register a dataset in the placement registry: its id, the node
currently hosting it and the backing filesystem. The node's snapshot
catalog is refreshed from the storage tool.`,
	Example: `% volmand dataset register --dataset 9e2e58ab-3bd9-4781-a49a-0b4dd41ba716 --node 2af94a93-01a7-4d6f-8871-e11c5ad746b4 --pool hpool --name mydataset`,
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
		fs := model.NewFilesystem(volmandFlags.dataset.pool, datasetName,
			model.Mountpoint(datasetMountpoint))
		mgr.RegisterDataset(model.DatasetRecord{
			ID:         datasetID,
			Primary:    nodeID,
			Filesystem: fs,
		})
		if err = mgr.SyncSnapshots(ctx, nodeID, fs); err != nil {
			wrapFatalln("sync snapshot catalog", err)
			return
		}
		if err = save(); err != nil {
			wrapFatalln("persist state", err)
			return
		}
	},
}

var (
	datasetName       string
	datasetMountpoint string
)

func init() {
	addDatasetIDFlag(datasetRegister, &volmandFlags.dataset.id)
	addNodeIDFlag(datasetRegister, &volmandFlags.dataset.nodeID)
	addPoolFlag(datasetRegister)
	datasetRegister.Flags().StringVar(&datasetName, "name", "", "ZFS dataset name within the pool")
	datasetRegister.Flags().StringVar(&datasetMountpoint, "mountpoint", "", "mountpoint of the filesystem")
	_ = datasetRegister.MarkFlagRequired("name")
	datasetCmd.AddCommand(datasetRegister)
}
