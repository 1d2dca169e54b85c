package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volmand/volmand/pkg/zfs"
)

var datasetDiscover = &cobra.Command{
	Use:   "discover",
	Short: "List the datasets of a pool as reported by the storage tool",
	Long: `List the datasets of a local pool with their mountpoint and
reference quota, as reported by zfs list.`,
	Example: `% volmand dataset discover --pool hpool`,
	Run: func(cmd *cobra.Command, args []string) {
		infos, err := zfs.ListDatasets(context.Background(), zfs.ExecRunner{}, volmandFlags.dataset.pool)
		if err != nil {
			wrapFatalln("list datasets", err)
			return
		}
		for _, info := range infos {
			infoLogger.Println(fmt.Sprintf("%s , %s , %d",
				info.Dataset(), info.Mountpoint(), info.Refquota()))
		}
	},
}

func init() {
	addPoolFlag(datasetDiscover)
	datasetCmd.AddCommand(datasetDiscover)
}
