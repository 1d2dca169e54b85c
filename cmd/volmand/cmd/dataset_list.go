package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var datasetList = &cobra.Command{
	Use:   "list",
	Short: "List registered datasets and their placement",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _, err := newManager(ctx)
		if err != nil {
			wrapFatalln("initialize control plane", err)
			return
		}
		for _, record := range mgr.Datasets() {
			infoLogger.Println(fmt.Sprintf("%s , %s , %s",
				record.ID, record.Primary, record.Filesystem.Name()))
		}
	},
}

func init() {
	datasetCmd.AddCommand(datasetList)
}
