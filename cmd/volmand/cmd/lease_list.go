package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var leaseList = &cobra.Command{
	Use:   "list",
	Short: "List live leases",
	Long:  `List all live leases. Expired leases are excluded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _, err := newManager(ctx)
		if err != nil {
			wrapFatalln("initialize control plane", err)
			return
		}
		for _, l := range mgr.ListLeases(ctx) {
			out, _ := jsoniter.MarshalToString(l)
			infoLogger.Println(out)
		}
	},
}

func init() {
	leaseCmd.AddCommand(leaseList)
}
