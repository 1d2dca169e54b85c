package cmd

import (
	"github.com/spf13/cobra"
)

var leaseCmd = &cobra.Command{
	Use:   "lease",
	Short: "Commands to manage dataset leases",
	Long: `Commands to manage dataset leases.

A lease is a time-bounded exclusive claim by one cluster node on one
dataset. While a lease is live, no other node may move or delete the
dataset.`,
}

func init() {
	rootCmd.AddCommand(leaseCmd)
}
