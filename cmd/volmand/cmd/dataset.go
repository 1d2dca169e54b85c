package cmd

import (
	"github.com/spf13/cobra"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Commands to manage cluster datasets",
	Long: `Commands to manage cluster datasets: inspect placement, move a
dataset to another node, or delete it. Moves and deletions are gated on
the dataset's lease.`,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
}
