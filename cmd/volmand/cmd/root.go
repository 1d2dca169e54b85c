package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "volmand",
	Short: "volmand manages clustered ZFS datasets",
	Long: `volmand is the control plane of a clustered ZFS dataset manager.

It tracks which node holds a lease on each dataset, gates migration and
deletion on those leases, and replicates filesystem state between nodes
incrementally using snapshot histories.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addStateDirFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("state_dir", defaultStateDir())
	viper.SetDefault("log_level", "info")
	if cfg := os.Getenv("VOLMAND_CONFIG"); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.volmand")
		viper.AddConfigPath("/etc/volmand")
		viper.SetConfigName("volmand")
	}
	viper.SetEnvPrefix("volmand")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	if volmandFlags.root.logLevel == "" {
		volmandFlags.root.logLevel = viper.GetString("log_level")
	}
	if volmandFlags.root.stateDir == "" {
		volmandFlags.root.stateDir = viper.GetString("state_dir")
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".volmand"
	}
	return home + "/.volmand"
}
