// Package cmd implements the CLI commands for hashtree.
package cmd

import (
	"fmt"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/spf13/cobra"
)

// Version is overridden at link time.
var Version = "0.1.0"

// RootCmd represents the base "hashtree" command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "hashtree",
	Short: "Build, prove and update binary Merkle hash trees",
	Long: `Build, prove and update binary Merkle hash trees.

Trees are kept in the store named by the config file. Leaves are given as
position=value pairs, positions are decimal and start at 0.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", DefaultConfigFile, "Path to the configuration file")
	RootCmd.PersistentFlags().String("log-level", "", "Overrides [logger] level")
	RootCmd.PersistentFlags().String("hasher", "", "Overrides [hasher] name")
	RootCmd.PersistentFlags().String("store", "", "Overrides [store] kind (memory, leveldb or blob)")
	RootCmd.PersistentFlags().String("store-path", "", "Overrides [store] path")
}

// Execute runs RootCmd and exits non zero on failure.
func Execute() {
	err := RootCmd.Execute()
	logger.OnExit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
