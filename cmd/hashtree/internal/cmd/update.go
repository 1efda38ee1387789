package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <tree-id>",
	Short: "Replace leaf values of a stored tree and print the new root.",
	Long: `Replace leaf values of a stored tree and print the new root.

Every --leaf position must already exist. Either all of the leaves are
replaced or, on error, none are.`,
	Args: cobra.ExactArgs(1),
	RunE: updateRunFunc,
}

func init() {
	RootCmd.AddCommand(updateCmd)
	addLeafFlag(updateCmd)
}

func updateRunFunc(cmd *cobra.Command, args []string) error {
	id, err := parseTreeID(args[0])
	if err != nil {
		return err
	}
	leaves, err := leavesFromFlag(cmd)
	if err != nil {
		return err
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	root, err := e.service.UpdateLeaves(cmd.Context(), id, leaves)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), root)
	return nil
}
