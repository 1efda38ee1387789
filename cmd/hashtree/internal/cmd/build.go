package cmd

import (
	"fmt"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a tree from position=value leaves and store it.",
	Long: `Build a tree from position=value leaves and store it.

With --padding exact the positions must be exactly 0..n-1 and n must be a power
of two. With --padding sentinel, --size gives the leaf count and the missing
positions are filled with the DUMMY sentinel.

Prints the new tree id and its root.`,
	Args: cobra.NoArgs,
	RunE: buildRunFunc,
}

func init() {
	RootCmd.AddCommand(buildCmd)
	addLeafFlag(buildCmd)
	buildCmd.Flags().StringP("padding", "p", "exact", "Padding policy, exact or sentinel")
	buildCmd.Flags().Uint64P("size", "s", 0, "Declared leaf count for sentinel padding")
}

func buildRunFunc(cmd *cobra.Command, args []string) error {
	leaves, err := leavesFromFlag(cmd)
	if err != nil {
		return err
	}
	padding, err := hashtree.ParsePadding(cmd.Flag("padding").Value.String())
	if err != nil {
		return err
	}
	size, err := cmd.Flags().GetUint64("size")
	if err != nil {
		return err
	}

	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	var id uuid.UUID
	if padding == hashtree.PaddingSentinel {
		if size == 0 {
			return fmt.Errorf("%w: --size is required with sentinel padding", hashtree.ErrInvalidInput)
		}
		id, err = e.service.CreateSparseTree(ctx, leaves, size)
	} else {
		id, err = e.service.CreateTree(ctx, leaves)
	}
	if err != nil {
		return err
	}
	root, err := e.service.Root(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, root)
	return nil
}
