package cmd

import (
	"fmt"
	"sort"

	"github.com/forestrie/go-hashtree/treestore"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <tree-id>",
	Short: "Print every node of a stored tree as index and hex hash.",
	Args:  cobra.ExactArgs(1),
	RunE:  showRunFunc,
}

var rootHashCmd = &cobra.Command{
	Use:   "root <tree-id>",
	Short: "Print the hex root of a stored tree.",
	Args:  cobra.ExactArgs(1),
	RunE:  rootHashRunFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ids of the stored trees.",
	Args:  cobra.NoArgs,
	RunE:  listRunFunc,
}

func init() {
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(rootHashCmd)
	RootCmd.AddCommand(listCmd)
	showCmd.Flags().Bool("leaves", false, "Also print the leaf values")
}

func showRunFunc(cmd *cobra.Command, args []string) error {
	id, err := parseTreeID(args[0])
	if err != nil {
		return err
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	nodes, err := e.service.GetTree(cmd.Context(), id)
	if err != nil {
		return err
	}
	indices := make([]uint64, 0, len(nodes))
	for i := range nodes {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })

	var values map[uint64]string
	if withLeaves, _ := cmd.Flags().GetBool("leaves"); withLeaves {
		tree, err := e.service.Tree(cmd.Context(), id)
		if err != nil {
			return err
		}
		values = make(map[uint64]string, len(tree.Leaves))
		for _, l := range tree.Leaves {
			values[l.Index] = string(l.Value)
		}
	}

	out := cmd.OutOrStdout()
	for _, i := range indices {
		if v, ok := values[i]; ok {
			fmt.Fprintf(out, "%d %s %q\n", i, nodes[i], v)
			continue
		}
		fmt.Fprintf(out, "%d %s\n", i, nodes[i])
	}
	return nil
}

func rootHashRunFunc(cmd *cobra.Command, args []string) error {
	id, err := parseTreeID(args[0])
	if err != nil {
		return err
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	root, err := e.service.Root(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), root)
	return nil
}

func listRunFunc(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	lister, ok := e.store.(treestore.Lister)
	if !ok {
		return fmt.Errorf("the %s store can not list its trees", e.conf.Store.Kind)
	}
	ids, err := lister.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
