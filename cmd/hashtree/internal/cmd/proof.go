package cmd

import (
	"errors"
	"fmt"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/spf13/cobra"
)

// ErrNotIncluded is returned by verify so that scripts can rely on the exit
// status.
var ErrNotIncluded = errors.New("proof does not verify")

var proofCmd = &cobra.Command{
	Use:   "proof <tree-id> <leaf-index> <value>",
	Short: "Print the inclusion proof of value at leaf-index, one hex hash per line.",
	Long: `Print the inclusion proof of value at leaf-index, one hex hash per line.

The value must be the one stored at leaf-index. The padding sentinel of a
sparse tree has no proof.`,
	Args: cobra.ExactArgs(3),
	RunE: proofRunFunc,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <value> <leaf-index> <root> [proof-hash...]",
	Short: "Check an inclusion proof against a root. Needs no store.",
	Args:  cobra.MinimumNArgs(3),
	RunE:  verifyRunFunc,
}

func init() {
	RootCmd.AddCommand(proofCmd)
	RootCmd.AddCommand(verifyCmd)
}

func proofRunFunc(cmd *cobra.Command, args []string) error {
	id, err := parseTreeID(args[0])
	if err != nil {
		return err
	}
	leafIndex, err := parseLeafIndex(args[1])
	if err != nil {
		return err
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	proof, err := e.service.ProofOfMembership(cmd.Context(), id, leafIndex, args[2])
	if err != nil {
		return err
	}
	for _, h := range proof {
		fmt.Fprintln(cmd.OutOrStdout(), h)
	}
	return nil
}

func verifyRunFunc(cmd *cobra.Command, args []string) error {
	leafIndex, err := parseLeafIndex(args[1])
	if err != nil {
		return err
	}
	conf, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	h, err := hashtree.NewHasher(conf.Hasher.Name)
	if err != nil {
		return err
	}

	// a single leaf tree has an empty proof
	proof := append([]string{}, args[3:]...)
	ok, err := hashtree.VerifyInclusionHex(h, []byte(args[0]), leafIndex, proof, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	if !ok {
		return ErrNotIncluded
	}
	return nil
}
