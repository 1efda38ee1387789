package cmd

import (
	"fmt"
	"strconv"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func addLeafFlag(cmd *cobra.Command) {
	cmd.Flags().StringToStringP("leaf", "l", nil, "A position=value leaf, may be repeated")
}

func leavesFromFlag(cmd *cobra.Command) (map[string]string, error) {
	leaves, err := cmd.Flags().GetStringToString("leaf")
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, fmt.Errorf("%w: at least one --leaf is required", hashtree.ErrInvalidInput)
	}
	return leaves, nil
}

func parseTreeID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: tree id %q: %v", hashtree.ErrInvalidInput, s, err)
	}
	return id, nil
}

func parseLeafIndex(s string) (uint64, error) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: leaf index %q", hashtree.ErrInvalidInput, s)
	}
	return i, nil
}
