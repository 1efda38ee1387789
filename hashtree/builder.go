package hashtree

import (
	"fmt"
	"sort"
)

// Build computes every interior node over leaves and returns the tree.
//
// Level 0 is the leaves in index order. Each adjacent pair (i, i+1) of the
// current level produces a node for the next level. Node indices come from a
// single counter that starts at L and is never reset, so each level takes the
// next contiguous block and the root has the highest index.
//
// The leaf count must be a power of two and the leaf indices must be exactly
// 0..L-1. L = 1 produces a tree with no interior nodes. The leaves are copied,
// the caller's slice is not retained.
func Build(h *Hasher, padding Padding, leaves []LeafNode) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("%w: no leaves to build", ErrInvalidInput)
	}
	if !IsPow2(uint64(len(leaves))) {
		return nil, fmt.Errorf("%w: leaf count %d is not a power of two", ErrInvalidInput, len(leaves))
	}

	sorted := make([]LeafNode, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Index < sorted[b].Index })
	for i, l := range sorted {
		if l.Index != uint64(i) {
			return nil, fmt.Errorf("%w: leaf indices must be 0..%d, found %d", ErrInvalidInput, len(sorted)-1, l.Index)
		}
		if len(l.Hash) == 0 {
			return nil, fmt.Errorf("%w: leaf %d has no hash", ErrInvalidInput, l.Index)
		}
	}

	t := &Tree{
		Padding: padding,
		Hasher:  h.Name(),
		Leaves:  sorted,
		Nodes:   make([]InternalNode, 0, len(sorted)-1),
	}

	type levelNode struct {
		index uint64
		hash  Hash
	}
	level := make([]levelNode, len(sorted))
	for i, l := range sorted {
		level[i] = levelNode{index: l.Index, hash: l.Hash}
	}

	next := uint64(len(sorted))
	for len(level) > 1 {
		parents := make([]levelNode, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], level[i+1]
			hash, err := h.ParentHash(left.hash, right.hash)
			if err != nil {
				return nil, err
			}
			t.Nodes = append(t.Nodes, InternalNode{
				Index:    next,
				Children: [2]uint64{left.index, right.index},
				Hash:     hash,
			})
			parents = append(parents, levelNode{index: next, hash: hash})
			next++
		}
		level = parents
	}
	return t, nil
}
