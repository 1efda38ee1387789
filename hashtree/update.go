package hashtree

import (
	"fmt"
	"sort"
)

// UpdateLeaf returns a copy of leaves in which the leaf at index holds
// newValue and its recomputed hash. All other leaves are untouched, and the
// caller's slice is never modified.
func UpdateLeaf(h *Hasher, leaves []LeafNode, index uint64, newValue []byte) ([]LeafNode, error) {
	return UpdateLeaves(h, leaves, map[uint64][]byte{index: newValue})
}

// UpdateLeaves applies all of updates, or none of them.
func UpdateLeaves(h *Hasher, leaves []LeafNode, updates map[uint64][]byte) ([]LeafNode, error) {
	positions := make(map[uint64]int, len(leaves))
	for i, l := range leaves {
		positions[l.Index] = i
	}

	indices := make([]uint64, 0, len(updates))
	for index := range updates {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })

	out := make([]LeafNode, len(leaves))
	copy(out, leaves)
	for _, index := range indices {
		i, ok := positions[index]
		if !ok {
			return nil, fmt.Errorf("%w: index %d, leaf count %d", ErrNotFound, index, len(leaves))
		}
		leaf, err := newLeaf(h, index, updates[index])
		if err != nil {
			return nil, err
		}
		out[i] = leaf
	}
	return out, nil
}

// Update applies updates to the leaves of t and rebuilds every interior node.
// The result is a new snapshot with the same ID and padding. t is unchanged.
//
// There is no path only recomputation, the whole node set is rebuilt.
func (t *Tree) Update(h *Hasher, updates map[uint64][]byte) (*Tree, error) {
	if t.Hasher != "" && t.Hasher != h.Name() {
		return nil, fmt.Errorf(
			"%w: tree was built with %s, not %s", ErrInvalidInput, t.Hasher, h.Name())
	}
	leaves, err := UpdateLeaves(h, t.Leaves, updates)
	if err != nil {
		return nil, err
	}
	next, err := Build(h, t.Padding, leaves)
	if err != nil {
		return nil, err
	}
	next.ID = t.ID
	return next, nil
}
