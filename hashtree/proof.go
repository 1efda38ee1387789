package hashtree

import "fmt"

// InclusionProofPath returns the node indices of the witnesses for leafIndex
// in a tree of leafCount leaves.
//
// The tree is viewed as a single flat array: the leaves, then each level in
// turn. Walking up from the leaf, the sibling at each level is i^1, found at
// levelOffset + sibling. A level of odd size has no sibling for its last node
// and contributes nothing to the path.
//
// For leafCount = 8 and leafIndex = 2 the path is [3, 8, 13]
//
//	3                14
//	           /          \
//	2        12            13
//	       /    \        /    \
//	1     8      9     10      11
//	     / \    / \    / \    /  \
//	0   0   1  2   3  4   5  6    7
//
// This method allows tooling to audit the proof path node values individually.
func InclusionProofPath(leafCount uint64, leafIndex uint64) ([]uint64, error) {
	if leafIndex >= leafCount {
		return nil, fmt.Errorf("%w: leaf %d, leaf count %d", ErrNotFound, leafIndex, leafCount)
	}

	path := []uint64{}

	i := leafIndex
	var levelOffset uint64
	for levelSize := leafCount; levelSize > 1; levelSize = (levelSize + 1) / 2 {
		sibling := i + 1
		if i%2 == 1 {
			sibling = i - 1
		}
		if sibling < levelSize {
			path = append(path, levelOffset+sibling)
		}
		i /= 2
		levelOffset += levelSize
	}
	return path, nil
}

// InclusionProof returns the ordered sibling hashes needed to recompute the
// root of t from the leaf at leafIndex. The proof for a single leaf tree is
// empty (not nil).
func InclusionProof(t *Tree, leafIndex uint64) ([]Hash, error) {
	path, err := InclusionProofPath(t.LeafCount(), leafIndex)
	if err != nil {
		return nil, err
	}
	flat := t.Flat()
	proof := make([]Hash, 0, len(path))
	for _, i := range path {
		if i >= uint64(len(flat)) {
			return nil, fmt.Errorf("%w: witness %d is beyond the tree size %d", ErrInvalidShape, i, len(flat))
		}
		proof = append(proof, flat[i])
	}
	return proof, nil
}

// ProveMembership validates the claim that value is the leaf at leafIndex,
// applying the membership policy of the tree padding, then returns the
// inclusion proof for it.
func ProveMembership(t *Tree, leafIndex uint64, value []byte) ([]Hash, error) {
	if err := ValidateMembershipClaim(t.Leaves, leafIndex, value, t.Padding.Membership()); err != nil {
		return nil, err
	}
	return InclusionProof(t, leafIndex)
}
