package hashtree

import (
	"fmt"
)

// IncludedRoot calculates the root committing nodeHash at leafIndex given
// proof.
//
// At each step the current hash is the left operand when the position at that
// level is even, and the right operand otherwise. The position halves on each
// step.
func IncludedRoot(h *Hasher, leafIndex uint64, nodeHash Hash, proof []Hash) (Hash, error) {
	root := nodeHash
	i := leafIndex
	for _, sibling := range proof {
		var err error
		if i%2 == 0 {
			root, err = h.ParentHash(root, sibling)
		} else {
			root, err = h.ParentHash(sibling, root)
		}
		if err != nil {
			return nil, err
		}
		i /= 2
	}
	return root, nil
}

// VerifyInclusion returns true if value, at leafIndex, combined with proof
// reproduces root.
//
// A mismatch is reported as false, not as an error. ErrInvalidInput is
// returned only when value, proof or root is absent. An empty, non nil, proof
// is the proof for a single leaf tree.
func VerifyInclusion(h *Hasher, value []byte, leafIndex uint64, proof []Hash, root Hash) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: proof is nil", ErrInvalidInput)
	}
	if len(root) == 0 {
		return false, fmt.Errorf("%w: root is nil", ErrInvalidInput)
	}
	leafHash, err := h.LeafHash(value)
	if err != nil {
		return false, err
	}

	// A proof of length d covers the positions [0, 2^d). Beyond that the
	// even/odd walk would alias another leaf.
	if len(proof) < 64 && leafIndex>>uint(len(proof)) != 0 {
		return false, nil
	}

	computed, err := IncludedRoot(h, leafIndex, leafHash, proof)
	if err != nil {
		return false, err
	}
	return computed.Equal(root), nil
}

// VerifyInclusionHex is VerifyInclusion for hex rendered proof and root
// values. A malformed hash is ErrInvalidInput.
func VerifyInclusionHex(h *Hasher, value []byte, leafIndex uint64, proof []string, root string) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: proof is nil", ErrInvalidInput)
	}
	if root == "" {
		return false, fmt.Errorf("%w: root is empty", ErrInvalidInput)
	}
	hashes, err := h.ParseHashes(proof)
	if err != nil {
		return false, err
	}
	rootHash, err := h.ParseHash(root)
	if err != nil {
		return false, err
	}
	return VerifyInclusion(h, value, leafIndex, hashes, rootHash)
}
