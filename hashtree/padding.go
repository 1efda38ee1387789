package hashtree

import (
	"fmt"
	"sort"
	"strconv"
)

// SentinelValue is the value given to the leaves synthesised by sparse
// padding.
const SentinelValue = "DUMMY"

// Padding selects how a declared leaf set is prepared for building.
type Padding uint8

const (
	// PaddingExact requires the declared leaves to already fill a power of
	// two.
	PaddingExact Padding = iota
	// PaddingSentinel fills every undeclared position below the declared size
	// with a SentinelValue leaf.
	PaddingSentinel
)

func (p Padding) String() string {
	switch p {
	case PaddingExact:
		return "exact"
	case PaddingSentinel:
		return "sentinel"
	default:
		return fmt.Sprintf("padding(%d)", uint8(p))
	}
}

// ParsePadding accepts the names produced by Padding.String. "regular" and
// "sparse" are accepted as aliases.
func ParsePadding(s string) (Padding, error) {
	switch s {
	case "exact", "regular", "":
		return PaddingExact, nil
	case "sentinel", "sparse":
		return PaddingSentinel, nil
	}
	return 0, fmt.Errorf("%w: unknown padding %q", ErrInvalidInput, s)
}

// Membership returns the membership policy that goes with the padding.
func (p Padding) Membership() MembershipPolicy {
	if p == PaddingSentinel {
		return RejectSentinel
	}
	return RejectNone
}

// PrepareExact hashes the declared leaves. The keys of declared are the
// decimal leaf positions and must be exactly 0..n-1 for a power of two n.
func PrepareExact(h *Hasher, declared map[string]string) ([]LeafNode, error) {
	if err := ValidateLeafCount(uint64(len(declared))); err != nil {
		return nil, err
	}
	positions, err := parsePositions(declared)
	if err != nil {
		return nil, err
	}
	for i, pos := range positions {
		if pos.index != uint64(i) {
			return nil, fmt.Errorf(
				"%w: leaf positions must be 0..%d, position %d is missing", ErrInvalidInput, len(declared)-1, i)
		}
	}
	leaves := make([]LeafNode, 0, len(positions))
	for _, pos := range positions {
		leaf, err := newLeaf(h, pos.index, []byte(pos.value))
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

// PrepareSentinel hashes the declared leaves and pads every undeclared
// position in [0, declaredSize) with a sentinel leaf. declaredSize must be a
// power of two. See ComputeFillCount for rounding a raw count up.
func PrepareSentinel(h *Hasher, declared map[string]string, declaredSize uint64) ([]LeafNode, error) {
	if err := ValidateLeafCount(declaredSize); err != nil {
		return nil, fmt.Errorf("declared size: %w", err)
	}
	positions, err := parsePositions(declared)
	if err != nil {
		return nil, err
	}

	values := make(map[uint64]string, len(positions))
	for _, pos := range positions {
		if pos.index >= declaredSize {
			return nil, fmt.Errorf(
				"%w: leaf position %d is outside the declared size %d", ErrInvalidInput, pos.index, declaredSize)
		}
		values[pos.index] = pos.value
	}

	sentinel, err := h.LeafHash([]byte(SentinelValue))
	if err != nil {
		return nil, err
	}

	leaves := make([]LeafNode, 0, declaredSize)
	for i := uint64(0); i < declaredSize; i++ {
		v, ok := values[i]
		if !ok {
			leaves = append(leaves, LeafNode{Index: i, Value: []byte(SentinelValue), Hash: sentinel})
			continue
		}
		leaf, err := newLeaf(h, i, []byte(v))
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

// Prepare dispatches to PrepareExact or PrepareSentinel. declaredSize is
// ignored for exact padding.
func Prepare(p Padding, h *Hasher, declared map[string]string, declaredSize uint64) ([]LeafNode, error) {
	switch p {
	case PaddingExact:
		return PrepareExact(h, declared)
	case PaddingSentinel:
		return PrepareSentinel(h, declared, declaredSize)
	}
	return nil, fmt.Errorf("%w: unknown padding %d", ErrInvalidInput, p)
}

// BuildDeclared prepares the declared leaves with p then builds the tree.
func BuildDeclared(h *Hasher, p Padding, declared map[string]string, declaredSize uint64) (*Tree, error) {
	leaves, err := Prepare(p, h, declared, declaredSize)
	if err != nil {
		return nil, err
	}
	return Build(h, p, leaves)
}

type position struct {
	index uint64
	value string
}

// parsePositions parses the decimal keys of declared and returns the entries
// sorted by index.
func parsePositions(declared map[string]string) ([]position, error) {
	positions := make([]position, 0, len(declared))
	seen := make(map[uint64]string, len(declared))
	for k, v := range declared {
		i, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: leaf position %q is not a decimal integer", ErrInvalidInput, k)
		}
		if other, ok := seen[i]; ok {
			return nil, fmt.Errorf("%w: positions %q and %q both name leaf %d", ErrInvalidInput, other, k, i)
		}
		seen[i] = k
		positions = append(positions, position{index: i, value: v})
	}
	sort.Slice(positions, func(a, b int) bool { return positions[a].index < positions[b].index })
	return positions, nil
}

func newLeaf(h *Hasher, index uint64, value []byte) (LeafNode, error) {
	hash, err := h.LeafHash(value)
	if err != nil {
		return LeafNode{}, fmt.Errorf("leaf %d: %w", index, err)
	}
	return LeafNode{Index: index, Value: value, Hash: hash}, nil
}
