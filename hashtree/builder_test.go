package hashtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_shape(t *testing.T) {
	h := NewDefaultHasher()
	for _, leafCount := range []int{1, 2, 4, 8, 16, 32, 64} {
		t.Run(fmt.Sprintf("L=%d", leafCount), func(t *testing.T) {
			tree := mustBuild(t, h, leafCount)

			assert.Equal(t, uint64(2*leafCount-1), tree.Size())
			assert.Len(t, tree.Nodes, leafCount-1)
			assert.Equal(t, uint64(2*leafCount-2), tree.RootIndex())
			if leafCount > 1 {
				root := tree.Nodes[len(tree.Nodes)-1]
				assert.Equal(t, tree.RootIndex(), root.Index)
				for _, n := range tree.Nodes {
					assert.Less(t, n.Index, tree.Size())
					assert.LessOrEqual(t, n.Index, root.Index)
				}
			}
			assert.NoError(t, tree.CheckShape())
			assert.Equal(t, h.Name(), tree.Hasher)
			assert.Equal(t, PaddingExact, tree.Padding)
		})
	}
}

// TestBuild_reference checks the eight leaf tree against hashes computed by
// hand
//
//	3                14
//	           /          \
//	2        12            13
//	       /    \        /    \
//	1     8      9     10      11
//	     / \    / \    / \    /  \
//	0   0   1  2   3  4   5  6    7
func TestBuild_reference(t *testing.T) {
	h := NewDefaultHasher()
	tree := mustBuild(t, h, 8)

	H := make([]Hash, 15)
	for i, name := range numberNames {
		H[i] = keccak([]byte(name))
	}
	P := func(l, r Hash) Hash { return keccak(hexBytes(l), hexBytes(r)) }
	H[8], H[9], H[10], H[11] = P(H[0], H[1]), P(H[2], H[3]), P(H[4], H[5]), P(H[6], H[7])
	H[12], H[13] = P(H[8], H[9]), P(H[10], H[11])
	H[14] = P(H[12], H[13])

	assert.Equal(t, H, tree.Flat())
	assert.Equal(t, H[14], tree.RootHash())

	wantChildren := map[uint64][2]uint64{
		8: {0, 1}, 9: {2, 3}, 10: {4, 5}, 11: {6, 7},
		12: {8, 9}, 13: {10, 11},
		14: {12, 13},
	}
	for _, n := range tree.Nodes {
		assert.Equal(t, wantChildren[n.Index], n.Children, "children of %d", n.Index)
	}

	byIndex := tree.HashesByIndex()
	require.Len(t, byIndex, 15)
	for i, want := range H {
		assert.Equal(t, want.String(), byIndex[uint64(i)])
	}
}

func TestBuild_singleLeaf(t *testing.T) {
	h := NewDefaultHasher()
	tree := mustBuild(t, h, 1)

	assert.Empty(t, tree.Nodes)
	assert.Equal(t, uint64(1), tree.Size())
	assert.Equal(t, uint64(0), tree.RootIndex())
	assert.Equal(t, tree.Leaves[0].Hash, tree.RootHash())
	assert.Equal(t, keccak([]byte("zero")), tree.RootHash())
}

func TestBuild_leafOrderIsByIndex(t *testing.T) {
	h := NewDefaultHasher()
	want := mustBuild(t, h, 4)

	shuffled := []LeafNode{want.Leaves[2], want.Leaves[0], want.Leaves[3], want.Leaves[1]}
	got, err := Build(h, PaddingExact, shuffled)
	require.NoError(t, err)
	assert.Equal(t, want.RootHash(), got.RootHash())
	assert.Equal(t, want.Leaves, got.Leaves)
	// the caller's slice is left alone
	assert.Equal(t, uint64(2), shuffled[0].Index)
}

func TestBuild_errors(t *testing.T) {
	h := NewDefaultHasher()
	leaves, err := PrepareExact(h, declaredLeaves(4))
	require.NoError(t, err)

	noHash := append([]LeafNode{}, leaves...)
	noHash[1].Hash = nil

	tests := []struct {
		name   string
		leaves []LeafNode
	}{
		{"nil", nil},
		{"empty", []LeafNode{}},
		{"three leaves", leaves[:3]},
		{"indices not contiguous", []LeafNode{leaves[0], leaves[2]}},
		{"duplicate index", []LeafNode{leaves[0], leaves[0]}},
		{"leaf without hash", noHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(h, PaddingExact, tt.leaves)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTree_CheckShape(t *testing.T) {
	h := NewDefaultHasher()
	tree := mustBuild(t, h, 8)

	bad := tree.Clone()
	bad.Nodes[0].Children = [2]uint64{1, 0}
	assert.ErrorIs(t, bad.CheckShape(), ErrInvalidShape)

	bad = tree.Clone()
	bad.Nodes = bad.Nodes[:len(bad.Nodes)-1]
	assert.ErrorIs(t, bad.CheckShape(), ErrInvalidShape)

	bad = tree.Clone()
	bad.Leaves = bad.Leaves[:6]
	assert.ErrorIs(t, bad.CheckShape(), ErrInvalidShape)

	bad = tree.Clone()
	bad.Leaves[3].Index = 4
	assert.ErrorIs(t, bad.CheckShape(), ErrInvalidShape)
}

func TestTree_Clone(t *testing.T) {
	tree := mustBuild(t, NewDefaultHasher(), 2)
	c := tree.Clone()
	require.Equal(t, tree, c)

	c.Leaves[0].Value[0] = 'Z'
	c.Nodes[0].Hash[0] ^= 0xff
	assert.Equal(t, "zero", string(tree.Leaves[0].Value))
	assert.NotEqual(t, tree.RootHash(), c.RootHash())
}

func TestTree_Leaf(t *testing.T) {
	tree := mustBuild(t, NewDefaultHasher(), 4)
	l, err := tree.Leaf(3)
	require.NoError(t, err)
	assert.Equal(t, "three", string(l.Value))

	_, err = tree.Leaf(4)
	assert.ErrorIs(t, err, ErrNotFound)
}
