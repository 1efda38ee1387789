package hashtree

import (
	"fmt"

	"github.com/google/uuid"
)

// LeafNode is a level 0 node. Hash is always LeafHash(Value).
type LeafNode struct {
	Index uint64
	Value []byte
	Hash  Hash
}

// InternalNode commits its two children. Hash is ParentHash(left, right),
// where Children is [left, right].
type InternalNode struct {
	Index    uint64
	Children [2]uint64
	Hash     Hash
}

// Tree is a built merkle tree. Leaves and Nodes are addressed by index, there
// are no references between nodes other than Children.
//
// ID is uuid.Nil until the tree is first saved.
type Tree struct {
	ID      uuid.UUID
	Padding Padding
	Hasher  string
	Leaves  []LeafNode
	Nodes   []InternalNode
}

// LeafCount returns L
func (t *Tree) LeafCount() uint64 { return uint64(len(t.Leaves)) }

// Size returns the count of all nodes, 2L-1 for a well formed tree.
func (t *Tree) Size() uint64 { return uint64(len(t.Leaves) + len(t.Nodes)) }

// RootHash returns the hash of the last node produced. For a single leaf tree
// that is the leaf itself.
func (t *Tree) RootHash() Hash {
	if len(t.Nodes) > 0 {
		return t.Nodes[len(t.Nodes)-1].Hash
	}
	if len(t.Leaves) == 1 {
		return t.Leaves[0].Hash
	}
	return nil
}

// RootIndex returns the index of the root node, 2L-2.
func (t *Tree) RootIndex() uint64 {
	if t.Size() == 0 {
		return 0
	}
	return t.Size() - 1
}

// Leaf returns the leaf at index i
func (t *Tree) Leaf(i uint64) (LeafNode, error) {
	if i >= uint64(len(t.Leaves)) {
		return LeafNode{}, fmt.Errorf("%w: index %d, leaf count %d", ErrNotFound, i, len(t.Leaves))
	}
	return t.Leaves[i], nil
}

// Flat returns the hash of every node, indexed by node index: the leaves
// followed by each level of interior nodes.
func (t *Tree) Flat() []Hash {
	flat := make([]Hash, 0, t.Size())
	for _, l := range t.Leaves {
		flat = append(flat, l.Hash)
	}
	for _, n := range t.Nodes {
		flat = append(flat, n.Hash)
	}
	return flat
}

// HashesByIndex renders every node hash keyed by its node index.
func (t *Tree) HashesByIndex() map[uint64]string {
	m := make(map[uint64]string, t.Size())
	for _, l := range t.Leaves {
		m[l.Index] = l.Hash.String()
	}
	for _, n := range t.Nodes {
		m[n.Index] = n.Hash.String()
	}
	return m
}

// CheckShape checks the index layout of the tree. It does not re-compute any
// hashes.
func (t *Tree) CheckShape() error {
	leafCount := uint64(len(t.Leaves))
	if err := ValidateLeafCount(leafCount); err != nil {
		return err
	}
	if uint64(len(t.Nodes)) != leafCount-1 {
		return fmt.Errorf(
			"%w: %d leaves need %d interior nodes, have %d", ErrInvalidShape, leafCount, leafCount-1, len(t.Nodes))
	}
	for i, l := range t.Leaves {
		if l.Index != uint64(i) {
			return fmt.Errorf("%w: leaf at position %d has index %d", ErrInvalidShape, i, l.Index)
		}
		if len(l.Hash) == 0 {
			return fmt.Errorf("%w: leaf %d has no hash", ErrInvalidInput, i)
		}
	}

	levelStart, levelSize := uint64(0), leafCount
	next := leafCount
	for levelSize > 1 {
		for k := uint64(0); k < levelSize/2; k++ {
			n := t.Nodes[next-leafCount]
			want := [2]uint64{levelStart + 2*k, levelStart + 2*k + 1}
			if n.Index != next || n.Children != want {
				return fmt.Errorf(
					"%w: node %d (children %v), expected node %d (children %v)",
					ErrInvalidShape, n.Index, n.Children, next, want)
			}
			next++
		}
		levelStart += levelSize
		levelSize /= 2
	}
	return nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		ID:      t.ID,
		Padding: t.Padding,
		Hasher:  t.Hasher,
		Leaves:  make([]LeafNode, len(t.Leaves)),
		Nodes:   make([]InternalNode, len(t.Nodes)),
	}
	for i, l := range t.Leaves {
		c.Leaves[i] = LeafNode{Index: l.Index, Value: cloneBytes(l.Value), Hash: cloneBytes(l.Hash)}
	}
	for i, n := range t.Nodes {
		c.Nodes[i] = InternalNode{Index: n.Index, Children: n.Children, Hash: cloneBytes(n.Hash)}
	}
	return c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
