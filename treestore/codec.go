package treestore

import (
	"fmt"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const (
	// RecordVersion is the version of the cbor tree record written by
	// EncodeTree.
	RecordVersion = 1
)

type leafRecord struct {
	Value []byte `cbor:"1,keyasint"`
	Hash  []byte `cbor:"2,keyasint"`
}

type nodeRecord struct {
	Left  uint64 `cbor:"1,keyasint"`
	Right uint64 `cbor:"2,keyasint"`
	Hash  []byte `cbor:"3,keyasint"`
}

// treeRecord is the stored form of a tree. Leaf and node indices are implied
// by position: leaves are 0..L-1 and nodes L..2L-2.
type treeRecord struct {
	Version uint16       `cbor:"1,keyasint"`
	ID      []byte       `cbor:"2,keyasint"`
	Padding uint8        `cbor:"3,keyasint"`
	Hasher  string       `cbor:"4,keyasint"`
	Leaves  []leafRecord `cbor:"5,keyasint"`
	Nodes   []nodeRecord `cbor:"6,keyasint"`
}

// RecordCodec encodes trees as deterministic cbor.
type RecordCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewRecordCodec() (RecordCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return RecordCodec{}, err
	}
	dec, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		return RecordCodec{}, err
	}
	return RecordCodec{enc: enc, dec: dec}, nil
}

// EncodeTree encodes tree with id as its identity.
func (c RecordCodec) EncodeTree(id uuid.UUID, tree *hashtree.Tree) ([]byte, error) {
	rec := treeRecord{
		Version: RecordVersion,
		ID:      id[:],
		Padding: uint8(tree.Padding),
		Hasher:  tree.Hasher,
		Leaves:  make([]leafRecord, 0, len(tree.Leaves)),
		Nodes:   make([]nodeRecord, 0, len(tree.Nodes)),
	}
	for _, l := range tree.Leaves {
		rec.Leaves = append(rec.Leaves, leafRecord{Value: l.Value, Hash: l.Hash})
	}
	for _, n := range tree.Nodes {
		rec.Nodes = append(rec.Nodes, nodeRecord{Left: n.Children[0], Right: n.Children[1], Hash: n.Hash})
	}
	return c.enc.Marshal(rec)
}

// DecodeTree decodes a record produced by EncodeTree and checks its shape.
func (c RecordCodec) DecodeTree(data []byte) (*hashtree.Tree, error) {
	var rec treeRecord
	if err := c.dec.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrRecordVersion, rec.Version)
	}
	id, err := uuid.FromBytes(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}

	tree := &hashtree.Tree{
		ID:      id,
		Padding: hashtree.Padding(rec.Padding),
		Hasher:  rec.Hasher,
		Leaves:  make([]hashtree.LeafNode, 0, len(rec.Leaves)),
		Nodes:   make([]hashtree.InternalNode, 0, len(rec.Nodes)),
	}
	for i, l := range rec.Leaves {
		value := l.Value
		if value == nil {
			value = []byte{}
		}
		tree.Leaves = append(tree.Leaves, hashtree.LeafNode{Index: uint64(i), Value: value, Hash: l.Hash})
	}
	next := uint64(len(rec.Leaves))
	for _, n := range rec.Nodes {
		tree.Nodes = append(tree.Nodes, hashtree.InternalNode{
			Index: next, Children: [2]uint64{n.Left, n.Right}, Hash: n.Hash,
		})
		next++
	}
	if err := tree.CheckShape(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	return tree, nil
}
