package treestore

import (
	"testing"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodec_roundTrip(t *testing.T) {
	codec, err := NewRecordCodec()
	require.NoError(t, err)

	tree := sparseTree(t)
	id := uuid.New()

	data, err := codec.EncodeTree(id, tree)
	require.NoError(t, err)

	again, err := codec.EncodeTree(id, tree)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is deterministic")

	decoded, err := codec.DecodeTree(data)
	require.NoError(t, err)
	assert.Equal(t, id, decoded.ID)
	assert.Equal(t, tree.Padding, decoded.Padding)
	assert.Equal(t, tree.Leaves, decoded.Leaves)
	assert.Equal(t, tree.Nodes, decoded.Nodes)
}

func TestRecordCodec_singleLeaf(t *testing.T) {
	codec, err := NewRecordCodec()
	require.NoError(t, err)
	h := hashtree.NewDefaultHasher()

	tree, err := hashtree.BuildDeclared(h, hashtree.PaddingExact, map[string]string{"0": ""}, 0)
	require.NoError(t, err)

	data, err := codec.EncodeTree(uuid.New(), tree)
	require.NoError(t, err)
	decoded, err := codec.DecodeTree(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Nodes)
	assert.NotNil(t, decoded.Leaves[0].Value)
	assert.Equal(t, tree.RootHash(), decoded.RootHash())
}

func TestRecordCodec_rejectsBadRecords(t *testing.T) {
	codec, err := NewRecordCodec()
	require.NoError(t, err)
	tree := simpleTree(t)

	// drop the root
	broken := tree.Clone()
	broken.Nodes = broken.Nodes[:len(broken.Nodes)-1]
	data, err := codec.EncodeTree(uuid.New(), broken)
	require.NoError(t, err)
	_, err = codec.DecodeTree(data)
	assert.ErrorIs(t, err, ErrRecordInvalid)

	// future version
	data, err = codec.enc.Marshal(treeRecord{Version: RecordVersion + 1})
	require.NoError(t, err)
	_, err = codec.DecodeTree(data)
	assert.ErrorIs(t, err, ErrRecordVersion)

	_, err = codec.DecodeTree([]byte("not cbor"))
	assert.ErrorIs(t, err, ErrRecordInvalid)
}
