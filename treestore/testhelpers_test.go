package treestore

import (
	"context"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.New("TEST")
}

func simpleTree(t *testing.T) *hashtree.Tree {
	t.Helper()
	tree, err := hashtree.BuildDeclared(
		hashtree.NewDefaultHasher(), hashtree.PaddingExact,
		map[string]string{
			"0": "zero", "1": "one", "2": "two", "3": "three",
			"4": "four", "5": "five", "6": "six", "7": "seven",
		}, 0)
	require.NoError(t, err)
	return tree
}

func sparseTree(t *testing.T) *hashtree.Tree {
	t.Helper()
	tree, err := hashtree.BuildDeclared(
		hashtree.NewDefaultHasher(), hashtree.PaddingSentinel,
		map[string]string{"0": "zero", "2": "two"}, 4)
	require.NoError(t, err)
	return tree
}

// testStore runs the behaviour every TreeStore implementation shares.
func testStore(t *testing.T, store TreeStore) {
	ctx := context.Background()
	h := hashtree.NewDefaultHasher()

	tree := simpleTree(t)
	id, err := store.Save(ctx, tree)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.Equal(t, uuid.Nil, tree.ID, "Save does not modify the caller's tree")

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, loaded.ID)
	require.Equal(t, tree.Leaves, loaded.Leaves)
	require.Equal(t, tree.Nodes, loaded.Nodes)
	require.Equal(t, tree.RootHash(), loaded.RootHash())
	require.Equal(t, tree.Hasher, loaded.Hasher)

	// replace the snapshot under the same id
	next, err := loaded.Update(h, map[uint64][]byte{2: []byte("X")})
	require.NoError(t, err)
	sameID, err := store.Save(ctx, next)
	require.NoError(t, err)
	require.Equal(t, id, sameID)

	reloaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, next.RootHash(), reloaded.RootHash())
	require.Equal(t, "X", string(reloaded.Leaves[2].Value))

	// sparse trees keep their padding
	sparseID, err := store.Save(ctx, sparseTree(t))
	require.NoError(t, err)
	sparse, err := store.Load(ctx, sparseID)
	require.NoError(t, err)
	require.Equal(t, hashtree.PaddingSentinel, sparse.Padding)
	require.Equal(t, hashtree.SentinelValue, string(sparse.Leaves[1].Value))

	// unknown ids
	missing := next.Clone()
	missing.ID[0] ^= 0xff
	_, err = store.Load(ctx, missing.ID)
	require.ErrorIs(t, err, ErrTreeNotFound)
	_, err = store.Save(ctx, missing)
	require.ErrorIs(t, err, ErrTreeNotFound)
}
