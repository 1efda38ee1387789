package treestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	testStore(t, store)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestMemoryStore_loadDoesNotAlias(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	id, err := store.Save(context.Background(), simpleTree(t))
	require.NoError(t, err)

	a, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	a.Leaves[0].Value[0] = 'Z'

	b, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "zero", string(b.Leaves[0].Value))
}
