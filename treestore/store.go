// Package treestore persists built hashtree snapshots keyed by tree id.
//
// Every implementation replaces a whole snapshot with a single write, so a
// reader sees either the previous tree or the next one in full.
package treestore

import (
	"context"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
)

// TreeStore loads and saves tree snapshots.
//
// Save assigns a new id when tree.ID is uuid.Nil, otherwise it replaces the
// snapshot stored under tree.ID. The caller's tree is not modified, the id is
// returned.
type TreeStore interface {
	Load(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error)
	Save(ctx context.Context, tree *hashtree.Tree) (uuid.UUID, error)
}

// Lister is implemented by stores that can enumerate their trees.
type Lister interface {
	List(ctx context.Context) ([]uuid.UUID, error)
}

// assignID returns the id the tree is to be saved under, and whether it is
// being created.
func assignID(tree *hashtree.Tree) (uuid.UUID, bool, error) {
	if tree.ID != uuid.Nil {
		return tree.ID, false, nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}
