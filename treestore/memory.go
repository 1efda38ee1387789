package treestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
)

// MemoryStore keeps encoded snapshots in a map. Loaded trees never alias the
// stored state.
type MemoryStore struct {
	opts StoreOptions

	mu    sync.RWMutex
	trees map[uuid.UUID][]byte
}

func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	o, err := newStoreOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{opts: o, trees: make(map[uuid.UUID][]byte)}, nil
}

func (s *MemoryStore) Load(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error) {
	s.mu.RLock()
	data, ok := s.trees[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	return s.opts.Codec.DecodeTree(data)
}

func (s *MemoryStore) Save(ctx context.Context, tree *hashtree.Tree) (uuid.UUID, error) {
	id, creating, err := assignID(tree)
	if err != nil {
		return uuid.Nil, err
	}
	data, err := s.opts.Codec.EncodeTree(id, tree)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.trees[id]
	if creating && exists {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrExistsOC, id)
	}
	if !creating && !exists {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	s.trees[id] = data
	return id, nil
}

// List returns the ids of all stored trees in lexical order.
func (s *MemoryStore) List(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.trees))
	for id := range s.trees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a].String() < ids[b].String() })
	return ids, nil
}
