package treestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	treeKeyPrefix = "tree/"
)

type LevelDBConfig struct {
	// Path is the database directory, created if it does not exist.
	Path string
	// NoSync disables the fsync after each write. Only for tests.
	NoSync bool
}

// LevelDBStore keeps one encoded snapshot per key. Replacing a tree is a
// single Put.
type LevelDBStore struct {
	cfg  LevelDBConfig
	opts StoreOptions
	db   *leveldb.DB
	// mu serialises the existence check and the write in Save
	mu chan struct{}
}

// OpenLevelDB opens, or creates, the database at cfg.Path.
func OpenLevelDB(cfg LevelDBConfig, opts ...Option) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(cfg.Path, nil)
	if err != nil {
		return nil, err
	}
	s, err := NewLevelDBStore(cfg, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewLevelDBStore wraps an already open database. Close closes db.
func NewLevelDBStore(cfg LevelDBConfig, db *leveldb.DB, opts ...Option) (*LevelDBStore, error) {
	o, err := newStoreOptions(opts...)
	if err != nil {
		return nil, err
	}
	s := &LevelDBStore{cfg: cfg, opts: o, db: db, mu: make(chan struct{}, 1)}
	return s, nil
}

func treeKey(id uuid.UUID) []byte {
	return append([]byte(treeKeyPrefix), id[:]...)
}

func (s *LevelDBStore) Load(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error) {
	if s.db == nil {
		return nil, ErrStoreNotOpened
	}
	data, err := s.db.Get(treeKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s.opts.Codec.DecodeTree(data)
}

func (s *LevelDBStore) Save(ctx context.Context, tree *hashtree.Tree) (uuid.UUID, error) {
	if s.db == nil {
		return uuid.Nil, ErrStoreNotOpened
	}
	id, creating, err := assignID(tree)
	if err != nil {
		return uuid.Nil, err
	}
	data, err := s.opts.Codec.EncodeTree(id, tree)
	if err != nil {
		return uuid.Nil, err
	}

	select {
	case s.mu <- struct{}{}:
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
	defer func() { <-s.mu }()

	key := treeKey(id)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		return uuid.Nil, err
	}
	if creating && exists {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrExistsOC, id)
	}
	if !creating && !exists {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	if err := s.db.Put(key, data, &opt.WriteOptions{Sync: !s.cfg.NoSync}); err != nil {
		return uuid.Nil, err
	}
	s.opts.Log.Debugf("saved tree %s, %d leaves", id, len(tree.Leaves))
	return id, nil
}

// List returns the ids of all stored trees in key order.
func (s *LevelDBStore) List(ctx context.Context) ([]uuid.UUID, error) {
	if s.db == nil {
		return nil, ErrStoreNotOpened
	}
	it := s.db.NewIterator(util.BytesPrefix([]byte(treeKeyPrefix)), nil)
	defer it.Release()

	var ids []uuid.UUID
	for it.Next() {
		id, err := uuid.FromBytes(it.Key()[len(treeKeyPrefix):])
		if err != nil {
			return nil, fmt.Errorf("%w: bad key %x", ErrRecordInvalid, it.Key())
		}
		ids = append(ids, id)
	}
	return ids, it.Error()
}

func (s *LevelDBStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
