package treestore

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/google/uuid"
)

// blobStore is the subset of *azblob.Storer used by BlobStore
type blobStore interface {
	Reader(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, error)
	Put(ctx context.Context, identity string, source io.ReadSeekCloser, opts ...azblob.Option) (*azblob.WriteResponse, error)
}

// BlobStore keeps one blob per tree.
//
// Creating a tree requires that no blob exists at its path. Replacing a tree
// requires the etag read by the last Load or Save of that tree, so a
// concurrent writer is detected as ErrContentOC rather than silently
// overwritten. A replace without a known etag loads the tree first.
type BlobStore struct {
	opts  StoreOptions
	store blobStore

	mu    sync.Mutex
	etags map[uuid.UUID]string
}

func NewBlobStore(store blobStore, opts ...Option) (*BlobStore, error) {
	o, err := newStoreOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &BlobStore{opts: o, store: store, etags: make(map[uuid.UUID]string)}, nil
}

func (s *BlobStore) Load(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error) {
	blobPath := TreeBlobPath(s.opts.Prefix, id)
	rr, err := s.store.Reader(ctx, blobPath)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	defer rr.Reader.Close()

	data, err := io.ReadAll(rr.Reader)
	if err != nil {
		return nil, err
	}
	tree, err := s.opts.Codec.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", blobPath, err)
	}
	if rr.ETag != nil {
		s.setETag(id, *rr.ETag)
	}
	return tree, nil
}

func (s *BlobStore) Save(ctx context.Context, tree *hashtree.Tree) (uuid.UUID, error) {
	id, creating, err := assignID(tree)
	if err != nil {
		return uuid.Nil, err
	}
	data, err := s.opts.Codec.EncodeTree(id, tree)
	if err != nil {
		return uuid.Nil, err
	}

	var opts []azblob.Option
	if creating {
		// The way to spell 'fail without modifying if the blob exists' is to
		// require that no blob matches *any* etag.
		opts = append(opts, azblob.WithEtagNoneMatch("*"))
	} else {
		etag, ok := s.getETag(id)
		if !ok {
			if _, err := s.Load(ctx, id); err != nil {
				return uuid.Nil, err
			}
			etag, _ = s.getETag(id)
		}
		if etag != "" {
			opts = append(opts, azblob.WithEtagMatch(etag))
		}
	}

	blobPath := TreeBlobPath(s.opts.Prefix, id)
	wr, err := s.store.Put(ctx, blobPath, azblob.NewBytesReaderCloser(data), opts...)
	if err != nil {
		return uuid.Nil, wrapStorageError(err)
	}
	if wr != nil && wr.ETag != nil {
		s.setETag(id, *wr.ETag)
	}
	s.opts.Log.Debugf("saved tree %s to %s", id, blobPath)
	return id, nil
}

func (s *BlobStore) getETag(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	etag, ok := s.etags[id]
	return etag, ok
}

func (s *BlobStore) setETag(id uuid.UUID, etag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.etags[id] = etag
}
