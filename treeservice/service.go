// Package treeservice builds, proves and updates trees held in a
// treestore.TreeStore.
//
// Reads and updates of the same tree are serialised: an update holds the
// tree's write lock across load, rebuild and save, so a concurrent proof sees
// either the previous snapshot or the next one, never a mix. Different trees
// proceed independently.
package treeservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/forestrie/go-hashtree/treestore"
	"github.com/google/uuid"
)

var (
	ErrSignerNotConfigured = errors.New("no root signer configured")
	ErrStaleSignedRoot     = errors.New("the signed leaf count does not match the stored tree")
)

type Service struct {
	cfg    Config
	log    logger.Logger
	hasher *hashtree.Hasher
	store  treestore.TreeStore
	locks  *treeLocks

	coseSigner IdentifiableCoseSigner
	rootSigner RootSigner
	codec      dtcbor.CBORCodec
	nowMS      func() int64
}

func New(cfg Config, store treestore.TreeStore, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:   cfg,
		store: store,
		locks: newTreeLocks(),
		nowMS: func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Sugar.WithServiceName("treeservice")
	}
	if s.hasher == nil {
		name := cfg.Hasher
		if name == "" {
			name = hashtree.DefaultHasher
		}
		h, err := hashtree.NewHasher(name)
		if err != nil {
			return nil, err
		}
		s.hasher = h
	}

	codec, err := NewRootSignerCodec()
	if err != nil {
		return nil, err
	}
	s.codec = codec
	s.rootSigner = NewRootSigner(cfg.Issuer, codec)
	return s, nil
}

// Hasher returns the hasher used for new trees and for Verify.
func (s *Service) Hasher() *hashtree.Hasher { return s.hasher }

// CreateTree builds a tree from dataPoints, keyed by decimal leaf position,
// and saves it. The count must be a power of two.
func (s *Service) CreateTree(ctx context.Context, dataPoints map[string]string) (uuid.UUID, error) {
	return s.create(ctx, hashtree.PaddingExact, dataPoints, 0)
}

// CreateSparseTree builds a tree of size leaves, padding the positions absent
// from dataPoints with sentinel leaves, and saves it.
func (s *Service) CreateSparseTree(ctx context.Context, dataPoints map[string]string, size uint64) (uuid.UUID, error) {
	return s.create(ctx, hashtree.PaddingSentinel, dataPoints, size)
}

func (s *Service) create(
	ctx context.Context, padding hashtree.Padding, dataPoints map[string]string, size uint64,
) (uuid.UUID, error) {
	tree, err := hashtree.BuildDeclared(s.hasher, padding, dataPoints, size)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := s.store.Save(ctx, tree)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Infof("created %s tree %s: %d leaves, root %s", padding, id, tree.LeafCount(), tree.RootHash())
	return id, nil
}

// Tree returns the stored snapshot of the tree.
func (s *Service) Tree(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error) {
	unlock := s.locks.RLock(id)
	defer unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*hashtree.Tree, error) {
	tree, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("loaded tree %s: %d leaves", id, tree.LeafCount())
	return tree, nil
}

// GetTree returns the hex hash of every leaf and interior node keyed by node
// index.
func (s *Service) GetTree(ctx context.Context, id uuid.UUID) (map[uint64]string, error) {
	tree, err := s.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	return tree.HashesByIndex(), nil
}

// Root returns the hex root hash of the tree.
func (s *Service) Root(ctx context.Context, id uuid.UUID) (string, error) {
	tree, err := s.Tree(ctx, id)
	if err != nil {
		return "", err
	}
	return tree.RootHash().String(), nil
}

// ProofOfMembership validates that value is the leaf at leafIndex, and is not
// a padding sentinel of a sparse tree, then returns the inclusion proof as hex
// hashes.
func (s *Service) ProofOfMembership(
	ctx context.Context, id uuid.UUID, leafIndex uint64, value string,
) ([]string, error) {
	tree, err := s.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	proof, err := hashtree.ProveMembership(tree, leafIndex, []byte(value))
	if err != nil {
		return nil, err
	}
	s.log.Debugf("proof for tree %s leaf %d: %d hashes", id, leafIndex, len(proof))
	return hashtree.HashStrings(proof), nil
}

// Verify checks a proof produced by ProofOfMembership against root. It needs
// no stored state.
func (s *Service) Verify(value string, leafIndex uint64, proof []string, root string) (bool, error) {
	return hashtree.VerifyInclusionHex(s.hasher, []byte(value), leafIndex, proof, root)
}

// UpdateLeaves replaces the values of the leaves named in dataPoints, rebuilds
// the tree and saves it as a new snapshot under the same id. It returns the
// new hex root. On any error the stored tree is left as it was.
func (s *Service) UpdateLeaves(ctx context.Context, id uuid.UUID, dataPoints map[string]string) (string, error) {
	updates := make(map[uint64][]byte, len(dataPoints))
	for k, v := range dataPoints {
		i, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: leaf position %q is not a decimal integer", hashtree.ErrInvalidInput, k)
		}
		if _, ok := updates[i]; ok {
			return "", fmt.Errorf("%w: leaf %d is named twice", hashtree.ErrInvalidInput, i)
		}
		updates[i] = []byte(v)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tree, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	h, err := s.treeHasher(tree)
	if err != nil {
		return "", err
	}
	next, err := tree.Update(h, updates)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Save(ctx, next); err != nil {
		return "", err
	}
	s.log.Infof("updated tree %s: %d leaves changed, root %s", id, len(updates), next.RootHash())
	return next.RootHash().String(), nil
}

// treeHasher returns the hasher the tree was built with.
func (s *Service) treeHasher(tree *hashtree.Tree) (*hashtree.Hasher, error) {
	if tree.Hasher == "" || tree.Hasher == s.hasher.Name() {
		return s.hasher, nil
	}
	return hashtree.NewHasher(tree.Hasher)
}

// SignRoot returns a COSE Sign1 message committing the current root of the
// tree. The root itself is detached from the message.
func (s *Service) SignRoot(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.coseSigner == nil {
		return nil, ErrSignerNotConfigured
	}
	tree, err := s.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	publicKey, err := s.coseSigner.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("unable to get public key for signing key %w", err)
	}
	state := TreeState{
		TreeID:    id[:],
		LeafCount: tree.LeafCount(),
		Root:      tree.RootHash(),
		Timestamp: s.nowMS(),
		Hasher:    tree.Hasher,
	}
	msg, err := s.rootSigner.Sign1(
		s.coseSigner, s.coseSigner.KeyIdentifier(), publicKey, id.String(), state, nil)
	if err != nil {
		return nil, err
	}
	s.log.Infof("signed root of tree %s at %d leaves", id, state.LeafCount)
	return msg, nil
}

// VerifySignedRoot decodes msg, recomputes the detached root from the stored
// tree and verifies the signature with the key carried in the message.
//
// The stored tree must still be the signed snapshot. Once it is updated the
// old signature no longer verifies.
func (s *Service) VerifySignedRoot(ctx context.Context, msg []byte) (TreeState, error) {
	signed, state, err := DecodeSignedRoot(s.codec, msg)
	if err != nil {
		return TreeState{}, err
	}
	id, err := uuid.FromBytes(state.TreeID)
	if err != nil {
		return TreeState{}, fmt.Errorf("%w: tree id: %v", hashtree.ErrInvalidInput, err)
	}
	tree, err := s.Tree(ctx, id)
	if err != nil {
		return TreeState{}, err
	}
	if tree.LeafCount() != state.LeafCount {
		return TreeState{}, fmt.Errorf(
			"%w: signed %d, stored %d", ErrStaleSignedRoot, state.LeafCount, tree.LeafCount())
	}
	state.Root = tree.RootHash()
	err = VerifySignedRoot(s.codec, dtcose.NewCWTPublicKeyProvider(signed), signed, state, nil)
	if err != nil {
		return TreeState{}, err
	}
	return state, nil
}
