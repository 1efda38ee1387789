package hashtree

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

const (
	// Keccak256 is the legacy (pre SHA-3 padding) Keccak-256 function. It is
	// the default so that roots match trees built by other implementations.
	Keccak256 = "keccak256"
	SHA256    = "sha256"

	DefaultHasher = Keccak256
)

// Hash is a fixed width digest. Its external representation is lowercase hex.
type Hash []byte

func (h Hash) String() string { return hex.EncodeToString(h) }

func (h Hash) Equal(other Hash) bool { return bytes.Equal(h, other) }

var hashers = make(map[string]func() hash.Hash)

func init() {
	RegisterHasher(Keccak256, sha3.NewLegacyKeccak256)
	RegisterHasher(SHA256, sha256.New)
}

// RegisterHasher registers a digest constructor under name. Registering the
// same name twice panics.
func RegisterHasher(name string, f func() hash.Hash) {
	if _, ok := hashers[name]; ok {
		panic(fmt.Sprintf("%s is already registered", name))
	}
	hashers[name] = f
}

// Hasher computes leaf and parent hashes with one fixed digest algorithm.
//
// A Hasher only holds the digest constructor, each call works on a fresh
// digest. It is safe for concurrent use.
type Hasher struct {
	name    string
	size    int
	newHash func() hash.Hash
}

// NewHasher returns the hasher registered as name.
func NewHasher(name string) (*Hasher, error) {
	f, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is an unknown hasher", ErrInvalidInput, name)
	}
	return &Hasher{name: name, size: f().Size(), newHash: f}, nil
}

// NewDefaultHasher returns the Keccak-256 hasher.
func NewDefaultHasher() *Hasher {
	h, err := NewHasher(DefaultHasher)
	if err != nil {
		panic(err)
	}
	return h
}

// Name returns the registered name of the digest algorithm.
func (h *Hasher) Name() string { return h.name }

// Size returns the digest size in bytes.
func (h *Hasher) Size() int { return h.size }

// LeafHash returns H(value).
func (h *Hasher) LeafHash(value []byte) (Hash, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: leaf value is nil", ErrInvalidInput)
	}
	d := h.newHash()
	d.Write(value)
	return d.Sum(nil), nil
}

// ParentHash returns H(hex(left) || hex(right)).
//
// The operands are committed in their lowercase hex rendering, left first.
// Swapping the operands produces a different hash.
func (h *Hasher) ParentHash(left, right Hash) (Hash, error) {
	if len(left) == 0 || len(right) == 0 {
		return nil, fmt.Errorf("%w: parent hash operand is nil", ErrInvalidInput)
	}
	buf := make([]byte, hex.EncodedLen(len(left))+hex.EncodedLen(len(right)))
	n := hex.Encode(buf, left)
	hex.Encode(buf[n:], right)

	d := h.newHash()
	d.Write(buf)
	return d.Sum(nil), nil
}

// ParseHash decodes a hex rendered digest and checks its width.
func (h *Hasher) ParseHash(s string) (Hash, error) {
	if len(s) != hex.EncodedLen(h.size) {
		return nil, fmt.Errorf(
			"%w: hash %q has length %d, expected %d", ErrInvalidInput, s, len(s), hex.EncodedLen(h.size))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return b, nil
}

// ParseHashes decodes each element of hexes with ParseHash. A nil input
// produces a nil result so that an absent proof stays absent.
func (h *Hasher) ParseHashes(hexes []string) ([]Hash, error) {
	if hexes == nil {
		return nil, nil
	}
	out := make([]Hash, 0, len(hexes))
	for _, s := range hexes {
		v, err := h.ParseHash(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// HashStrings renders each hash as lowercase hex.
func HashStrings(hashes []Hash) []string {
	out := make([]string, 0, len(hashes))
	for _, v := range hashes {
		out = append(out, v.String())
	}
	return out
}
