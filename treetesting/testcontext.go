// Package treetesting provides fixtures for tests of the hashtree stores and
// service.
package treetesting

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/forestrie/go-hashtree/treestore"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

type TestContext struct {
	Log    logger.Logger
	Hasher *hashtree.Hasher
	Store  *treestore.LevelDBStore
	T      *testing.T
	rng    *mathrand.Rand
}

type TestConfig struct {
	// We seed the RNG of the provided StartTimeMS. It is normal to force it to
	// some fixed value so that the generated data is the same from run to run.
	StartTimeMS     int64
	TestLabelPrefix string
	Hasher          string // can be "" defaults to hashtree.DefaultHasher
}

// NewTestContext returns a context whose store is a leveldb instance held in
// memory. It is closed when the test ends.
func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T:   t,
		rng: mathrand.New(mathrand.NewSource(cfg.StartTimeMS)),
	}
	logger.New("INFO")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	hasherName := cfg.Hasher
	if hasherName == "" {
		hasherName = hashtree.DefaultHasher
	}
	var err error
	c.Hasher, err = hashtree.NewHasher(hasherName)
	require.NoError(t, err)

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	c.Store, err = treestore.NewLevelDBStore(
		treestore.LevelDBConfig{NoSync: true}, db, treestore.WithLogger(c.Log))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Store.Close() })

	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

func (c *TestContext) GetStore() *treestore.LevelDBStore {
	return c.Store
}

// SimpleDataPoints returns the eight leaf reference data set
//
//	{"0": "zero", "1": "one", ... "7": "seven"}
func SimpleDataPoints() map[string]string {
	return map[string]string{
		"0": "zero", "1": "one", "2": "two", "3": "three",
		"4": "four", "5": "five", "6": "six", "7": "seven",
	}
}

// DataPoints returns n generated values keyed 0..n-1.
func (c *TestContext) DataPoints(n int) map[string]string {
	m := make(map[string]string, n)
	for i := 0; i < n; i++ {
		m[fmt.Sprint(i)] = c.RandomValue()
	}
	return m
}

// SparseDataPoints returns count generated values at distinct random
// positions below size.
func (c *TestContext) SparseDataPoints(count, size int) map[string]string {
	require.LessOrEqual(c.T, count, size)
	m := make(map[string]string, count)
	for _, i := range c.rng.Perm(size)[:count] {
		m[fmt.Sprint(i)] = c.RandomValue()
	}
	return m
}

// RandomValue returns a 16 character lowercase hex string.
func (c *TestContext) RandomValue() string {
	return fmt.Sprintf("%016x", c.rng.Uint64())
}

func TestGenerateECKey(t *testing.T, curve elliptic.Curve) ecdsa.PrivateKey {
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return *privateKey
}
