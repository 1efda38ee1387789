package hashtree

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var numberNames = []string{"zero", "one", "two", "three", "four", "five", "six", "seven"}

// declaredLeaves returns {"0": "zero", "1": "one", ...} for n <= 8 and
// {"i": "leaf-i"} beyond that.
func declaredLeaves(n int) map[string]string {
	m := make(map[string]string, n)
	for i := 0; i < n; i++ {
		v := fmt.Sprintf("leaf-%d", i)
		if n <= len(numberNames) {
			v = numberNames[i]
		}
		m[fmt.Sprint(i)] = v
	}
	return m
}

func mustBuild(t *testing.T, h *Hasher, n int) *Tree {
	t.Helper()
	tree, err := BuildDeclared(h, PaddingExact, declaredLeaves(n), 0)
	require.NoError(t, err)
	return tree
}

// keccak hashes the concatenation of parts, done by hand so that tree
// construction can be tested against it.
func keccak(parts ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		d.Write(p)
	}
	return d.Sum(nil)
}

func hexBytes(h Hash) []byte { return []byte(hex.EncodeToString(h)) }
