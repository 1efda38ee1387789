package hashtree

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareExact(t *testing.T) {
	h := NewDefaultHasher()

	tests := []struct {
		name     string
		declared map[string]string
		wantErr  error
	}{
		{"eight leaves", declaredLeaves(8), nil},
		{"one leaf", declaredLeaves(1), nil},
		{"six leaves has the prime factor 3", declaredLeaves(6), ErrInvalidShape},
		{"no leaves", map[string]string{}, ErrInvalidShape},
		{"gap in the positions", map[string]string{"0": "a", "2": "b"}, ErrInvalidInput},
		{"non decimal position", map[string]string{"0": "a", "x": "b"}, ErrInvalidInput},
		{"two keys for one position", map[string]string{"1": "a", "01": "b"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, err := PrepareExact(h, tt.declared)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, leaves, len(tt.declared))
			for i, l := range leaves {
				assert.Equal(t, uint64(i), l.Index)
				assert.Equal(t, tt.declared[strconv.FormatUint(l.Index, 10)], string(l.Value))
				assert.Equal(t, keccak(l.Value), l.Hash)
			}
		})
	}
}

func TestPrepareExact_passesValuesThrough(t *testing.T) {
	leaves, err := PrepareExact(NewDefaultHasher(), declaredLeaves(8))
	require.NoError(t, err)
	for i, l := range leaves {
		assert.Equal(t, numberNames[i], string(l.Value))
	}
}

func TestPrepareSentinel(t *testing.T) {
	h := NewDefaultHasher()
	declared := map[string]string{"0": "zero", "1": "one", "2": "two", "3": "three", "4": "four"}

	// five declared values round up to eight
	size := uint64(len(declared)) + ComputeFillCount(uint64(len(declared)))
	require.Equal(t, uint64(8), size)

	leaves, err := PrepareSentinel(h, declared, size)
	require.NoError(t, err)
	require.Len(t, leaves, 8)

	for i, l := range leaves {
		assert.Equal(t, uint64(i), l.Index)
		assert.Equal(t, keccak(l.Value), l.Hash)
		if i < 5 {
			assert.Equal(t, numberNames[i], string(l.Value))
			continue
		}
		assert.Equal(t, SentinelValue, string(l.Value))
	}
}

func TestPrepareSentinel_holes(t *testing.T) {
	leaves, err := PrepareSentinel(NewDefaultHasher(), map[string]string{"1": "one", "3": "three"}, 4)
	require.NoError(t, err)
	require.Len(t, leaves, 4)
	assert.Equal(t, SentinelValue, string(leaves[0].Value))
	assert.Equal(t, "one", string(leaves[1].Value))
	assert.Equal(t, SentinelValue, string(leaves[2].Value))
	assert.Equal(t, "three", string(leaves[3].Value))
}

func TestPrepareSentinel_errors(t *testing.T) {
	h := NewDefaultHasher()
	tests := []struct {
		name     string
		declared map[string]string
		size     uint64
		wantErr  error
	}{
		{"size not a power of two", map[string]string{"0": "a"}, 5, ErrInvalidShape},
		{"size zero", map[string]string{}, 0, ErrInvalidShape},
		{"position beyond the size", map[string]string{"4": "a"}, 4, ErrInvalidInput},
		{"bad position", map[string]string{"-1": "a"}, 4, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareSentinel(h, tt.declared, tt.size)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrepare_dispatch(t *testing.T) {
	h := NewDefaultHasher()

	leaves, err := Prepare(PaddingExact, h, declaredLeaves(4), 16)
	require.NoError(t, err)
	assert.Len(t, leaves, 4, "declared size is ignored for exact padding")

	leaves, err = Prepare(PaddingSentinel, h, declaredLeaves(4), 16)
	require.NoError(t, err)
	assert.Len(t, leaves, 16)

	_, err = Prepare(Padding(9), h, declaredLeaves(4), 4)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePadding(t *testing.T) {
	tests := []struct {
		s       string
		want    Padding
		wantErr bool
	}{
		{"exact", PaddingExact, false},
		{"regular", PaddingExact, false},
		{"", PaddingExact, false},
		{"sentinel", PaddingSentinel, false},
		{"sparse", PaddingSentinel, false},
		{"dense", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got, err := ParsePadding(tt.s)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "exact", PaddingExact.String())
	assert.Equal(t, "sentinel", PaddingSentinel.String())
	assert.Equal(t, RejectNone, PaddingExact.Membership())
	assert.Equal(t, RejectSentinel, PaddingSentinel.Membership())
}
