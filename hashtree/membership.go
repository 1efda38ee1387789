package hashtree

import (
	"bytes"
	"fmt"
)

// MembershipPolicy decides which structurally present leaves may be the
// subject of a membership claim.
type MembershipPolicy uint8

const (
	// RejectNone accepts any leaf.
	RejectNone MembershipPolicy = iota
	// RejectSentinel refuses leaves holding SentinelValue.
	RejectSentinel
)

// ValidateMembershipClaim fails with ErrMembershipNotFound unless a leaf has
// both the claimed index and the claimed value. Under RejectSentinel a leaf
// holding SentinelValue never satisfies a claim.
func ValidateMembershipClaim(leaves []LeafNode, index uint64, value []byte, policy MembershipPolicy) error {
	if value == nil {
		return fmt.Errorf("%w: claimed value is nil", ErrInvalidInput)
	}
	for _, l := range leaves {
		if l.Index != index || !bytes.Equal(l.Value, value) {
			continue
		}
		if policy == RejectSentinel && IsSentinel(l.Value) {
			return fmt.Errorf("%w: leaf %d is a padding sentinel", ErrMembershipNotFound, index)
		}
		return nil
	}
	return fmt.Errorf("%w: no leaf %d with the claimed value", ErrMembershipNotFound, index)
}

// IsSentinel reports whether value is the padding sentinel.
func IsSentinel(value []byte) bool {
	return string(value) == SentinelValue
}
