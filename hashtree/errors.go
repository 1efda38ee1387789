package hashtree

import "errors"

var (
	// ErrInvalidInput is returned when a required value is absent or malformed.
	// Leaf values, hash operands, proofs and roots are all checked.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidShape is returned when a leaf count or declared sparse size is
	// not a power of two.
	ErrInvalidShape = errors.New("leaf count is not a power of two")
	// ErrNotFound is returned when a referenced leaf index does not exist.
	ErrNotFound = errors.New("leaf not found")
	// ErrMembershipNotFound is returned when a claimed (index, value) pair is
	// not a real, non sentinel, leaf of the tree.
	ErrMembershipNotFound = errors.New("membership claim not found")
)
