package hashtree

import (
	"fmt"
	"math/bits"
)

// IsPow2 determines if the unsigned value size is a perfect power of 2.
func IsPow2(size uint64) bool {
	if size == 0 {
		return false
	}
	return size&(size-1) == 0
}

// NextPow2 returns the smallest power of two which is >= n. NextPow2(0) is 0.
func NextPow2(n uint64) uint64 {
	if n <= 1 {
		return n
	}
	return 1 << bits.Len64(n-1)
}

// Log2Uint64 efficiently computes log base 2 of num
func Log2Uint64(num uint64) uint64 {
	return uint64(bits.Len64(num) - 1)
}

// ComputeFillCount returns the number of sentinel leaves needed to pad n
// leaves up to the next power of two.
//
//	ComputeFillCount(5) == 3
//	ComputeFillCount(8) == 0
func ComputeFillCount(n uint64) uint64 {
	return NextPow2(n) - n
}

// PrimeFactors returns the prime factorisation of n in ascending order. 0 and
// 1 have no prime factors.
func PrimeFactors(n uint64) []uint64 {
	var factors []uint64
	if n < 2 {
		return factors
	}
	for n%2 == 0 {
		factors = append(factors, 2)
		n /= 2
	}
	for i := uint64(3); i <= n/i; i += 2 {
		for n%i == 0 {
			factors = append(factors, i)
			n /= i
		}
	}
	if n > 2 {
		factors = append(factors, n)
	}
	return factors
}

// ValidateLeafCount checks n can be the leaf count of a perfect binary tree.
// The count must be at least 1 and have no prime factor other than 2.
func ValidateLeafCount(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: a tree needs at least one leaf", ErrInvalidShape)
	}
	for _, f := range PrimeFactors(n) {
		if f != 2 {
			return fmt.Errorf("%w: %d has the prime factor %d", ErrInvalidShape, n, f)
		}
	}
	return nil
}
