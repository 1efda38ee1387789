// Package hashtree builds perfect binary merkle trees over an explicit, index
// ordered, set of leaves.
//
// A tree of L leaves (L a power of two) is held as two flat arrays. The leaves
// occupy the indices [0, L) and each level of interior nodes takes the next
// contiguous block, assigned left to right. The root has the highest index,
// 2L-2. For L = 8:
//
//	3                14
//	           /          \
//	2        12            13
//	       /    \        /    \
//	1     8      9     10      11
//	     / \    / \    / \    /  \
//	0   0   1  2   3  4   5  6    7
//
// Interior node 12 commits (8, 9), node 8 commits (0, 1). Child indices are
// adjacent within their level, they are not adjacent to the parent.
//
// Sparse trees are built from a declared size. Positions without a declared
// value are filled with SentinelValue leaves. A sentinel leaf is structurally
// present but is never accepted as the subject of a membership claim.
//
// Nothing in this package performs I/O. Persistence is the concern of the
// treestore package.
package hashtree
