// Package bst implements balanced binary search trees over a caller
// supplied ordering.
//
// Three interchangeable balancing strategies share one node substrate and
// one rotation vocabulary:
//
//   - AATree keeps a level per node and repairs with skew and split.
//   - AVLTree caches subtree heights and rotates when a balance factor
//     leaves [-1, 1].
//   - RBTree colors nodes red or black and follows the classic insert and
//     delete fixup loops. Its nodes live in an arena and link to their
//     parent by ID.
//
// All three accept duplicate keys. A key that compares equal to a node is
// routed into that node's right subtree, so callers that need set semantics
// must check Contains first. Remove deletes exactly one occurrence.
//
// None of the trees are safe for concurrent use.
package bst
