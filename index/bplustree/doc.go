// Package bplustree implements an in-memory B+ tree index.
//
// Every key lives in a leaf. Leaves are chained left to right, so a full or
// bounded scan never climbs back up the tree. Internal nodes hold separator
// keys copied up from the leaves: a node's head routes keys below its first
// separator and entries[i].child routes keys in [entries[i].key,
// entries[i+1].key).
//
// Node layout:
//
//	entries  ordered (key, child) pairs, strictly increasing keys
//	head     leftmost child (arena.Nil for a leaf)
//	parent   back-reference to the owning node (arena.Nil for the root)
//	next     right sibling in the leaf chain (leaves only)
//
// Nodes are arena slots addressed by ID, so parent and next links are plain
// integers that are rewritten on every split, borrow and merge.
//
// The degree d (at least 3) bounds every node to d-1 entries. A non-root
// node keeps at least ceil(d/2)-1. Keys follow set semantics: inserting a
// key equal to a stored one fails with index.ErrDuplicate.
package bplustree
