package bplustree

import "github.com/btree-query-bench/ordidx/internal/arena"

type entry[K any] struct {
	key   K
	child arena.ID
}

type node[K any] struct {
	entries []entry[K]
	head    arena.ID
	parent  arena.ID
	next    arena.ID
}

func (n *node[K]) isLeaf() bool { return n.head == arena.Nil }

// childAt returns head for i == -1, else entries[i].child.
func (n *node[K]) childAt(i int) arena.ID {
	if i < 0 {
		return n.head
	}
	return n.entries[i].child
}

// childPos is the inverse of childAt. It returns -2 when id is not a child.
func (n *node[K]) childPos(id arena.ID) int {
	if n.head == id {
		return -1
	}
	for i := range n.entries {
		if n.entries[i].child == id {
			return i
		}
	}
	return -2
}

// Leaf is a read-only view of one leaf node.
type Leaf[K any] struct {
	t  *Tree[K]
	id arena.ID
}

// Keys returns a copy of the leaf's keys.
func (l Leaf[K]) Keys() []K {
	n := l.t.n(l.id)
	out := make([]K, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.key
	}
	return out
}

// Next returns the following leaf in the key chain.
func (l Leaf[K]) Next() (Leaf[K], bool) {
	next := l.t.n(l.id).next
	if next == arena.Nil {
		return Leaf[K]{}, false
	}
	return Leaf[K]{t: l.t, id: next}, true
}
