package bplustree

import (
	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
)

var _ index.Iterator[int] = (*Cursor[int])(nil)

// Cursor walks the leaf chain in ascending order, optionally up to an
// inclusive upper bound. It is invalidated by any mutation of the tree.
type Cursor[K any] struct {
	t *Tree[K]

	startLeaf arena.ID
	startIdx  int

	leaf arena.ID
	idx  int
	key  K

	hi      K
	bounded bool
}

// Iter returns a cursor over every key.
func (t *Tree[K]) Iter() *Cursor[K] {
	c := &Cursor[K]{t: t, startLeaf: t.leftmostLeaf()}
	c.Rewind()
	return c
}

// Range returns a cursor over keys in [lo, hi].
func (t *Tree[K]) Range(lo, hi K) *Cursor[K] {
	c := &Cursor[K]{t: t, hi: hi, bounded: true}
	if t.cmp(lo, hi) <= 0 {
		if id := t.findLeaf(lo); id != arena.Nil {
			c.startLeaf = id
			c.startIdx, _ = t.position(t.n(id), lo)
		}
	}
	c.Rewind()
	return c
}

// Ascend calls fn for each key in order until fn returns false.
func (t *Tree[K]) Ascend(fn func(K) bool) {
	c := t.Iter()
	for c.Next() {
		if !fn(c.Key()) {
			return
		}
	}
}

// Keys returns all keys in order.
func (t *Tree[K]) Keys() []K {
	out := make([]K, 0, t.size)
	t.Ascend(func(k K) bool {
		out = append(out, k)
		return true
	})
	return out
}

func (c *Cursor[K]) Next() bool {
	for c.leaf != arena.Nil {
		n := c.t.n(c.leaf)
		if c.idx < len(n.entries) {
			k := n.entries[c.idx].key
			if c.bounded && c.t.cmp(k, c.hi) > 0 {
				c.leaf = arena.Nil
				return false
			}
			c.key = k
			c.idx++
			return true
		}
		c.leaf, c.idx = n.next, 0
	}
	return false
}

func (c *Cursor[K]) Key() K       { return c.key }
func (c *Cursor[K]) Error() error { return nil }

func (c *Cursor[K]) Close() error {
	c.leaf = arena.Nil
	return nil
}

// Rewind restarts the cursor at its first key.
func (c *Cursor[K]) Rewind() {
	c.leaf, c.idx = c.startLeaf, c.startIdx
}
