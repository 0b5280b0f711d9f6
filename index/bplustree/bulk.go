package bplustree

import (
	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
)

type built[K any] struct {
	id  arena.ID
	low K
}

// BulkLoad builds the tree bottom-up from strictly ascending keys. The tree
// must be empty. Leaves are filled evenly with up to degree-1 keys and each
// internal level groups up to degree children, so every node meets the
// minimum occupancy.
func (t *Tree[K]) BulkLoad(sorted []K) error {
	if t.root != arena.Nil {
		return errors.Wrapf(index.ErrNotEmpty, "bplustree: bulk load into tree of %d keys", t.size)
	}
	for i := 1; i < len(sorted); i++ {
		if t.cmp(sorted[i-1], sorted[i]) >= 0 {
			return errors.Wrapf(index.ErrBadArgument, "bplustree: bulk load input not strictly ascending at %d", i)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	if need := bulkNodes(len(sorted), t.degree); !t.nodes.Reserve(need) {
		return errors.Wrapf(index.ErrAllocation, "bplustree: bulk load needs %d nodes, limit %d", need, t.nodes.Limit())
	}

	var cur, next []built[K]
	prev := arena.Nil
	off := 0
	for _, size := range partition(len(sorted), t.maxEntries()) {
		id := t.mustAlloc()
		n := t.n(id)
		n.entries = make([]entry[K], size)
		for j := range n.entries {
			n.entries[j].key = sorted[off+j]
		}
		if prev != arena.Nil {
			t.n(prev).next = id
		}
		prev = id
		cur = append(cur, built[K]{id: id, low: sorted[off]})
		off += size
	}

	for len(cur) > 1 {
		off = 0
		for _, size := range partition(len(cur), t.degree) {
			id := t.mustAlloc()
			n := t.n(id)
			first := cur[off]
			n.head = first.id
			t.n(first.id).parent = id
			n.entries = make([]entry[K], 0, size-1)
			for _, c := range cur[off+1 : off+size] {
				n.entries = append(n.entries, entry[K]{key: c.low, child: c.id})
				t.n(c.id).parent = id
			}
			next = append(next, built[K]{id: id, low: first.low})
			off += size
		}
		cur, next = next, cur[:0]
	}

	t.root = cur[0].id
	t.size = len(sorted)
	return nil
}

// partition splits n items into the fewest groups of at most max items,
// with sizes differing by at most one.
func partition(n, max int) []int {
	groups := (n + max - 1) / max
	base, extra := n/groups, n%groups
	sizes := make([]int, groups)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

func bulkNodes(n, degree int) int {
	c := (n + degree - 2) / (degree - 1)
	total := c
	for c > 1 {
		c = (c + degree - 1) / degree
		total += c
	}
	return total
}
