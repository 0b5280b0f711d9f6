package bplustree

import (
	"fmt"
	"strings"

	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
	"github.com/xlab/treeprint"
)

// Check verifies the structural invariants: key order and separator bounds,
// node occupancy, parent links, uniform leaf depth, the leaf chain and the
// key count.
func (t *Tree[K]) Check() error {
	if t.root == arena.Nil {
		if t.size != 0 || t.nodes.Live() != 0 {
			return errors.Newf("bplustree: empty tree with size %d and %d live nodes", t.size, t.nodes.Live())
		}
		return nil
	}
	if p := t.n(t.root).parent; p != arena.Nil {
		return errors.Newf("bplustree: root %d has parent %d", t.root, p)
	}

	c := checker[K]{t: t, leafDepth: -1}
	if err := c.node(t.root, 0, nil, nil); err != nil {
		return err
	}
	if c.nodes != t.nodes.Live() {
		return errors.Newf("bplustree: %d reachable nodes, %d live", c.nodes, t.nodes.Live())
	}
	if c.keys != t.size {
		return errors.Newf("bplustree: %d keys in leaves, size %d", c.keys, t.size)
	}

	id := t.leftmostLeaf()
	var prev *K
	for i, want := range c.leaves {
		if id != want {
			return errors.Newf("bplustree: leaf chain position %d is %d, want %d", i, id, want)
		}
		n := t.n(id)
		for j := range n.entries {
			k := n.entries[j].key
			if prev != nil && t.cmp(*prev, k) >= 0 {
				return errors.Newf("bplustree: leaf chain out of order at %v", k)
			}
			prev = &n.entries[j].key
		}
		id = n.next
	}
	if id != arena.Nil {
		return errors.Newf("bplustree: leaf chain continues past last leaf into %d", id)
	}
	return nil
}

type checker[K any] struct {
	t         *Tree[K]
	leafDepth int
	leaves    []arena.ID
	nodes     int
	keys      int
}

// node checks the subtree at id. Keys must lie in [lo, hi) where a nil bound
// is open.
func (c *checker[K]) node(id arena.ID, depth int, lo, hi *K) error {
	t := c.t
	if !t.nodes.Valid(id) {
		return errors.Newf("bplustree: dangling node %d", id)
	}
	n := t.n(id)
	c.nodes++

	if len(n.entries) > t.maxEntries() {
		return errors.Newf("bplustree: node %d holds %d entries, max %d", id, len(n.entries), t.maxEntries())
	}
	if id != t.root && len(n.entries) < t.minEntries() {
		return errors.Newf("bplustree: node %d holds %d entries, min %d", id, len(n.entries), t.minEntries())
	}
	if len(n.entries) == 0 {
		return errors.Newf("bplustree: node %d is empty", id)
	}
	for i := range n.entries {
		k := n.entries[i].key
		if i > 0 && t.cmp(n.entries[i-1].key, k) >= 0 {
			return errors.Newf("bplustree: node %d keys out of order at %v", id, k)
		}
		if lo != nil && t.cmp(k, *lo) < 0 {
			return errors.Newf("bplustree: node %d key %v below bound %v", id, k, *lo)
		}
		if hi != nil && t.cmp(k, *hi) >= 0 {
			return errors.Newf("bplustree: node %d key %v not below bound %v", id, k, *hi)
		}
	}

	if n.isLeaf() {
		if c.leafDepth < 0 {
			c.leafDepth = depth
		} else if depth != c.leafDepth {
			return errors.Newf("bplustree: leaf %d at depth %d, others at %d", id, depth, c.leafDepth)
		}
		c.leaves = append(c.leaves, id)
		c.keys += len(n.entries)
		return nil
	}

	for i := -1; i < len(n.entries); i++ {
		child := n.childAt(i)
		if !t.nodes.Valid(child) {
			return errors.Newf("bplustree: node %d has dangling child %d", id, child)
		}
		if p := t.n(child).parent; p != id {
			return errors.Newf("bplustree: child %d of %d points to parent %d", child, id, p)
		}
		clo, chi := lo, hi
		if i >= 0 {
			clo = &n.entries[i].key
		}
		if i+1 < len(n.entries) {
			chi = &n.entries[i+1].key
		}
		if err := c.node(child, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

// Print renders the tree as an indented outline.
func (t *Tree[K]) Print() string {
	if t.root == arena.Nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	tp := treeprint.NewWithRoot(t.label(t.root))
	t.printChildren(tp, t.root)
	return tp.String()
}

func (t *Tree[K]) printChildren(b treeprint.Tree, id arena.ID) {
	n := t.n(id)
	if n.isLeaf() {
		return
	}
	for i := -1; i < len(n.entries); i++ {
		meta := "<"
		if i >= 0 {
			meta = fmt.Sprintf(">=%v", n.entries[i].key)
		}
		child := n.childAt(i)
		t.printChildren(b.AddMetaBranch(meta, t.label(child)), child)
	}
}

func (t *Tree[K]) label(id arena.ID) string {
	n := t.n(id)
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = fmt.Sprint(e.key)
	}
	if n.isLeaf() {
		return "leaf [" + strings.Join(keys, " ") + "]"
	}
	return "[" + strings.Join(keys, " ") + "]"
}
