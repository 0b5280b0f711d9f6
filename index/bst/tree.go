package bst

import (
	"fmt"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/walk"
	"github.com/cockroachdb/errors"
	"github.com/xlab/treeprint"
)

// core carries the read side shared by the pointer based trees.
type core[K any, A any] struct {
	root  *node[K, A]
	cmp   index.Compare[K]
	size  int
	cfg   config
	label func(A) string
}

func newCore[K, A any](cmp index.Compare[K], opts []Option, label func(A) string) (core[K, A], error) {
	if cmp == nil {
		return core[K, A]{}, errors.Wrap(index.ErrBadArgument, "bst: nil comparator")
	}
	return core[K, A]{cmp: cmp, cfg: buildConfig(opts), label: label}, nil
}

// reserve fails when one more node would exceed the node limit.
func (c *core[K, A]) reserve() error {
	if c.cfg.nodeLimit > 0 && c.size >= c.cfg.nodeLimit {
		return errors.Wrapf(index.ErrAllocation, "bst: node limit %d reached", c.cfg.nodeLimit)
	}
	return nil
}

// Len returns the number of stored keys, duplicates included.
func (c *core[K, A]) Len() int { return c.size }

// Height returns the number of nodes on the longest root-to-leaf path.
func (c *core[K, A]) Height() int { return depth(c.root) }

// Find returns a stored key equal to key.
func (c *core[K, A]) Find(key K) (K, bool) {
	if n := find(c.root, key, c.cmp); n != nil {
		return n.key, true
	}
	var zero K
	return zero, false
}

func (c *core[K, A]) Contains(key K) bool {
	return find(c.root, key, c.cmp) != nil
}

func (c *core[K, A]) Min() (K, bool) {
	if n := minNode(c.root); n != nil {
		return n.key, true
	}
	var zero K
	return zero, false
}

func (c *core[K, A]) Max() (K, bool) {
	if n := maxNode(c.root); n != nil {
		return n.key, true
	}
	var zero K
	return zero, false
}

// Walk visits every key in the given order until fn returns false.
func (c *core[K, A]) Walk(order walk.Order, fn func(K) bool) {
	walk.Walk(graphOf[K, A](), c.root, order, func(n *node[K, A]) bool { return fn(n.key) })
}

// Ascend visits keys in non-decreasing order.
func (c *core[K, A]) Ascend(fn func(K) bool) { c.Walk(walk.InOrder, fn) }

// AscendRange visits keys in [lo, hi] in non-decreasing order.
func (c *core[K, A]) AscendRange(lo, hi K, fn func(K) bool) {
	ascendRange(c.root, lo, hi, c.cmp, fn)
}

// FindFunc returns the first key in the given order satisfying pred.
func (c *core[K, A]) FindFunc(order walk.Order, pred func(K) bool) (K, bool) {
	n, ok := walk.Find(graphOf[K, A](), c.root, order, func(n *node[K, A]) bool { return pred(n.key) })
	if !ok {
		var zero K
		return zero, false
	}
	return n.key, true
}

// Free releases every node. Calling it again, or on an empty tree, is a
// no-op. The tree stays usable.
func (c *core[K, A]) Free() {
	walk.Walk(graphOf[K, A](), c.root, walk.PostOrder, func(n *node[K, A]) bool {
		n.left, n.right = nil, nil
		return true
	})
	c.root = nil
	c.size = 0
}

func (c *core[K, A]) checkOrder() error {
	var prev *node[K, A]
	var err error
	walk.Walk(graphOf[K, A](), c.root, walk.InOrder, func(n *node[K, A]) bool {
		if prev != nil && c.cmp(prev.key, n.key) > 0 {
			err = errors.Newf("bst: keys out of order: %v before %v", prev.key, n.key)
			return false
		}
		prev = n
		return true
	})
	if err != nil {
		return err
	}
	if got := walk.Count(graphOf[K, A](), c.root); got != c.size {
		return errors.Newf("bst: size %d but %d nodes reachable", c.size, got)
	}
	return nil
}

// Print renders the tree, one node per line, children tagged L and R.
func (c *core[K, A]) Print() string {
	if c.root == nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	tree := treeprint.NewWithRoot(c.nodeLabel(c.root))
	c.printChildren(tree, c.root)
	return tree.String()
}

func (c *core[K, A]) printChildren(branch treeprint.Tree, n *node[K, A]) {
	if n.left != nil {
		c.printChildren(branch.AddMetaBranch("L", c.nodeLabel(n.left)), n.left)
	}
	if n.right != nil {
		c.printChildren(branch.AddMetaBranch("R", c.nodeLabel(n.right)), n.right)
	}
}

func (c *core[K, A]) nodeLabel(n *node[K, A]) string {
	return fmt.Sprintf("%v %s", n.key, c.label(n.aux))
}
