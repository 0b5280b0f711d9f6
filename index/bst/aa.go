package bst

import (
	"fmt"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
)

// level is an AA node's level. Leaves sit at level 1; nil links count as 0.
type level uint

// AATree is an Andersson tree.
type AATree[K any] struct {
	core[K, level]
}

// NewAA creates an empty AA tree ordered by cmp.
func NewAA[K any](cmp index.Compare[K], opts ...Option) (*AATree[K], error) {
	c, err := newCore[K, level](cmp, opts, func(l level) string { return fmt.Sprintf("[L%d]", l) })
	if err != nil {
		return nil, err
	}
	return &AATree[K]{core: c}, nil
}

// Insert adds key. Duplicates are kept.
func (t *AATree[K]) Insert(key K) error {
	if err := t.reserve(); err != nil {
		return err
	}
	t.root = aaInsert(t.root, key, t.cmp)
	t.size++
	return nil
}

// Remove deletes one key equal to key and reports whether one was found.
func (t *AATree[K]) Remove(key K) bool {
	var ok bool
	t.root, ok = aaRemove(t.root, key, t.cmp)
	if ok {
		t.size--
	}
	return ok
}

// Check verifies ordering and the AA level rules.
func (t *AATree[K]) Check() error {
	if err := t.checkOrder(); err != nil {
		return err
	}
	return aaCheck(t.root)
}

func lvl[K any](n *node[K, level]) level {
	if n == nil {
		return 0
	}
	return n.aux
}

// skew removes a horizontal left link.
func skew[K any](t *node[K, level]) *node[K, level] {
	if t == nil || t.left == nil || t.left.aux != t.aux {
		return t
	}
	return rotateRight(t)
}

// split breaks up two consecutive horizontal right links by lifting the
// middle node one level.
func split[K any](t *node[K, level]) *node[K, level] {
	if t == nil || t.right == nil || t.right.right == nil || t.right.right.aux != t.aux {
		return t
	}
	r := rotateLeft(t)
	r.aux++
	return r
}

func aaInsert[K any](t *node[K, level], key K, cmp index.Compare[K]) *node[K, level] {
	if t == nil {
		return &node[K, level]{key: key, aux: 1}
	}
	if cmp(key, t.key) < 0 {
		t.left = aaInsert(t.left, key, cmp)
	} else {
		t.right = aaInsert(t.right, key, cmp)
	}
	return split(skew(t))
}

func aaRemove[K any](t *node[K, level], key K, cmp index.Compare[K]) (*node[K, level], bool) {
	if t == nil {
		return nil, false
	}
	var removed bool
	switch c := cmp(key, t.key); {
	case c < 0:
		t.left, removed = aaRemove(t.left, key, cmp)
	case c > 0:
		t.right, removed = aaRemove(t.right, key, cmp)
	default:
		removed = true
		switch {
		case t.left == nil && t.right == nil:
			return nil, true
		case t.right != nil:
			t.right, t.key = aaRemoveMin(t.right)
		default:
			t.left, t.key = aaRemoveMax(t.left)
		}
	}
	if !removed {
		return t, false
	}
	return aaRebalance(t), true
}

// aaRemoveMin unlinks the leftmost node of t and returns its key.
func aaRemoveMin[K any](t *node[K, level]) (*node[K, level], K) {
	if t.left == nil {
		return t.right, t.key
	}
	var k K
	t.left, k = aaRemoveMin(t.left)
	return aaRebalance(t), k
}

func aaRemoveMax[K any](t *node[K, level]) (*node[K, level], K) {
	if t.right == nil {
		return t.left, t.key
	}
	var k K
	t.right, k = aaRemoveMax(t.right)
	return aaRebalance(t), k
}

// aaRebalance restores the level rules at t after a deletion below it,
// following Andersson's sequence: decrease the level, three skews, two
// splits.
func aaRebalance[K any](t *node[K, level]) *node[K, level] {
	if should := min(lvl(t.left), lvl(t.right)) + 1; should < t.aux {
		t.aux = should
		if t.right != nil && should < t.right.aux {
			t.right.aux = should
		}
	}
	t = skew(t)
	t.right = skew(t.right)
	if t.right != nil {
		t.right.right = skew(t.right.right)
	}
	t = split(t)
	t.right = split(t.right)
	return t
}

func aaCheck[K any](n *node[K, level]) error {
	if n == nil {
		return nil
	}
	switch {
	case n.aux < 1:
		return errors.Newf("aa: node %v has level %d", n.key, n.aux)
	case n.left == nil && n.right == nil && n.aux != 1:
		return errors.Newf("aa: leaf %v at level %d", n.key, n.aux)
	case lvl(n.left) != n.aux-1:
		return errors.Newf("aa: left child of %v at level %d, parent at %d", n.key, lvl(n.left), n.aux)
	case lvl(n.right) != n.aux && lvl(n.right) != n.aux-1:
		return errors.Newf("aa: right child of %v at level %d, parent at %d", n.key, lvl(n.right), n.aux)
	case n.right != nil && lvl(n.right.right) >= n.aux:
		return errors.Newf("aa: two horizontal right links below %v", n.key)
	case n.aux > 1 && (n.left == nil || n.right == nil):
		return errors.Newf("aa: internal node %v at level %d lacks a child", n.key, n.aux)
	}
	if err := aaCheck(n.left); err != nil {
		return err
	}
	return aaCheck(n.right)
}
