package bst

import (
	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/walk"
)

// node is the two-child substrate used by the pointer based strategies.
// aux is the strategy's balancing datum: a level for AA, a cached height
// for AVL.
type node[K any, A any] struct {
	key         K
	left, right *node[K, A]
	aux         A
}

func graphOf[K, A any]() walk.Graph[*node[K, A]] {
	return walk.Graph[*node[K, A]]{
		IsNil:    func(n *node[K, A]) bool { return n == nil },
		Children: func(n *node[K, A]) (*node[K, A], *node[K, A]) { return n.left, n.right },
	}
}

// rotateRight lifts n.left above n and returns the new subtree root.
// Callers refresh aux themselves.
func rotateRight[K, A any](n *node[K, A]) *node[K, A] {
	l := n.left
	n.left = l.right
	l.right = n
	return l
}

// rotateLeft lifts n.right above n and returns the new subtree root.
func rotateLeft[K, A any](n *node[K, A]) *node[K, A] {
	r := n.right
	n.right = r.left
	r.left = n
	return r
}

func find[K, A any](n *node[K, A], key K, cmp index.Compare[K]) *node[K, A] {
	for n != nil {
		c := cmp(key, n.key)
		if c == 0 {
			return n
		}
		if c < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil
}

func minNode[K, A any](n *node[K, A]) *node[K, A] {
	for n != nil && n.left != nil {
		n = n.left
	}
	return n
}

func maxNode[K, A any](n *node[K, A]) *node[K, A] {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

func depth[K, A any](n *node[K, A]) int {
	if n == nil {
		return 0
	}
	return 1 + max(depth(n.left), depth(n.right))
}

func ascendRange[K, A any](n *node[K, A], lo, hi K, cmp index.Compare[K], fn func(K) bool) bool {
	if n == nil {
		return true
	}
	aboveLo := cmp(n.key, lo) >= 0
	belowHi := cmp(n.key, hi) <= 0
	if aboveLo && !ascendRange(n.left, lo, hi, cmp, fn) {
		return false
	}
	if aboveLo && belowHi && !fn(n.key) {
		return false
	}
	if belowHi {
		return ascendRange(n.right, lo, hi, cmp, fn)
	}
	return true
}
