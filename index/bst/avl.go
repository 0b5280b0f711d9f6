package bst

import (
	"fmt"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
)

// height is the cached height of an AVL subtree. A leaf has height 1.
type height int

// AVLTree is a height balanced tree.
type AVLTree[K any] struct {
	core[K, height]
}

// NewAVL creates an empty AVL tree ordered by cmp.
func NewAVL[K any](cmp index.Compare[K], opts ...Option) (*AVLTree[K], error) {
	c, err := newCore[K, height](cmp, opts, func(h height) string { return fmt.Sprintf("[h%d]", h) })
	if err != nil {
		return nil, err
	}
	return &AVLTree[K]{core: c}, nil
}

// Insert adds key. Duplicates are kept.
func (t *AVLTree[K]) Insert(key K) error {
	if err := t.reserve(); err != nil {
		return err
	}
	t.root = avlInsert(t.root, key, t.cmp)
	t.size++
	return nil
}

// Remove deletes one key equal to key and reports whether one was found.
func (t *AVLTree[K]) Remove(key K) bool {
	var ok bool
	t.root, ok = avlRemove(t.root, key, t.cmp)
	if ok {
		t.size--
	}
	return ok
}

// Check verifies ordering, cached heights and balance factors.
func (t *AVLTree[K]) Check() error {
	if err := t.checkOrder(); err != nil {
		return err
	}
	_, err := avlCheck(t.root)
	return err
}

func ht[K any](n *node[K, height]) int {
	if n == nil {
		return 0
	}
	return int(n.aux)
}

func avlUpdate[K any](n *node[K, height]) {
	n.aux = height(1 + max(ht(n.left), ht(n.right)))
}

func balance[K any](n *node[K, height]) int {
	return ht(n.left) - ht(n.right)
}

func avlRotateRight[K any](n *node[K, height]) *node[K, height] {
	l := rotateRight(n)
	avlUpdate(n)
	avlUpdate(l)
	return l
}

func avlRotateLeft[K any](n *node[K, height]) *node[K, height] {
	r := rotateLeft(n)
	avlUpdate(n)
	avlUpdate(r)
	return r
}

// avlInsert picks the rotation from the side the new key took below the
// heavy child: LL and RR rotate once, LR and RL rotate twice.
func avlInsert[K any](n *node[K, height], key K, cmp index.Compare[K]) *node[K, height] {
	if n == nil {
		return &node[K, height]{key: key, aux: 1}
	}
	if cmp(key, n.key) < 0 {
		n.left = avlInsert(n.left, key, cmp)
	} else {
		n.right = avlInsert(n.right, key, cmp)
	}
	avlUpdate(n)

	switch b := balance(n); {
	case b > 1:
		if cmp(key, n.left.key) >= 0 {
			n.left = avlRotateLeft(n.left)
		}
		return avlRotateRight(n)
	case b < -1:
		if cmp(key, n.right.key) < 0 {
			n.right = avlRotateRight(n.right)
		}
		return avlRotateLeft(n)
	}
	return n
}

func avlRemove[K any](n *node[K, height], key K, cmp index.Compare[K]) (*node[K, height], bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	switch c := cmp(key, n.key); {
	case c < 0:
		n.left, removed = avlRemove(n.left, key, cmp)
	case c > 0:
		n.right, removed = avlRemove(n.right, key, cmp)
	default:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		removed = true
		n.right, n.key = avlRemoveMin(n.right)
	}
	if !removed {
		return n, false
	}
	return avlRebalance(n), true
}

// avlRemoveMin unlinks the in-order successor candidate, the leftmost node.
func avlRemoveMin[K any](n *node[K, height]) (*node[K, height], K) {
	if n.left == nil {
		return n.right, n.key
	}
	var k K
	n.left, k = avlRemoveMin(n.left)
	return avlRebalance(n), k
}

// avlRebalance chooses the rotation from the balance of n and of its heavy
// child, which is what deletion needs.
func avlRebalance[K any](n *node[K, height]) *node[K, height] {
	avlUpdate(n)
	switch b := balance(n); {
	case b > 1:
		if balance(n.left) < 0 {
			n.left = avlRotateLeft(n.left)
		}
		return avlRotateRight(n)
	case b < -1:
		if balance(n.right) > 0 {
			n.right = avlRotateRight(n.right)
		}
		return avlRotateLeft(n)
	}
	return n
}

func avlCheck[K any](n *node[K, height]) (int, error) {
	if n == nil {
		return 0, nil
	}
	lh, err := avlCheck(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := avlCheck(n.right)
	if err != nil {
		return 0, err
	}
	h := 1 + max(lh, rh)
	if int(n.aux) != h {
		return 0, errors.Newf("avl: node %v caches height %d, actual %d", n.key, n.aux, h)
	}
	if d := lh - rh; d > 1 || d < -1 {
		return 0, errors.Newf("avl: node %v has balance %d", n.key, d)
	}
	return h, nil
}
