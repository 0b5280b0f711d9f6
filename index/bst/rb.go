package bst

import (
	"fmt"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/btree-query-bench/ordidx/internal/walk"
	"github.com/cockroachdb/errors"
	"github.com/xlab/treeprint"
)

type color uint8

// black is the zero value so the arena sentinel is black.
const (
	black color = iota
	red
)

func (c color) String() string {
	if c == red {
		return "R"
	}
	return "B"
}

type rbNode[K any] struct {
	key                 K
	left, right, parent arena.ID
	color               color
}

// RBTree is a red-black tree. Nodes are arena slots, links are IDs and
// arena.Nil doubles as the black sentinel leaf.
type RBTree[K any] struct {
	nodes *arena.Arena[rbNode[K]]
	root  arena.ID
	cmp   index.Compare[K]
	size  int
}

// NewRB creates an empty red-black tree ordered by cmp.
func NewRB[K any](cmp index.Compare[K], opts ...Option) (*RBTree[K], error) {
	if cmp == nil {
		return nil, errors.Wrap(index.ErrBadArgument, "bst: nil comparator")
	}
	cfg := buildConfig(opts)
	return &RBTree[K]{
		nodes: arena.New[rbNode[K]](cfg.nodeLimit),
		cmp:   cmp,
	}, nil
}

func (t *RBTree[K]) n(id arena.ID) *rbNode[K] { return t.nodes.At(id) }

func (t *RBTree[K]) graph() walk.Graph[arena.ID] {
	return walk.Graph[arena.ID]{
		IsNil:    func(id arena.ID) bool { return id == arena.Nil },
		Children: func(id arena.ID) (arena.ID, arena.ID) { n := t.n(id); return n.left, n.right },
	}
}

// ─── Rotations ────────────────────────────────────────────────────────────────

func (t *RBTree[K]) rotateLeft(x arena.ID) {
	xn := t.n(x)
	y := xn.right
	yn := t.n(y)
	xn.right = yn.left
	if yn.left != arena.Nil {
		t.n(yn.left).parent = x
	}
	t.replaceChild(xn.parent, x, y)
	yn.left = x
	xn.parent = y
}

func (t *RBTree[K]) rotateRight(x arena.ID) {
	xn := t.n(x)
	y := xn.left
	yn := t.n(y)
	xn.left = yn.right
	if yn.right != arena.Nil {
		t.n(yn.right).parent = x
	}
	t.replaceChild(xn.parent, x, y)
	yn.right = x
	xn.parent = y
}

// replaceChild points parent's link to old at repl instead, and sets
// repl's parent. A Nil parent means old was the root.
func (t *RBTree[K]) replaceChild(parent, old, repl arena.ID) {
	switch {
	case parent == arena.Nil:
		t.root = repl
	case t.n(parent).left == old:
		t.n(parent).left = repl
	default:
		t.n(parent).right = repl
	}
	t.n(repl).parent = parent
}

// ─── Insert ───────────────────────────────────────────────────────────────────

// Insert adds key. Duplicates are kept.
func (t *RBTree[K]) Insert(key K) error {
	z, err := t.nodes.Alloc()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "bst: rb insert"), index.ErrAllocation)
	}
	zn := t.n(z)
	zn.key = key
	zn.color = red

	y, x := arena.Nil, t.root
	for x != arena.Nil {
		y = x
		if t.cmp(key, t.n(x).key) < 0 {
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	zn.parent = y
	switch {
	case y == arena.Nil:
		t.root = z
	case t.cmp(key, t.n(y).key) < 0:
		t.n(y).left = z
	default:
		t.n(y).right = z
	}
	t.size++
	t.insertFixup(z)
	return nil
}

func (t *RBTree[K]) insertFixup(z arena.ID) {
	for t.n(t.n(z).parent).color == red {
		p := t.n(z).parent
		g := t.n(p).parent
		if p == t.n(g).left {
			u := t.n(g).right
			if t.n(u).color == red {
				t.n(p).color = black
				t.n(u).color = black
				t.n(g).color = red
				z = g
				continue
			}
			if z == t.n(p).right {
				z = p
				t.rotateLeft(z)
				p = t.n(z).parent
			}
			t.n(p).color = black
			t.n(g).color = red
			t.rotateRight(g)
		} else {
			u := t.n(g).left
			if t.n(u).color == red {
				t.n(p).color = black
				t.n(u).color = black
				t.n(g).color = red
				z = g
				continue
			}
			if z == t.n(p).left {
				z = p
				t.rotateRight(z)
				p = t.n(z).parent
			}
			t.n(p).color = black
			t.n(g).color = red
			t.rotateLeft(g)
		}
	}
	t.n(t.root).color = black
}

// ─── Delete ───────────────────────────────────────────────────────────────────

// transplant replaces the subtree at u with the one at v. v may be the
// sentinel, whose parent is then set for deleteFixup.
func (t *RBTree[K]) transplant(u, v arena.ID) {
	t.replaceChild(t.n(u).parent, u, v)
}

func (t *RBTree[K]) minimum(x arena.ID) arena.ID {
	for t.n(x).left != arena.Nil {
		x = t.n(x).left
	}
	return x
}

func (t *RBTree[K]) maximum(x arena.ID) arena.ID {
	for t.n(x).right != arena.Nil {
		x = t.n(x).right
	}
	return x
}

func (t *RBTree[K]) lookup(key K) arena.ID {
	x := t.root
	for x != arena.Nil {
		c := t.cmp(key, t.n(x).key)
		if c == 0 {
			return x
		}
		if c < 0 {
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	return arena.Nil
}

// Remove deletes one key equal to key and reports whether one was found.
func (t *RBTree[K]) Remove(key K) bool {
	z := t.lookup(key)
	if z == arena.Nil {
		return false
	}
	zn := t.n(z)
	y, origColor := z, zn.color
	var x arena.ID
	switch {
	case zn.left == arena.Nil:
		x = zn.right
		t.transplant(z, zn.right)
	case zn.right == arena.Nil:
		x = zn.left
		t.transplant(z, zn.left)
	default:
		y = t.minimum(zn.right)
		yn := t.n(y)
		origColor = yn.color
		x = yn.right
		if yn.parent == z {
			t.n(x).parent = y
		} else {
			t.transplant(y, yn.right)
			yn.right = zn.right
			t.n(yn.right).parent = y
		}
		t.transplant(z, y)
		yn.left = zn.left
		t.n(yn.left).parent = y
		yn.color = zn.color
	}
	if origColor == black {
		t.deleteFixup(x)
	}
	t.n(arena.Nil).parent = arena.Nil
	t.nodes.Free(z)
	t.size--
	return true
}

func (t *RBTree[K]) deleteFixup(x arena.ID) {
	for x != t.root && t.n(x).color == black {
		p := t.n(x).parent
		if x == t.n(p).left {
			w := t.n(p).right
			if t.n(w).color == red {
				t.n(w).color = black
				t.n(p).color = red
				t.rotateLeft(p)
				w = t.n(p).right
			}
			if t.n(t.n(w).left).color == black && t.n(t.n(w).right).color == black {
				t.n(w).color = red
				x = p
				continue
			}
			if t.n(t.n(w).right).color == black {
				t.n(t.n(w).left).color = black
				t.n(w).color = red
				t.rotateRight(w)
				w = t.n(p).right
			}
			t.n(w).color = t.n(p).color
			t.n(p).color = black
			t.n(t.n(w).right).color = black
			t.rotateLeft(p)
			x = t.root
		} else {
			w := t.n(p).left
			if t.n(w).color == red {
				t.n(w).color = black
				t.n(p).color = red
				t.rotateRight(p)
				w = t.n(p).left
			}
			if t.n(t.n(w).right).color == black && t.n(t.n(w).left).color == black {
				t.n(w).color = red
				x = p
				continue
			}
			if t.n(t.n(w).left).color == black {
				t.n(t.n(w).right).color = black
				t.n(w).color = red
				t.rotateLeft(w)
				w = t.n(p).left
			}
			t.n(w).color = t.n(p).color
			t.n(p).color = black
			t.n(t.n(w).left).color = black
			t.rotateRight(p)
			x = t.root
		}
	}
	t.n(x).color = black
}

// ─── Read side ────────────────────────────────────────────────────────────────

func (t *RBTree[K]) Len() int { return t.size }

func (t *RBTree[K]) Find(key K) (K, bool) {
	if id := t.lookup(key); id != arena.Nil {
		return t.n(id).key, true
	}
	var zero K
	return zero, false
}

func (t *RBTree[K]) Contains(key K) bool { return t.lookup(key) != arena.Nil }

func (t *RBTree[K]) Min() (K, bool) {
	if t.root == arena.Nil {
		var zero K
		return zero, false
	}
	return t.n(t.minimum(t.root)).key, true
}

func (t *RBTree[K]) Max() (K, bool) {
	if t.root == arena.Nil {
		var zero K
		return zero, false
	}
	return t.n(t.maximum(t.root)).key, true
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *RBTree[K]) Height() int {
	var depthOf func(arena.ID) int
	depthOf = func(id arena.ID) int {
		if id == arena.Nil {
			return 0
		}
		n := t.n(id)
		return 1 + max(depthOf(n.left), depthOf(n.right))
	}
	return depthOf(t.root)
}

// Walk visits every key in the given order until fn returns false.
func (t *RBTree[K]) Walk(order walk.Order, fn func(K) bool) {
	walk.Walk(t.graph(), t.root, order, func(id arena.ID) bool { return fn(t.n(id).key) })
}

func (t *RBTree[K]) Ascend(fn func(K) bool) { t.Walk(walk.InOrder, fn) }

// AscendRange visits keys in [lo, hi] in non-decreasing order.
func (t *RBTree[K]) AscendRange(lo, hi K, fn func(K) bool) {
	var rec func(arena.ID) bool
	rec = func(id arena.ID) bool {
		if id == arena.Nil {
			return true
		}
		n := t.n(id)
		aboveLo := t.cmp(n.key, lo) >= 0
		belowHi := t.cmp(n.key, hi) <= 0
		if aboveLo && !rec(n.left) {
			return false
		}
		if aboveLo && belowHi && !fn(n.key) {
			return false
		}
		if belowHi {
			return rec(n.right)
		}
		return true
	}
	rec(t.root)
}

func (t *RBTree[K]) FindFunc(order walk.Order, pred func(K) bool) (K, bool) {
	id, ok := walk.Find(t.graph(), t.root, order, func(id arena.ID) bool { return pred(t.n(id).key) })
	if !ok {
		var zero K
		return zero, false
	}
	return t.n(id).key, true
}

// Free releases every node back to the arena. It is idempotent.
func (t *RBTree[K]) Free() {
	walk.Walk(t.graph(), t.root, walk.PostOrder, func(id arena.ID) bool {
		t.nodes.Free(id)
		return true
	})
	t.nodes.Reset()
	t.root = arena.Nil
	t.size = 0
}

// ─── Verification ─────────────────────────────────────────────────────────────

// Check verifies ordering, parent links and the red-black coloring rules.
func (t *RBTree[K]) Check() error {
	if t.root == arena.Nil {
		if t.size != 0 {
			return errors.Newf("rb: empty tree reports size %d", t.size)
		}
		return nil
	}
	if t.n(t.root).color != black {
		return errors.New("rb: root is red")
	}
	if t.n(t.root).parent != arena.Nil {
		return errors.New("rb: root has a parent")
	}
	count := 0
	var prev *K
	var rec func(arena.ID) (int, error)
	rec = func(id arena.ID) (int, error) {
		if id == arena.Nil {
			return 1, nil
		}
		n := t.n(id)
		for _, c := range []arena.ID{n.left, n.right} {
			if c == arena.Nil {
				continue
			}
			if t.n(c).parent != id {
				return 0, errors.Newf("rb: child %v of %v has wrong parent", t.n(c).key, n.key)
			}
			if n.color == red && t.n(c).color == red {
				return 0, errors.Newf("rb: red node %v has a red child", n.key)
			}
		}
		lb, err := rec(n.left)
		if err != nil {
			return 0, err
		}
		if prev != nil && t.cmp(*prev, n.key) > 0 {
			return 0, errors.Newf("rb: keys out of order: %v before %v", *prev, n.key)
		}
		prev = &n.key
		count++
		rb, err := rec(n.right)
		if err != nil {
			return 0, err
		}
		if lb != rb {
			return 0, errors.Newf("rb: black height differs below %v (%d vs %d)", n.key, lb, rb)
		}
		if n.color == black {
			lb++
		}
		return lb, nil
	}
	if _, err := rec(t.root); err != nil {
		return err
	}
	if count != t.size || count != t.nodes.Live() {
		return errors.Newf("rb: size %d, reachable %d, live %d", t.size, count, t.nodes.Live())
	}
	return nil
}

// Print renders the tree with each node's color.
func (t *RBTree[K]) Print() string {
	if t.root == arena.Nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	label := func(id arena.ID) string {
		n := t.n(id)
		return fmt.Sprintf("%v [%s]", n.key, n.color)
	}
	var rec func(treeprint.Tree, arena.ID)
	rec = func(branch treeprint.Tree, id arena.ID) {
		n := t.n(id)
		if n.left != arena.Nil {
			rec(branch.AddMetaBranch("L", label(n.left)), n.left)
		}
		if n.right != arena.Nil {
			rec(branch.AddMetaBranch("R", label(n.right)), n.right)
		}
	}
	tree := treeprint.NewWithRoot(label(t.root))
	rec(tree, t.root)
	return tree.String()
}
