package bplustree

import (
	"slices"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
)

// Option configures a Tree.
type Option func(*options)

type options struct {
	nodeLimit int
}

// WithNodeLimit caps the number of live nodes. Inserts and bulk loads that
// would need more fail with index.ErrAllocation before touching the tree.
func WithNodeLimit(n int) Option {
	return func(o *options) { o.nodeLimit = n }
}

type Tree[K any] struct {
	nodes  *arena.Arena[node[K]]
	root   arena.ID
	degree int
	cmp    index.Compare[K]
	size   int
}

// New creates an empty tree. degree must be at least 3.
func New[K any](degree int, cmp index.Compare[K], opts ...Option) (*Tree[K], error) {
	if degree < 3 {
		return nil, errors.Wrapf(index.ErrBadArgument, "bplustree: degree %d < 3", degree)
	}
	if cmp == nil {
		return nil, errors.Wrap(index.ErrBadArgument, "bplustree: nil comparator")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[K]{
		nodes:  arena.New[node[K]](o.nodeLimit),
		degree: degree,
		cmp:    cmp,
	}, nil
}

func (t *Tree[K]) n(id arena.ID) *node[K] { return t.nodes.At(id) }

func (t *Tree[K]) maxEntries() int { return t.degree - 1 }
func (t *Tree[K]) minEntries() int { return (t.degree+1)/2 - 1 }

// mustAlloc allocates a node the caller has already reserved.
func (t *Tree[K]) mustAlloc() arena.ID {
	id, err := t.nodes.Alloc()
	if err != nil {
		panic(errors.Wrap(err, "bplustree: allocation after successful reserve"))
	}
	return id
}

func (t *Tree[K]) Len() int    { return t.size }
func (t *Tree[K]) Degree() int { return t.degree }

// Nodes returns the number of live nodes.
func (t *Tree[K]) Nodes() int { return t.nodes.Live() }

// Height returns the number of levels, zero for an empty tree.
func (t *Tree[K]) Height() int {
	h := 0
	for id := t.root; id != arena.Nil; id = t.n(id).head {
		h++
	}
	return h
}

// ─── Search ───────────────────────────────────────────────────────────────────

// route picks the child of internal node n that covers key, scanning the
// separators from the end.
func (t *Tree[K]) route(n *node[K], key K) arena.ID {
	for i := len(n.entries) - 1; i >= 0; i-- {
		if t.cmp(n.entries[i].key, key) <= 0 {
			return n.entries[i].child
		}
	}
	return n.head
}

func (t *Tree[K]) findLeaf(key K) arena.ID {
	id := t.root
	for id != arena.Nil && !t.n(id).isLeaf() {
		id = t.route(t.n(id), key)
	}
	return id
}

func (t *Tree[K]) leftmostLeaf() arena.ID {
	id := t.root
	for id != arena.Nil && !t.n(id).isLeaf() {
		id = t.n(id).head
	}
	return id
}

func (t *Tree[K]) position(n *node[K], key K) (int, bool) {
	return slices.BinarySearchFunc(n.entries, key, func(e entry[K], k K) int { return t.cmp(e.key, k) })
}

// Search returns the leaf holding key.
func (t *Tree[K]) Search(key K) (Leaf[K], bool) {
	id := t.findLeaf(key)
	if id == arena.Nil {
		return Leaf[K]{}, false
	}
	if _, ok := t.position(t.n(id), key); !ok {
		return Leaf[K]{}, false
	}
	return Leaf[K]{t: t, id: id}, true
}

// Get returns the stored key equal to key.
func (t *Tree[K]) Get(key K) (K, bool) {
	if id := t.findLeaf(key); id != arena.Nil {
		n := t.n(id)
		if i, ok := t.position(n, key); ok {
			return n.entries[i].key, true
		}
	}
	var zero K
	return zero, false
}

func (t *Tree[K]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Free releases every node, level by level. Children are queued before
// their parent is released. Free is idempotent.
func (t *Tree[K]) Free() {
	if t.root != arena.Nil {
		queue := []arena.ID{t.root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			n := t.n(id)
			if !n.isLeaf() {
				queue = append(queue, n.head)
				for _, e := range n.entries {
					queue = append(queue, e.child)
				}
			}
			t.nodes.Free(id)
		}
	}
	t.nodes.Reset()
	t.root = arena.Nil
	t.size = 0
}
