// Package trie implements a compact array trie.
//
// Each level is a sorted slice of records, one per distinct element seen at
// that depth. A record counts the insertions passing through it (refs) and
// the insertions ending at it (ends); a key is present while its last
// record has ends > 0. Levels are created on the first insertion through
// them and dropped as soon as their last record is released.
package trie

import (
	"slices"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
)

type record[E, V any] struct {
	elem    E
	child   *level[E, V]
	refs    int
	ends    int
	payload V
}

type level[E, V any] struct {
	recs []record[E, V]
}

// Option configures a Trie.
type Option func(*options)

type options struct {
	levelLimit int
}

// WithLevelLimit caps the number of live levels. An Insert that would
// create more fails with index.ErrAllocation and changes nothing.
func WithLevelLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.levelLimit = n
		}
	}
}

type Trie[E, V any] struct {
	root   *level[E, V]
	cmp    index.Compare[E]
	size   int
	levels int
	limit  int
}

func New[E, V any](cmp index.Compare[E], opts ...Option) (*Trie[E, V], error) {
	if cmp == nil {
		return nil, errors.Wrap(index.ErrBadArgument, "trie: nil comparator")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Trie[E, V]{cmp: cmp, limit: o.levelLimit}, nil
}

// Len returns the number of live insertions. A key inserted twice counts
// twice.
func (t *Trie[E, V]) Len() int { return t.size }

// Levels returns the number of live level arrays.
func (t *Trie[E, V]) Levels() int { return t.levels }

func (t *Trie[E, V]) find(l *level[E, V], e E) (int, bool) {
	return slices.BinarySearchFunc(l.recs, e, func(r record[E, V], e E) int { return t.cmp(r.elem, e) })
}

// lookup returns the level and index of the record for the last element of
// key, or nil if some element is missing.
func (t *Trie[E, V]) lookup(key []E) (*level[E, V], int) {
	l := t.root
	for i, e := range key {
		if l == nil {
			return nil, 0
		}
		idx, ok := t.find(l, e)
		if !ok {
			return nil, 0
		}
		if i == len(key)-1 {
			return l, idx
		}
		l = l.recs[idx].child
	}
	return nil, 0
}

// Search returns the payload stored under key.
func (t *Trie[E, V]) Search(key []E) (V, bool) {
	var zero V
	if len(key) == 0 {
		return zero, false
	}
	l, idx := t.lookup(key)
	if l == nil || l.recs[idx].ends == 0 {
		return zero, false
	}
	return l.recs[idx].payload, true
}

// HasPrefix reports whether some stored key starts with prefix.
func (t *Trie[E, V]) HasPrefix(prefix []E) bool {
	if len(prefix) == 0 {
		return t.size > 0
	}
	l, _ := t.lookup(prefix)
	return l != nil
}

// Insert stores payload under key. Inserting an existing key again
// overwrites its payload and must be matched by an extra Remove.
func (t *Trie[E, V]) Insert(key []E, payload V) error {
	if len(key) == 0 {
		return errors.Wrap(index.ErrBadArgument, "trie: empty key")
	}
	if need := t.newLevels(key); t.limit > 0 && t.levels+need > t.limit {
		return errors.Wrapf(index.ErrAllocation, "trie: insert needs %d levels, %d live of %d", need, t.levels, t.limit)
	}

	if t.root == nil {
		t.root = &level[E, V]{}
		t.levels++
	}
	l := t.root
	for i, e := range key {
		idx, ok := t.find(l, e)
		if !ok {
			l.recs = slices.Insert(l.recs, idx, record[E, V]{elem: e})
		}
		r := &l.recs[idx]
		r.refs++
		if i == len(key)-1 {
			r.ends++
			r.payload = payload
			break
		}
		if r.child == nil {
			r.child = &level[E, V]{}
			t.levels++
		}
		l = r.child
	}
	t.size++
	return nil
}

// newLevels counts the levels an insert of key would create.
func (t *Trie[E, V]) newLevels(key []E) int {
	if t.root == nil {
		return len(key)
	}
	l := t.root
	for i, e := range key[:len(key)-1] {
		idx, ok := t.find(l, e)
		if !ok || l.recs[idx].child == nil {
			return len(key) - 1 - i
		}
		l = l.recs[idx].child
	}
	return 0
}

type frame[E, V any] struct {
	lvl *level[E, V]
	idx int
}

// Remove drops one insertion of key. A key that only exists as the prefix
// of longer keys yields index.ErrPrefixOnly.
func (t *Trie[E, V]) Remove(key []E) error {
	if len(key) == 0 {
		return errors.Wrap(index.ErrBadArgument, "trie: empty key")
	}

	path := make([]frame[E, V], 0, len(key))
	l := t.root
	for i, e := range key {
		if l == nil {
			return errors.Wrapf(index.ErrKeyNotFound, "trie: %v", key)
		}
		idx, ok := t.find(l, e)
		if !ok {
			return errors.Wrapf(index.ErrKeyNotFound, "trie: %v", key)
		}
		path = append(path, frame[E, V]{lvl: l, idx: idx})
		if i < len(key)-1 {
			l = l.recs[idx].child
		}
	}

	last := path[len(path)-1]
	if last.lvl.recs[last.idx].ends == 0 {
		return errors.Wrapf(index.ErrPrefixOnly, "trie: %v", key)
	}
	last.lvl.recs[last.idx].ends--
	t.size--

	// Only frame i's own record is removed from frame i's level, so the
	// indices recorded on the way down stay valid while unwinding.
	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		f.lvl.recs[f.idx].refs--
		if f.lvl.recs[f.idx].refs > 0 {
			continue
		}
		f.lvl.recs = slices.Delete(f.lvl.recs, f.idx, f.idx+1)
		if len(f.lvl.recs) > 0 {
			continue
		}
		t.levels--
		if i == 0 {
			t.root = nil
		} else {
			p := path[i-1]
			p.lvl.recs[p.idx].child = nil
		}
	}
	return nil
}

// Free drops every level. Free is idempotent.
func (t *Trie[E, V]) Free() {
	stack := []*level[E, V]{}
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range l.recs {
			if c := l.recs[i].child; c != nil {
				stack = append(stack, c)
			}
		}
		l.recs = nil
	}
	t.root = nil
	t.size = 0
	t.levels = 0
}
