package trie

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/xlab/treeprint"
)

// Walk calls fn for every stored key in ascending order until fn returns
// false. fn receives its own copy of the key.
func (t *Trie[E, V]) Walk(fn func(key []E, payload V) bool) {
	t.walk(t.root, nil, fn)
}

// WalkPrefix is Walk restricted to keys starting with prefix.
func (t *Trie[E, V]) WalkPrefix(prefix []E, fn func(key []E, payload V) bool) {
	if len(prefix) == 0 {
		t.Walk(fn)
		return
	}
	l, idx := t.lookup(prefix)
	if l == nil {
		return
	}
	r := &l.recs[idx]
	if r.ends > 0 && !fn(slices.Clone(prefix), r.payload) {
		return
	}
	t.walk(r.child, slices.Clone(prefix), fn)
}

func (t *Trie[E, V]) walk(l *level[E, V], prefix []E, fn func([]E, V) bool) bool {
	if l == nil {
		return true
	}
	for i := range l.recs {
		r := &l.recs[i]
		key := append(prefix, r.elem)
		if r.ends > 0 && !fn(slices.Clone(key), r.payload) {
			return false
		}
		if !t.walk(r.child, key, fn) {
			return false
		}
	}
	return true
}

// Check verifies that every level is non-empty and strictly sorted and that
// each record's refs equals its ends plus the refs of its child level.
func (t *Trie[E, V]) Check() error {
	levels := 0
	ends, err := t.checkLevel(t.root, &levels)
	if err != nil {
		return err
	}
	if levels != t.levels {
		return errors.Newf("trie: %d reachable levels, %d counted", levels, t.levels)
	}
	if ends != t.size {
		return errors.Newf("trie: %d terminal insertions, size %d", ends, t.size)
	}
	return nil
}

// checkLevel returns the total ends below l.
func (t *Trie[E, V]) checkLevel(l *level[E, V], levels *int) (int, error) {
	if l == nil {
		return 0, nil
	}
	*levels++
	if len(l.recs) == 0 {
		return 0, errors.New("trie: empty level still linked")
	}
	total := 0
	for i := range l.recs {
		r := &l.recs[i]
		if i > 0 && t.cmp(l.recs[i-1].elem, r.elem) >= 0 {
			return 0, errors.Newf("trie: level out of order at %v", r.elem)
		}
		below, err := t.checkLevel(r.child, levels)
		if err != nil {
			return 0, err
		}
		if r.refs <= 0 || r.ends < 0 {
			return 0, errors.Newf("trie: record %v has refs %d, ends %d", r.elem, r.refs, r.ends)
		}
		if sum := r.ends + t.childRefs(r.child); r.refs != sum {
			return 0, errors.Newf("trie: record %v has refs %d, want %d", r.elem, r.refs, sum)
		}
		total += r.ends + below
	}
	return total, nil
}

func (t *Trie[E, V]) childRefs(l *level[E, V]) int {
	if l == nil {
		return 0
	}
	sum := 0
	for i := range l.recs {
		sum += l.recs[i].refs
	}
	return sum
}

// Print renders the trie. Each branch is tagged with its refs; terminal
// records show their payload.
func (t *Trie[E, V]) Print() string {
	if t.root == nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	tp := treeprint.NewWithRoot(fmt.Sprintf("(trie) keys=%d levels=%d", t.size, t.levels))
	t.print(tp, t.root)
	return tp.String()
}

func (t *Trie[E, V]) print(b treeprint.Tree, l *level[E, V]) {
	for i := range l.recs {
		r := &l.recs[i]
		label := elemString(r.elem)
		if r.ends > 0 {
			label += fmt.Sprintf(" => %v", r.payload)
		}
		child := b.AddMetaBranch(r.refs, label)
		if r.child != nil {
			t.print(child, r.child)
		}
	}
}

func elemString[E any](e E) string {
	if b, ok := any(e).(byte); ok {
		return string(rune(b))
	}
	return fmt.Sprint(e)
}
