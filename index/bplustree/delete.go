package bplustree

import (
	"slices"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
)

// Remove deletes key, borrowing from or merging with siblings on underflow.
// Remove never allocates.
func (t *Tree[K]) Remove(key K) error {
	leafID := t.findLeaf(key)
	if leafID == arena.Nil {
		return errors.Wrapf(index.ErrKeyNotFound, "bplustree: key %v", key)
	}
	leaf := t.n(leafID)
	pos, found := t.position(leaf, key)
	if !found {
		return errors.Wrapf(index.ErrKeyNotFound, "bplustree: key %v", key)
	}
	leaf.entries = slices.Delete(leaf.entries, pos, pos+1)
	t.size--
	t.rebalance(leafID)
	return nil
}

func (t *Tree[K]) rebalance(id arena.ID) {
	for {
		n := t.n(id)
		if n.parent == arena.Nil {
			t.shrinkRoot(id)
			return
		}
		if len(n.entries) >= t.minEntries() {
			return
		}

		parentID := n.parent
		p := t.n(parentID)
		pos := p.childPos(id)

		if pos >= 0 {
			if leftID := p.childAt(pos - 1); len(t.n(leftID).entries) > t.minEntries() {
				t.borrowLeft(id, leftID, p, pos)
				return
			}
		}
		if pos+1 < len(p.entries) {
			if rightID := p.entries[pos+1].child; len(t.n(rightID).entries) > t.minEntries() {
				t.borrowRight(id, rightID, p, pos+1)
				return
			}
		}

		if pos >= 0 {
			t.merge(p.childAt(pos-1), id, p, pos)
		} else {
			t.merge(id, p.entries[0].child, p, 0)
		}
		id = parentID
	}
}

func (t *Tree[K]) shrinkRoot(id arena.ID) {
	n := t.n(id)
	if len(n.entries) > 0 {
		return
	}
	if n.isLeaf() {
		t.root = arena.Nil
	} else {
		t.root = n.head
		t.n(n.head).parent = arena.Nil
	}
	t.nodes.Free(id)
}

// borrowLeft moves the last entry of left into id. sep indexes the parent
// entry whose child is id.
func (t *Tree[K]) borrowLeft(id, leftID arena.ID, p *node[K], sep int) {
	n, l := t.n(id), t.n(leftID)
	last := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]

	if n.isLeaf() {
		n.entries = slices.Insert(n.entries, 0, last)
		p.entries[sep].key = last.key
		return
	}
	n.entries = slices.Insert(n.entries, 0, entry[K]{key: p.entries[sep].key, child: n.head})
	n.head = last.child
	t.n(last.child).parent = id
	p.entries[sep].key = last.key
}

// borrowRight moves the first entry of right into id. sep indexes the parent
// entry whose child is right.
func (t *Tree[K]) borrowRight(id, rightID arena.ID, p *node[K], sep int) {
	n, r := t.n(id), t.n(rightID)

	if n.isLeaf() {
		n.entries = append(n.entries, r.entries[0])
		r.entries = slices.Delete(r.entries, 0, 1)
		p.entries[sep].key = r.entries[0].key
		return
	}
	n.entries = append(n.entries, entry[K]{key: p.entries[sep].key, child: r.head})
	t.n(r.head).parent = id
	p.entries[sep].key = r.entries[0].key
	r.head = r.entries[0].child
	r.entries = slices.Delete(r.entries, 0, 1)
}

// merge folds right into left and drops the separator p.entries[sep].
func (t *Tree[K]) merge(leftID, rightID arena.ID, p *node[K], sep int) {
	l, r := t.n(leftID), t.n(rightID)

	if l.isLeaf() {
		l.entries = append(l.entries, r.entries...)
		l.next = r.next
	} else {
		l.entries = append(l.entries, entry[K]{key: p.entries[sep].key, child: r.head})
		l.entries = append(l.entries, r.entries...)
		t.n(r.head).parent = leftID
		for _, e := range r.entries {
			t.n(e.child).parent = leftID
		}
	}
	p.entries = slices.Delete(p.entries, sep, sep+1)
	t.nodes.Free(rightID)
}
