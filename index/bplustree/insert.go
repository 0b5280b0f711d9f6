package bplustree

import (
	"slices"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
)

// Insert adds key. An equal key already present yields index.ErrDuplicate.
func (t *Tree[K]) Insert(key K) error {
	if t.root == arena.Nil {
		id, err := t.nodes.Alloc()
		if err != nil {
			return errors.Mark(errors.Wrap(err, "bplustree: insert"), index.ErrAllocation)
		}
		t.n(id).entries = []entry[K]{{key: key}}
		t.root = id
		t.size = 1
		return nil
	}

	leafID := t.findLeaf(key)
	leaf := t.n(leafID)
	pos, found := t.position(leaf, key)
	if found {
		return errors.Wrapf(index.ErrDuplicate, "bplustree: key %v", key)
	}
	if need := t.splitsNeeded(leafID); !t.nodes.Reserve(need) {
		return errors.Wrapf(index.ErrAllocation, "bplustree: insert needs %d nodes, %d live of %d",
			need, t.nodes.Live(), t.nodes.Limit())
	}

	leaf.entries = slices.Insert(leaf.entries, pos, entry[K]{key: key})
	t.size++
	t.splitUp(leafID)
	return nil
}

// splitsNeeded counts the nodes an insert into leaf id will allocate.
func (t *Tree[K]) splitsNeeded(id arena.ID) int {
	need := 0
	for id != arena.Nil {
		n := t.n(id)
		if len(n.entries)+1 <= t.maxEntries() {
			break
		}
		need++
		if n.parent == arena.Nil {
			need++ // new root
		}
		id = n.parent
	}
	return need
}

// splitUp splits overfull nodes from id towards the root.
func (t *Tree[K]) splitUp(id arena.ID) {
	for id != arena.Nil && len(t.n(id).entries) > t.maxEntries() {
		n := t.n(id)
		rightID := t.mustAlloc()
		right := t.n(rightID)

		var sep K
		if n.isLeaf() {
			mid := (t.degree + 1) / 2
			right.entries = slices.Clone(n.entries[mid:])
			n.entries = n.entries[:mid]
			right.next = n.next
			n.next = rightID
			sep = right.entries[0].key
		} else {
			mid := t.degree / 2
			up := n.entries[mid]
			right.head = up.child
			right.entries = slices.Clone(n.entries[mid+1:])
			n.entries = n.entries[:mid]
			t.n(right.head).parent = rightID
			for _, e := range right.entries {
				t.n(e.child).parent = rightID
			}
			sep = up.key
		}

		parentID := n.parent
		if parentID == arena.Nil {
			parentID = t.mustAlloc()
			t.n(parentID).head = id
			t.root = parentID
			n.parent = parentID
		}
		right.parent = parentID
		p := t.n(parentID)
		at := p.childPos(id) + 1
		p.entries = slices.Insert(p.entries, at, entry[K]{key: sep, child: rightID})
		id = parentID
	}
}
