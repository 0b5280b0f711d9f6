// Package arena is a slab of heap nodes addressed by stable integer IDs.
//
// Slot 0 is reserved as the nil sentinel: it always holds a valid *T that
// structures may use as a sentinel node (red-black trees color it Black and
// temporarily store a parent in it during deletion). Freed slots are
// recycled before the slab grows.
package arena

import "github.com/cockroachdb/errors"

// ID addresses a node in an Arena. Nil is never handed out by Alloc.
type ID uint32

const Nil ID = 0

// ErrExhausted is returned by Alloc once the live-node limit is reached.
var ErrExhausted = errors.New("arena: node limit reached")

type Arena[T any] struct {
	slots []*T
	free  []ID
	live  int
	limit int // 0 means unlimited
}

// New creates an arena. limit caps the number of live nodes; zero or a
// negative value disables the cap.
func New[T any](limit int) *Arena[T] {
	if limit < 0 {
		limit = 0
	}
	return &Arena[T]{
		slots: []*T{new(T)},
		limit: limit,
	}
}

// Alloc reserves a zeroed node and returns its ID.
func (a *Arena[T]) Alloc() (ID, error) {
	if !a.Reserve(1) {
		return Nil, errors.Wrapf(ErrExhausted, "live=%d limit=%d", a.live, a.limit)
	}
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[id] = new(T)
		return id, nil
	}
	a.slots = append(a.slots, new(T))
	return ID(len(a.slots) - 1), nil
}

// Free releases id. Freeing Nil or an already free slot is a no-op.
func (a *Arena[T]) Free(id ID) {
	if id == Nil || int(id) >= len(a.slots) || a.slots[id] == nil {
		return
	}
	a.slots[id] = nil
	a.free = append(a.free, id)
	a.live--
}

// At returns the node stored at id. The pointer stays valid until id is
// freed; it is not invalidated by later allocations.
func (a *Arena[T]) At(id ID) *T {
	return a.slots[id]
}

// Valid reports whether id addresses a live node.
func (a *Arena[T]) Valid(id ID) bool {
	return id != Nil && int(id) < len(a.slots) && a.slots[id] != nil
}

// Reserve reports whether n more nodes can be allocated.
func (a *Arena[T]) Reserve(n int) bool {
	return a.limit == 0 || a.live+n <= a.limit
}

func (a *Arena[T]) Live() int  { return a.live }
func (a *Arena[T]) Limit() int { return a.limit }

// Reset drops every node and restores a zeroed sentinel.
func (a *Arena[T]) Reset() {
	a.slots = []*T{new(T)}
	a.free = nil
	a.live = 0
}
