package bst

import (
	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/walk"
	"github.com/cockroachdb/errors"
)

// Tree is the surface every balancing strategy offers.
type Tree[K any] interface {
	Insert(key K) error
	Remove(key K) bool
	Find(key K) (K, bool)
	Contains(key K) bool
	FindFunc(order walk.Order, pred func(K) bool) (K, bool)
	Min() (K, bool)
	Max() (K, bool)
	Len() int
	Height() int
	Walk(order walk.Order, fn func(K) bool)
	Ascend(fn func(K) bool)
	AscendRange(lo, hi K, fn func(K) bool)
	Check() error
	Print() string
	Free()
}

var (
	_ Tree[int] = (*AATree[int])(nil)
	_ Tree[int] = (*AVLTree[int])(nil)
	_ Tree[int] = (*RBTree[int])(nil)
)

// Kind names a balancing strategy.
type Kind string

const (
	KindAA  Kind = "aa"
	KindAVL Kind = "avl"
	KindRB  Kind = "rb"
)

// Kinds lists every strategy.
var Kinds = []Kind{KindAA, KindAVL, KindRB}

// New builds an empty tree of the given kind.
func New[K any](kind Kind, cmp index.Compare[K], opts ...Option) (Tree[K], error) {
	if cmp == nil {
		return nil, errors.Wrap(index.ErrBadArgument, "bst: nil comparator")
	}
	switch kind {
	case KindAA:
		return NewAA(cmp, opts...)
	case KindAVL:
		return NewAVL(cmp, opts...)
	case KindRB:
		return NewRB(cmp, opts...)
	}
	return nil, errors.Wrapf(index.ErrBadArgument, "bst: unknown tree kind %q", kind)
}
