// Package index holds the contracts shared by every ordered structure in
// this module: comparators, iterators, the error taxonomy and the Index
// interface the benchmark engines implement.
package index

import (
	"bytes"

	"golang.org/x/exp/constraints"
)

// Compare is a total order over K. It returns a negative number when a < b,
// zero when a == b and a positive number when a > b. Results must be
// consistent across calls.
type Compare[K any] func(a, b K) int

// Natural orders the built-in ordered types.
func Natural[K constraints.Ordered]() Compare[K] {
	return func(a, b K) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// Bytes orders byte slices lexicographically.
func Bytes() Compare[[]byte] {
	return bytes.Compare
}

// CloneBytes copies b so a caller may reuse its buffer after an insert.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}

// Entry is the int64-keyed record the benchmark engines store.
type Entry struct {
	Key   int64
	Value []byte
}

// CompareEntries orders entries by key only.
func CompareEntries(a, b Entry) int {
	switch {
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	default:
		return 0
	}
}

// Index is the common interface the benchmark harness drives.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	Range(start, end int64) (Iterator[Entry], error)
	Close() error
}
