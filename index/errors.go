package index

import "github.com/cockroachdb/errors"

var (
	// ErrAllocation reports that a node or level could not be allocated.
	// The structure is left as it was before the call.
	ErrAllocation = errors.New("allocation failed")

	// ErrBadArgument rejects invalid parameters before any mutation.
	ErrBadArgument = errors.New("bad argument")

	// ErrKeyNotFound is a lookup or removal miss.
	ErrKeyNotFound = errors.New("key not found")

	// ErrPrefixOnly rejects removing a trie key that was only ever stored as
	// a prefix of a longer key.
	ErrPrefixOnly = errors.New("key is only a prefix of a stored key")

	// ErrDuplicate rejects inserting a key into a set-semantics index that
	// already holds an equal key.
	ErrDuplicate = errors.New("duplicate key")

	// ErrNotEmpty rejects a bulk load into an index that already has keys.
	ErrNotEmpty = errors.New("index not empty")
)
