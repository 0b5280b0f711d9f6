package index

// Iterator walks an ordered sequence of K.
type Iterator[K any] interface {
	Next() bool
	Key() K
	Error() error
	Close() error
}

// SliceIterator iterates over a materialized slice.
type SliceIterator[K any] struct {
	items []K
	idx   int
}

// NewSliceIterator returns an iterator positioned before items[0].
func NewSliceIterator[K any](items []K) *SliceIterator[K] {
	return &SliceIterator[K]{items: items, idx: -1}
}

func (it *SliceIterator[K]) Next() bool   { it.idx++; return it.idx < len(it.items) }
func (it *SliceIterator[K]) Key() K       { return it.items[it.idx] }
func (it *SliceIterator[K]) Error() error { return nil }
func (it *SliceIterator[K]) Close() error { return nil }

// Collect drains it into a slice and closes it.
func Collect[K any](it Iterator[K]) ([]K, error) {
	defer it.Close()
	var out []K
	for it.Next() {
		out = append(out, it.Key())
	}
	return out, it.Error()
}
