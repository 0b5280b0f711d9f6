package main

import (
	"encoding/binary"
	"slices"
	"strings"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/index/bplustree"
	"github.com/btree-query-bench/ordidx/index/bst"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

type engineConfig struct {
	degree int
}

type engineFactory func(cfg engineConfig) (index.Index, error)

// engineNames is the default benchmark order.
var engineNames = []string{"aa", "avl", "rb", "bplus", "list", "pebble"}

var engines = map[string]engineFactory{
	"aa":  treeEngine(bst.KindAA),
	"avl": treeEngine(bst.KindAVL),
	"rb":  treeEngine(bst.KindRB),
	"bplus": func(cfg engineConfig) (index.Index, error) {
		return newBPlusIndex(cfg.degree)
	},
	"list": func(engineConfig) (index.Index, error) {
		return newListIndex(), nil
	},
	"pebble": func(engineConfig) (index.Index, error) {
		return openPebbleIndex(vfs.NewMem())
	},
}

func openEngine(name string, cfg engineConfig) (index.Index, error) {
	f, ok := engines[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(index.ErrBadArgument, "unknown engine %q (have %s)", name, strings.Join(engineNames, ", "))
	}
	return f(cfg)
}

// bulkLoader is implemented by engines that can be built from sorted input
// in one pass.
type bulkLoader interface {
	BulkLoad(sorted []index.Entry) error
}

func notFound(key int64) error {
	return errors.Wrapf(index.ErrKeyNotFound, "key %d", key)
}

// ─── Binary search trees ──────────────────────────────────────────────────────

var _ index.Index = (*treeIndex)(nil)

type treeIndex struct {
	tree bst.Tree[index.Entry]
}

func treeEngine(kind bst.Kind) engineFactory {
	return func(engineConfig) (index.Index, error) {
		t, err := bst.New[index.Entry](kind, index.CompareEntries)
		if err != nil {
			return nil, err
		}
		return &treeIndex{tree: t}, nil
	}
}

// Insert replaces any existing value for key.
func (t *treeIndex) Insert(key int64, value []byte) error {
	t.tree.Remove(index.Entry{Key: key})
	return t.tree.Insert(index.Entry{Key: key, Value: index.CloneBytes(value)})
}

func (t *treeIndex) Get(key int64) ([]byte, error) {
	e, ok := t.tree.Find(index.Entry{Key: key})
	if !ok {
		return nil, notFound(key)
	}
	return e.Value, nil
}

func (t *treeIndex) Delete(key int64) error {
	if !t.tree.Remove(index.Entry{Key: key}) {
		return notFound(key)
	}
	return nil
}

func (t *treeIndex) Range(start, end int64) (index.Iterator[index.Entry], error) {
	var out []index.Entry
	t.tree.AscendRange(index.Entry{Key: start}, index.Entry{Key: end}, func(e index.Entry) bool {
		out = append(out, e)
		return true
	})
	return index.NewSliceIterator(out), nil
}

func (t *treeIndex) Close() error {
	t.tree.Free()
	return nil
}

// ─── B+ tree ──────────────────────────────────────────────────────────────────

var (
	_ index.Index = (*bplusIndex)(nil)
	_ bulkLoader  = (*bplusIndex)(nil)
)

type bplusIndex struct {
	tree *bplustree.Tree[index.Entry]
}

func newBPlusIndex(degree int) (*bplusIndex, error) {
	t, err := bplustree.New[index.Entry](degree, index.CompareEntries)
	if err != nil {
		return nil, err
	}
	return &bplusIndex{tree: t}, nil
}

func (b *bplusIndex) Insert(key int64, value []byte) error {
	e := index.Entry{Key: key, Value: index.CloneBytes(value)}
	err := b.tree.Insert(e)
	if errors.Is(err, index.ErrDuplicate) {
		if err := b.tree.Remove(e); err != nil {
			return err
		}
		return b.tree.Insert(e)
	}
	return err
}

func (b *bplusIndex) Get(key int64) ([]byte, error) {
	e, ok := b.tree.Get(index.Entry{Key: key})
	if !ok {
		return nil, notFound(key)
	}
	return e.Value, nil
}

func (b *bplusIndex) Delete(key int64) error {
	return b.tree.Remove(index.Entry{Key: key})
}

func (b *bplusIndex) Range(start, end int64) (index.Iterator[index.Entry], error) {
	return b.tree.Range(index.Entry{Key: start}, index.Entry{Key: end}), nil
}

func (b *bplusIndex) BulkLoad(sorted []index.Entry) error {
	return b.tree.BulkLoad(sorted)
}

func (b *bplusIndex) Close() error {
	b.tree.Free()
	return nil
}

// ─── Sorted list baseline ─────────────────────────────────────────────────────

var (
	_ index.Index = (*listIndex)(nil)
	_ bulkLoader  = (*listIndex)(nil)
)

// listIndex keeps entries in one sorted slice. Lookups binary search,
// inserts and deletes shift.
type listIndex struct {
	data []index.Entry
}

func newListIndex() *listIndex {
	return &listIndex{data: make([]index.Entry, 0)}
}

func (l *listIndex) find(key int64) (int, bool) {
	return slices.BinarySearchFunc(l.data, index.Entry{Key: key}, index.CompareEntries)
}

func (l *listIndex) Insert(key int64, value []byte) error {
	i, ok := l.find(key)
	if ok {
		l.data[i].Value = index.CloneBytes(value)
		return nil
	}
	l.data = slices.Insert(l.data, i, index.Entry{Key: key, Value: index.CloneBytes(value)})
	return nil
}

func (l *listIndex) Get(key int64) ([]byte, error) {
	i, ok := l.find(key)
	if !ok {
		return nil, notFound(key)
	}
	return l.data[i].Value, nil
}

func (l *listIndex) Delete(key int64) error {
	i, ok := l.find(key)
	if !ok {
		return notFound(key)
	}
	l.data = slices.Delete(l.data, i, i+1)
	return nil
}

func (l *listIndex) Range(start, end int64) (index.Iterator[index.Entry], error) {
	lo, _ := l.find(start)
	hi, found := l.find(end)
	if found {
		hi++
	}
	if hi < lo {
		hi = lo
	}
	return index.NewSliceIterator(slices.Clone(l.data[lo:hi])), nil
}

func (l *listIndex) BulkLoad(sorted []index.Entry) error {
	if len(l.data) > 0 {
		return errors.Wrapf(index.ErrNotEmpty, "list holds %d entries", len(l.data))
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Key >= sorted[i].Key {
			return errors.Wrapf(index.ErrBadArgument, "bulk load input not strictly ascending at %d", i)
		}
	}
	l.data = slices.Clone(sorted)
	return nil
}

func (l *listIndex) Close() error {
	l.data = nil
	return nil
}

// ─── Pebble ───────────────────────────────────────────────────────────────────

var _ index.Index = (*pebbleIndex)(nil)

// pebbleIndex wraps Pebble behind Index as an LSM reference point.
type pebbleIndex struct {
	db *pebble.DB
}

func openPebbleIndex(fs vfs.FS) (*pebbleIndex, error) {
	opts := &pebble.Options{
		FS:                          fs,
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	db, err := pebble.Open("ordidx", opts)
	if err != nil {
		return nil, errors.Wrap(err, "pebble: open")
	}
	return &pebbleIndex{db: db}, nil
}

func (p *pebbleIndex) Insert(key int64, value []byte) error {
	return p.db.Set(encodeKey(key), value, pebble.NoSync)
}

func (p *pebbleIndex) Get(key int64) ([]byte, error) {
	val, closer, err := p.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "pebble: get")
	}
	// val is only valid until closer.Close().
	result := index.CloneBytes(val)
	if err := closer.Close(); err != nil {
		return nil, errors.Wrap(err, "pebble: get")
	}
	return result, nil
}

// Delete removes key. Pebble deletes are blind, so a miss is checked first.
func (p *pebbleIndex) Delete(key int64) error {
	if _, err := p.Get(key); err != nil {
		return err
	}
	return errors.Wrap(p.db.Delete(encodeKey(key), pebble.NoSync), "pebble: delete")
}

func (p *pebbleIndex) Range(start, end int64) (index.Iterator[index.Entry], error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: encodeKey(start),
		UpperBound: encodeKey(end + 1),
	})
	if err != nil {
		return nil, errors.Wrap(err, "pebble: range")
	}
	iter.First()
	return &pebbleIterator{iter: iter, first: true}, nil
}

func (p *pebbleIndex) Close() error {
	return p.db.Close()
}

// encodeKey flips the sign bit so big-endian byte order matches int64 order.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

type pebbleIterator struct {
	iter  *pebble.Iterator
	first bool
	cur   index.Entry
	err   error
}

func (it *pebbleIterator) Next() bool {
	var valid bool
	if it.first {
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = errors.Newf("pebble: unexpected key length %d", len(k))
		return false
	}
	// Pebble reuses the value buffer on Next().
	it.cur = index.Entry{Key: decodeKey(k), Value: index.CloneBytes(it.iter.Value())}
	return true
}

func (it *pebbleIterator) Key() index.Entry { return it.cur }
func (it *pebbleIterator) Error() error     { return errors.CombineErrors(it.err, it.iter.Error()) }
func (it *pebbleIterator) Close() error     { return it.iter.Close() }
