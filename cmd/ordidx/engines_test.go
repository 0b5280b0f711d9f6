package main

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T, fn func(t *testing.T, idx index.Index)) {
	for _, name := range engineNames {
		t.Run(name, func(t *testing.T) {
			idx, err := openEngine(name, engineConfig{degree: 4})
			require.NoError(t, err)
			defer func() { assert.NoError(t, idx.Close()) }()
			fn(t, idx)
		})
	}
}

func rangeKeys(t *testing.T, idx index.Index, start, end int64) []int64 {
	t.Helper()
	it, err := idx.Range(start, end)
	require.NoError(t, err)
	entries, err := index.Collect(it)
	require.NoError(t, err)
	var out []int64
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func TestUnknownEngine(t *testing.T) {
	_, err := openEngine("skiplist", engineConfig{})
	assert.True(t, errors.Is(err, index.ErrBadArgument))
}

func TestEngineBasics(t *testing.T) {
	openAll(t, func(t *testing.T, idx index.Index) {
		for _, k := range []int64{5, -3, 12, 0, 7} {
			require.NoError(t, idx.Insert(k, []byte(fmt.Sprintf("v%d", k))))
		}
		v, err := idx.Get(12)
		require.NoError(t, err)
		assert.Equal(t, []byte("v12"), v)

		require.NoError(t, idx.Insert(12, []byte("new")))
		v, err = idx.Get(12)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)

		_, err = idx.Get(99)
		assert.True(t, errors.Is(err, index.ErrKeyNotFound))

		require.NoError(t, idx.Delete(0))
		assert.True(t, errors.Is(idx.Delete(0), index.ErrKeyNotFound))

		assert.Equal(t, []int64{-3, 5, 7}, rangeKeys(t, idx, -10, 7))
		assert.Equal(t, []int64{5, 7, 12}, rangeKeys(t, idx, 1, 100))
		assert.Empty(t, rangeKeys(t, idx, 13, 20))
	})
}

func TestEnginesAgree(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	type op struct {
		insert bool
		key    int64
	}
	ops := make([]op, 2000)
	for i := range ops {
		ops[i] = op{insert: r.IntN(3) > 0, key: int64(r.IntN(300))}
	}

	var want []int64
	for i, name := range engineNames {
		idx, err := openEngine(name, engineConfig{degree: 5})
		require.NoError(t, err)
		for _, o := range ops {
			if o.insert {
				require.NoError(t, idx.Insert(o.key, []byte("x")))
			} else if err := idx.Delete(o.key); err != nil {
				require.True(t, isMiss(err), name)
			}
		}
		got := rangeKeys(t, idx, 0, 300)
		if i == 0 {
			want = got
		} else {
			assert.Equal(t, want, got, name)
		}
		require.NoError(t, idx.Close())
	}
}

func TestBulkLoadEngines(t *testing.T) {
	for _, name := range []string{"bplus", "list"} {
		idx, err := openEngine(name, engineConfig{degree: 8})
		require.NoError(t, err)
		bl, ok := idx.(bulkLoader)
		require.True(t, ok, name)

		require.NoError(t, bl.BulkLoad(sortedEntries(500)))
		assert.Equal(t, []int64{100, 101, 102}, rangeKeys(t, idx, 100, 102))
		v, err := idx.Get(499)
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)

		assert.True(t, errors.Is(bl.BulkLoad(sortedEntries(2)), index.ErrNotEmpty), name)
		require.NoError(t, idx.Close())
	}
}

func TestPebbleKeyEncodingOrder(t *testing.T) {
	keys := []int64{-1 << 62, -5, -1, 0, 1, 7, 1 << 62}
	for i := 1; i < len(keys); i++ {
		assert.Less(t, string(encodeKey(keys[i-1])), string(encodeKey(keys[i])))
	}
	for _, k := range keys {
		assert.Equal(t, k, decodeKey(encodeKey(k)))
	}
}
