package bplustree

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/internal/arena"
	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, degree int, opts ...Option) *Tree[int] {
	t.Helper()
	tr, err := New(degree, index.Natural[int](), opts...)
	require.NoError(t, err)
	return tr
}

func rootKeys(tr *Tree[int]) []int {
	n := tr.n(tr.root)
	out := make([]int, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.key
	}
	return out
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestNewRejectsBadArguments(t *testing.T) {
	for _, d := range []int{-1, 0, 1, 2} {
		_, err := New(d, index.Natural[int]())
		assert.True(t, errors.Is(err, index.ErrBadArgument), "degree %d", d)
	}
	_, err := New[int](4, nil)
	assert.True(t, errors.Is(err, index.ErrBadArgument))
}

func TestEmptyTree(t *testing.T) {
	tr := newTree(t, 4)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Height())
	assert.False(t, tr.Contains(1))
	_, ok := tr.Search(1)
	assert.False(t, ok)
	assert.True(t, errors.Is(tr.Remove(1), index.ErrKeyNotFound))
	assert.False(t, tr.Iter().Next())
	assert.False(t, tr.Range(0, 10).Next())
	assert.NoError(t, tr.Check())
	assert.Contains(t, tr.Print(), "(empty)")
}

func TestLeafSplitPromotesRightFirstKey(t *testing.T) {
	tr := newTree(t, 3)
	for _, k := range []int{1, 2, 3} {
		require.NoError(t, tr.Insert(k))
	}
	assert.Equal(t, 2, tr.Height())
	assert.Equal(t, []int{3}, rootKeys(tr))

	leaf, ok := tr.Search(1)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, leaf.Keys())
	right, ok := leaf.Next()
	require.True(t, ok)
	assert.Equal(t, []int{3}, right.Keys())

	require.NoError(t, tr.Insert(4))
	leaf, ok = tr.Search(3)
	require.True(t, ok)
	assert.Equal(t, []int{3, 4}, leaf.Keys())
	_, ok = leaf.Next()
	assert.False(t, ok)
	assert.NoError(t, tr.Check())
}

func TestInternalSplit(t *testing.T) {
	tr := newTree(t, 3)
	for _, k := range seq(1, 20) {
		require.NoError(t, tr.Insert(k))
		require.NoError(t, tr.Check(), "after %d", k)
	}
	assert.Greater(t, tr.Height(), 2)
	assert.Equal(t, seq(1, 20), tr.Keys())
}

func TestDuplicateInsert(t *testing.T) {
	tr := newTree(t, 4)
	require.NoError(t, tr.Insert(7))
	err := tr.Insert(7)
	assert.True(t, errors.Is(err, index.ErrDuplicate))
	assert.Equal(t, 1, tr.Len())
	assert.NoError(t, tr.Check())
}

func TestRandomAgainstOracle(t *testing.T) {
	for degree := 3; degree <= 8; degree++ {
		t.Run(fmt.Sprintf("degree=%d", degree), func(t *testing.T) {
			r := rand.New(rand.NewPCG(uint64(degree), 99))
			tr := newTree(t, degree)
			oracle := btree.NewG[int](8, func(a, b int) bool { return a < b })

			for i := 0; i < 3000; i++ {
				k := r.IntN(500)
				if r.IntN(3) == 0 {
					_, had := oracle.Delete(k)
					err := tr.Remove(k)
					if had {
						require.NoError(t, err)
					} else {
						require.True(t, errors.Is(err, index.ErrKeyNotFound))
					}
				} else {
					_, had := oracle.ReplaceOrInsert(k)
					err := tr.Insert(k)
					if had {
						require.True(t, errors.Is(err, index.ErrDuplicate))
					} else {
						require.NoError(t, err)
					}
				}
				if i%97 == 0 {
					require.NoError(t, tr.Check(), "step %d", i)
				}
			}
			require.NoError(t, tr.Check())
			require.Equal(t, oracle.Len(), tr.Len())

			var want []int
			oracle.Ascend(func(k int) bool { want = append(want, k); return true })
			assert.Equal(t, want, tr.Keys())
		})
	}
}

func TestRemoveAll(t *testing.T) {
	for degree := 3; degree <= 6; degree++ {
		tr := newTree(t, degree)
		keys := seq(1, 200)
		for _, k := range keys {
			require.NoError(t, tr.Insert(k))
		}
		r := rand.New(rand.NewPCG(7, uint64(degree)))
		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, k := range keys {
			require.NoError(t, tr.Remove(k))
			require.NoError(t, tr.Check(), "degree %d removing %d", degree, k)
		}
		assert.Equal(t, 0, tr.Len())
		assert.Equal(t, 0, tr.Nodes())
		assert.Equal(t, arena.Nil, tr.root)
	}
}

func TestBorrowAndMerge(t *testing.T) {
	tr := newTree(t, 3)
	for _, k := range []int{1, 2, 3, 4} {
		require.NoError(t, tr.Insert(k))
	}
	// [1 2] | [3 4]: removing 3 leaves [4], still at the minimum, and the
	// separator stays valid.
	require.NoError(t, tr.Remove(3))
	require.NoError(t, tr.Check())
	assert.Equal(t, []int{3}, rootKeys(tr))

	// [1 2] | [] borrows 2 from the left.
	require.NoError(t, tr.Remove(4))
	require.NoError(t, tr.Check())
	assert.Equal(t, []int{2}, rootKeys(tr))

	// [1] | [] merges and the root collapses to a single leaf.
	require.NoError(t, tr.Remove(2))
	require.NoError(t, tr.Check())
	assert.Equal(t, 1, tr.Height())
	assert.Equal(t, []int{1}, tr.Keys())
}

func TestBulkLoadChain(t *testing.T) {
	tr := newTree(t, 3)
	require.NoError(t, tr.BulkLoad([]int{10, 20, 30, 40, 50}))
	require.NoError(t, tr.Check())

	var got []int
	c := tr.Iter()
	for c.Next() {
		got = append(got, c.Key())
	}
	require.NoError(t, c.Error())
	assert.Equal(t, []int{10, 20, 30, 40, 50}, got)
	assert.Equal(t, 5, tr.Len())
}

func TestBulkLoadMatchesInsert(t *testing.T) {
	for degree := 3; degree <= 8; degree++ {
		for _, n := range []int{0, 1, 2, 7, 31, 100, 257} {
			keys := seq(1, n)
			bulk := newTree(t, degree)
			require.NoError(t, bulk.BulkLoad(keys))
			require.NoError(t, bulk.Check(), "degree %d n %d", degree, n)

			one := newTree(t, degree)
			for _, k := range keys {
				require.NoError(t, one.Insert(k))
			}
			assert.Equal(t, one.Keys(), bulk.Keys(), "degree %d n %d", degree, n)
			assert.Equal(t, n, bulk.Len())
		}
	}
}

func TestBulkLoadThenMutate(t *testing.T) {
	tr := newTree(t, 4)
	require.NoError(t, tr.BulkLoad(seq(0, 99)))
	for k := 0; k < 100; k += 2 {
		require.NoError(t, tr.Remove(k))
	}
	require.NoError(t, tr.Insert(1000))
	require.NoError(t, tr.Check())
	assert.Equal(t, 51, tr.Len())
}

func TestBulkLoadErrors(t *testing.T) {
	tr := newTree(t, 4)
	assert.True(t, errors.Is(tr.BulkLoad([]int{3, 1, 2}), index.ErrBadArgument))
	assert.True(t, errors.Is(tr.BulkLoad([]int{1, 2, 2}), index.ErrBadArgument))
	assert.Equal(t, 0, tr.Len())

	require.NoError(t, tr.BulkLoad(nil))
	require.NoError(t, tr.Insert(1))
	assert.True(t, errors.Is(tr.BulkLoad([]int{5, 6}), index.ErrNotEmpty))
	assert.Equal(t, []int{1}, tr.Keys())
}

func TestRange(t *testing.T) {
	tr := newTree(t, 4)
	require.NoError(t, tr.BulkLoad([]int{0, 5, 10, 15, 20, 25, 30, 35, 40}))

	collect := func(lo, hi int) []int {
		got, err := index.Collect[int](tr.Range(lo, hi))
		require.NoError(t, err)
		return got
	}
	assert.Equal(t, []int{10, 15, 20}, collect(10, 20))
	assert.Equal(t, []int{10, 15, 20}, collect(7, 22))
	assert.Equal(t, []int{0, 5}, collect(-100, 5))
	assert.Equal(t, []int{35, 40}, collect(33, 1000))
	assert.Empty(t, collect(41, 50))
	assert.Empty(t, collect(20, 10))
}

func TestCursorRewind(t *testing.T) {
	tr := newTree(t, 3)
	require.NoError(t, tr.BulkLoad(seq(1, 10)))

	c := tr.Range(3, 6)
	first, err := index.Collect[int](c)
	require.NoError(t, err)
	c.Rewind()
	second, err := index.Collect[int](c)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6}, first)
	assert.Equal(t, first, second)
}

func TestNodeLimit(t *testing.T) {
	tr := newTree(t, 3, WithNodeLimit(1))
	require.NoError(t, tr.Insert(1))
	require.NoError(t, tr.Insert(2))

	err := tr.Insert(3)
	assert.True(t, errors.Is(err, index.ErrAllocation))
	assert.Equal(t, []int{1, 2}, tr.Keys())
	assert.Equal(t, 1, tr.Nodes())
	assert.NoError(t, tr.Check())

	bulk := newTree(t, 3, WithNodeLimit(2))
	assert.True(t, errors.Is(bulk.BulkLoad(seq(1, 5)), index.ErrAllocation))
	assert.Equal(t, 0, bulk.Len())
}

func TestFreeIsIdempotent(t *testing.T) {
	tr := newTree(t, 5)
	require.NoError(t, tr.BulkLoad(seq(1, 300)))
	tr.Free()
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Nodes())
	assert.NoError(t, tr.Check())
	tr.Free()
	assert.Equal(t, 0, tr.Nodes())

	require.NoError(t, tr.Insert(9))
	assert.Equal(t, []int{9}, tr.Keys())
}

func TestPrint(t *testing.T) {
	tr := newTree(t, 3)
	for _, k := range []int{1, 2, 3} {
		require.NoError(t, tr.Insert(k))
	}
	out := tr.Print()
	assert.Contains(t, out, "[3]")
	assert.Contains(t, out, "leaf [1 2]")
	assert.Contains(t, out, "leaf [3]")
}

func TestStringKeys(t *testing.T) {
	tr, err := New(4, index.Natural[string]())
	require.NoError(t, err)
	for _, w := range []string{"pear", "apple", "fig", "kiwi", "banana"} {
		require.NoError(t, tr.Insert(w))
	}
	assert.Equal(t, []string{"apple", "banana", "fig", "kiwi", "pear"}, tr.Keys())
	got, ok := tr.Get("fig")
	assert.True(t, ok)
	assert.Equal(t, "fig", got)
}
