package trie

import (
	"math/rand/v2"
	"testing"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrie(t *testing.T, opts ...Option) *Trie[byte, int] {
	t.Helper()
	tr, err := New[byte, int](index.Natural[byte](), opts...)
	require.NoError(t, err)
	return tr
}

func words(tr *Trie[byte, int]) []string {
	var out []string
	tr.Walk(func(k []byte, _ int) bool {
		out = append(out, string(k))
		return true
	})
	return out
}

func TestNilComparator(t *testing.T) {
	_, err := New[byte, int](nil)
	assert.True(t, errors.Is(err, index.ErrBadArgument))
}

func TestSharedPrefixPayloads(t *testing.T) {
	tr := newTrie(t)
	require.NoError(t, tr.Insert([]byte("cat"), 1))
	require.NoError(t, tr.Insert([]byte("car"), 2))

	v, ok := tr.Search([]byte("cat"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = tr.Search([]byte("car"))
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tr.Search([]byte("ca"))
	assert.False(t, ok)
	assert.True(t, tr.HasPrefix([]byte("ca")))
	assert.False(t, tr.HasPrefix([]byte("co")))

	// c and a share one level each; t and r share the third.
	assert.Equal(t, 3, tr.Levels())
	assert.NoError(t, tr.Check())
}

func TestDuplicateInsertRemove(t *testing.T) {
	tr := newTrie(t)
	require.NoError(t, tr.Insert([]byte("dog"), 1))
	require.NoError(t, tr.Insert([]byte("dog"), 2))
	assert.Equal(t, 2, tr.Len())

	require.NoError(t, tr.Remove([]byte("dog")))
	v, ok := tr.Search([]byte("dog"))
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.NoError(t, tr.Check())

	require.NoError(t, tr.Remove([]byte("dog")))
	_, ok = tr.Search([]byte("dog"))
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Levels())
	assert.Equal(t, 0, tr.Len())
	assert.NoError(t, tr.Check())

	assert.True(t, errors.Is(tr.Remove([]byte("dog")), index.ErrKeyNotFound))
}

func TestRemovePrefixOnly(t *testing.T) {
	tr := newTrie(t)
	require.NoError(t, tr.Insert([]byte("dog"), 1))

	err := tr.Remove([]byte("do"))
	assert.True(t, errors.Is(err, index.ErrPrefixOnly))
	v, ok := tr.Search([]byte("dog"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.NoError(t, tr.Check())

	assert.True(t, errors.Is(tr.Remove([]byte("dogs")), index.ErrKeyNotFound))
	assert.True(t, errors.Is(tr.Remove([]byte("x")), index.ErrKeyNotFound))
}

func TestPrefixKeySurvivesLongerRemoval(t *testing.T) {
	tr := newTrie(t)
	require.NoError(t, tr.Insert([]byte("do"), 1))
	require.NoError(t, tr.Insert([]byte("dog"), 2))
	assert.Equal(t, 3, tr.Levels())

	require.NoError(t, tr.Remove([]byte("dog")))
	v, ok := tr.Search([]byte("do"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, tr.Levels())
	assert.NoError(t, tr.Check())

	require.NoError(t, tr.Insert([]byte("dog"), 3))
	require.NoError(t, tr.Remove([]byte("do")))
	_, ok = tr.Search([]byte("do"))
	assert.False(t, ok)
	v, ok = tr.Search([]byte("dog"))
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.NoError(t, tr.Check())
}

func TestEmptyKey(t *testing.T) {
	tr := newTrie(t)
	assert.True(t, errors.Is(tr.Insert(nil, 1), index.ErrBadArgument))
	assert.True(t, errors.Is(tr.Remove([]byte{}), index.ErrBadArgument))
	_, ok := tr.Search(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Levels())
}

func TestWalkOrder(t *testing.T) {
	tr := newTrie(t)
	for i, w := range []string{"pear", "pea", "apple", "peach", "app", "zoo"} {
		require.NoError(t, tr.Insert([]byte(w), i))
	}
	assert.Equal(t, []string{"app", "apple", "pea", "peach", "pear", "zoo"}, words(tr))

	var got []string
	tr.WalkPrefix([]byte("pea"), func(k []byte, _ int) bool {
		got = append(got, string(k))
		return true
	})
	assert.Equal(t, []string{"pea", "peach", "pear"}, got)

	got = got[:0]
	tr.Walk(func(k []byte, _ int) bool {
		got = append(got, string(k))
		return len(got) < 2
	})
	assert.Equal(t, []string{"app", "apple"}, got)

	got = got[:0]
	tr.WalkPrefix([]byte("q"), func(k []byte, _ int) bool {
		got = append(got, string(k))
		return true
	})
	assert.Empty(t, got)
}

func TestLevelLimit(t *testing.T) {
	tr := newTrie(t, WithLevelLimit(3))
	require.NoError(t, tr.Insert([]byte("cat"), 1))
	require.NoError(t, tr.Insert([]byte("car"), 2))

	err := tr.Insert([]byte("cart"), 3)
	assert.True(t, errors.Is(err, index.ErrAllocation))
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 3, tr.Levels())
	_, ok := tr.Search([]byte("cart"))
	assert.False(t, ok)
	assert.NoError(t, tr.Check())

	require.NoError(t, tr.Insert([]byte("cab"), 4))
}

func TestRandomRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	tr := newTrie(t)
	counts := map[string]int{}

	for i := 0; i < 4000; i++ {
		n := 1 + r.IntN(4)
		key := make([]byte, n)
		for j := range key {
			key[j] = 'a' + byte(r.IntN(3))
		}
		if r.IntN(2) == 0 {
			require.NoError(t, tr.Insert(key, i))
			counts[string(key)]++
		} else {
			err := tr.Remove(key)
			if counts[string(key)] > 0 {
				require.NoError(t, err)
				counts[string(key)]--
			} else {
				require.Error(t, err)
			}
		}
		if i%101 == 0 {
			require.NoError(t, tr.Check(), "step %d", i)
		}
	}
	require.NoError(t, tr.Check())
	total := 0
	for k, c := range counts {
		_, ok := tr.Search([]byte(k))
		assert.Equal(t, c > 0, ok, k)
		total += c
	}
	assert.Equal(t, total, tr.Len())
}

func TestFreeIsIdempotent(t *testing.T) {
	tr := newTrie(t)
	tr.Free()
	require.NoError(t, tr.Insert([]byte("abc"), 1))
	tr.Free()
	tr.Free()
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Levels())
	assert.NoError(t, tr.Check())
	assert.Contains(t, tr.Print(), "(empty)")
}

func TestPrint(t *testing.T) {
	tr := newTrie(t)
	require.NoError(t, tr.Insert([]byte("ab"), 7))
	out := tr.Print()
	assert.Contains(t, out, "keys=1 levels=2")
	assert.Contains(t, out, "b => 7")
}
