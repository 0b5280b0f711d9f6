package bst

import (
	"testing"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAVLRotations(t *testing.T) {
	for _, tc := range []struct {
		name   string
		insert []int
	}{
		{"RR", []int{10, 20, 30}},
		{"LL", []int{30, 20, 10}},
		{"LR", []int{30, 10, 20}},
		{"RL", []int{10, 30, 20}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := NewAVL(index.Natural[int]())
			require.NoError(t, err)
			for _, k := range tc.insert {
				require.NoError(t, tr.Insert(k))
			}
			require.NoError(t, tr.Check())
			assert.Equal(t, 20, tr.root.key)
			assert.Equal(t, 10, tr.root.left.key)
			assert.Equal(t, 30, tr.root.right.key)
			assert.Equal(t, height(2), tr.root.aux)
		})
	}
}

func TestAVLTwoChildDeletionUsesSuccessor(t *testing.T) {
	tr, err := NewAVL(index.Natural[int]())
	require.NoError(t, err)
	for _, k := range []int{20, 10, 30, 25, 35} {
		require.NoError(t, tr.Insert(k))
	}
	require.True(t, tr.Remove(20))
	require.NoError(t, tr.Check())
	assert.Equal(t, 25, tr.root.key)
	assert.Equal(t, []int{10, 25, 30, 35}, keys(tr))
}

func TestAVLDeleteRebalances(t *testing.T) {
	tr, err := NewAVL(index.Natural[int]())
	require.NoError(t, err)
	for _, k := range []int{20, 10, 30, 5} {
		require.NoError(t, tr.Insert(k))
	}
	// Removing 30 leaves 20 left heavy by two; an LL rotation lifts 10.
	require.True(t, tr.Remove(30))
	require.NoError(t, tr.Check())
	assert.Equal(t, 10, tr.root.key)
}
