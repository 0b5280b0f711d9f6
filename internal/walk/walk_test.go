package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tnode struct {
	v           int
	left, right *tnode
}

var graph = Graph[*tnode]{
	IsNil:    func(n *tnode) bool { return n == nil },
	Children: func(n *tnode) (*tnode, *tnode) { return n.left, n.right },
}

//	    4
//	  2   6
//	 1 3 5 7
func sample() *tnode {
	leaf := func(v int) *tnode { return &tnode{v: v} }
	return &tnode{v: 4,
		left:  &tnode{v: 2, left: leaf(1), right: leaf(3)},
		right: &tnode{v: 6, left: leaf(5), right: leaf(7)},
	}
}

func collect(order Order, root *tnode) []int {
	var out []int
	Walk(graph, root, order, func(n *tnode) bool { out = append(out, n.v); return true })
	return out
}

func TestOrders(t *testing.T) {
	root := sample()
	assert.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, collect(PreOrder, root))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, collect(InOrder, root))
	assert.Equal(t, []int{1, 3, 2, 5, 7, 6, 4}, collect(PostOrder, root))
	assert.Equal(t, []int{4, 2, 6, 1, 3, 5, 7}, collect(LevelOrder, root))
}

func TestEmptyAndStop(t *testing.T) {
	assert.Nil(t, collect(InOrder, nil))
	assert.Equal(t, 0, Count(graph, nil))

	root := sample()
	var seen []int
	done := Walk(graph, root, InOrder, func(n *tnode) bool {
		seen = append(seen, n.v)
		return n.v < 3
	})
	assert.False(t, done)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestFindAndCount(t *testing.T) {
	root := sample()
	assert.Equal(t, 7, Count(graph, root))

	n, ok := Find(graph, root, LevelOrder, func(n *tnode) bool { return n.v%2 == 1 })
	assert.True(t, ok)
	assert.Equal(t, 1, n.v)

	_, ok = Find(graph, root, PreOrder, func(n *tnode) bool { return n.v > 10 })
	assert.False(t, ok)
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{PreOrder, InOrder, PostOrder, LevelOrder} {
		got, ok := ParseOrder(o.String())
		assert.True(t, ok)
		assert.Equal(t, o, got)
	}
	_, ok := ParseOrder("zigzag")
	assert.False(t, ok)
}
