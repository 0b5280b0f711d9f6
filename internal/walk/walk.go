// Package walk traverses binary node graphs in pre-, in-, post- or level
// order. Node handles are opaque: pointer trees pass *node, arena trees pass
// arena.ID. Traversal is iterative so deep degenerate trees cannot overflow
// the goroutine stack.
package walk

// Order selects the visiting order.
type Order int

const (
	PreOrder Order = iota
	InOrder
	PostOrder
	LevelOrder
)

func (o Order) String() string {
	switch o {
	case PreOrder:
		return "pre"
	case InOrder:
		return "in"
	case PostOrder:
		return "post"
	case LevelOrder:
		return "level"
	default:
		return "unknown"
	}
}

// ParseOrder maps "pre", "in", "post" and "level" to an Order.
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "pre":
		return PreOrder, true
	case "in":
		return InOrder, true
	case "post":
		return PostOrder, true
	case "level":
		return LevelOrder, true
	}
	return InOrder, false
}

// Graph describes how to inspect a node handle.
type Graph[N any] struct {
	IsNil    func(N) bool
	Children func(N) (left, right N)
}

// Walk visits every node reachable from root in the given order. visit
// returns false to stop early; Walk reports whether the traversal ran to
// completion.
func Walk[N any](g Graph[N], root N, order Order, visit func(N) bool) bool {
	if g.IsNil(root) {
		return true
	}
	switch order {
	case PreOrder:
		return g.pre(root, visit)
	case PostOrder:
		return g.post(root, visit)
	case LevelOrder:
		return g.level(root, visit)
	default:
		return g.in(root, visit)
	}
}

func (g Graph[N]) pre(root N, visit func(N) bool) bool {
	stack := []N{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return false
		}
		l, r := g.Children(n)
		if !g.IsNil(r) {
			stack = append(stack, r)
		}
		if !g.IsNil(l) {
			stack = append(stack, l)
		}
	}
	return true
}

func (g Graph[N]) in(root N, visit func(N) bool) bool {
	var stack []N
	cur := root
	for !g.IsNil(cur) || len(stack) > 0 {
		for !g.IsNil(cur) {
			stack = append(stack, cur)
			cur, _ = g.Children(cur)
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return false
		}
		_, cur = g.Children(n)
	}
	return true
}

// post runs a reversed (node, right, left) preorder and replays it, which
// keeps the children of a node alive until after they are visited. Tree
// teardown relies on that ordering.
func (g Graph[N]) post(root N, visit func(N) bool) bool {
	stack := []N{root}
	var out []N
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		l, r := g.Children(n)
		if !g.IsNil(l) {
			stack = append(stack, l)
		}
		if !g.IsNil(r) {
			stack = append(stack, r)
		}
	}
	for i := len(out) - 1; i >= 0; i-- {
		if !visit(out[i]) {
			return false
		}
	}
	return true
}

func (g Graph[N]) level(root N, visit func(N) bool) bool {
	queue := []N{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		l, r := g.Children(n)
		if !g.IsNil(l) {
			queue = append(queue, l)
		}
		if !g.IsNil(r) {
			queue = append(queue, r)
		}
		if !visit(n) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes reachable from root.
func Count[N any](g Graph[N], root N) int {
	n := 0
	Walk(g, root, PreOrder, func(N) bool { n++; return true })
	return n
}

// Find returns the first node in the given order that satisfies pred.
func Find[N any](g Graph[N], root N, order Order, pred func(N) bool) (N, bool) {
	var hit N
	found := false
	Walk(g, root, order, func(n N) bool {
		if pred(n) {
			hit, found = n, true
			return false
		}
		return true
	})
	return hit, found
}
