package syntax

// Walker steps through a subtree depth-first in pre-order.
type Walker struct {
	stack []*Node
}

// Walk returns a walker starting at n. Separators and invisible containers
// are visited like any other node.
func (n *Node) Walk() *Walker {
	return &Walker{stack: []*Node{n}}
}

func (w *Walker) Next() (*Node, bool) {
	if len(w.stack) == 0 {
		return nil, false
	}
	n := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	for i := len(n.children) - 1; i >= 0; i-- {
		w.stack = append(w.stack, n.children[i])
	}
	return n, true
}

// Skip drops the children of the node last returned by Next. It must be
// called before the next call to Next.
func (w *Walker) Skip(n *Node) {
	w.stack = w.stack[:len(w.stack)-len(n.children)]
}

// Inspect calls fn for n and, while fn returns true, for its descendants.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.children {
		Inspect(child, fn)
	}
}
