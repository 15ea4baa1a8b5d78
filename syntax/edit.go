package syntax

import "errors"

var (
	// ErrDetached is returned by sibling-relative edits on a node without a parent.
	ErrDetached = errors.New("node has no parent")
	// ErrCycle is returned when a node would become its own descendant.
	ErrCycle = errors.New("node cannot contain itself")
)

// Add appends child and returns it.
func (n *Node) Add(child *Node) *Node {
	n.insert(len(n.children), child)
	return child
}

// AddAt inserts child at index i, clamped to the child range.
func (n *Node) AddAt(i int, child *Node) *Node {
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.insert(i, child)
	return child
}

// AddBefore inserts sibling in front of n.
func (n *Node) AddBefore(sibling *Node) error {
	p := n.parent
	if p == nil {
		return ErrDetached
	}
	if sibling == n {
		return nil
	}
	if sibling.contains(p) {
		return ErrCycle
	}
	sibling.detach()
	if n.parent != p {
		return ErrDetached
	}
	p.insert(p.indexOf(n), sibling)
	return nil
}

// AddAfter inserts sibling right after n.
func (n *Node) AddAfter(sibling *Node) error {
	p := n.parent
	if p == nil {
		return ErrDetached
	}
	if sibling == n {
		return nil
	}
	if sibling.contains(p) {
		return ErrCycle
	}
	sibling.detach()
	if n.parent != p {
		return ErrDetached
	}
	p.insert(p.indexOf(n)+1, sibling)
	return nil
}

// Replace puts repl where n is and detaches n.
func (n *Node) Replace(repl *Node) error {
	p := n.parent
	if p == nil {
		return ErrDetached
	}
	if repl == n {
		return nil
	}
	if repl.contains(p) {
		return ErrCycle
	}
	repl.detach()
	i := p.indexOf(n)
	p.children[i] = repl
	repl.parent = p
	repl.inBody = n.inBody
	n.parent = nil
	n.inBody = false
	p.invalidate()
	n.invalidate()
	return nil
}

// Delete detaches n from its parent. If that leaves two separators next
// to each other they are collapsed into one, and a separator left at the
// end of the children is dropped.
func (n *Node) Delete() {
	n.detach()
}

func (n *Node) insert(i int, child *Node) {
	if child == nil || child.contains(n) {
		return
	}
	child.detach()
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
	n.invalidate()
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	i := p.indexOf(n)
	p.children = append(p.children[:i], p.children[i+1:]...)
	if i > 0 && i < len(p.children) && p.children[i-1].IsSeparator() && p.children[i].IsSeparator() {
		p.children[i].parent = nil
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	// A blank run never ends a child list.
	if i > 0 && i == len(p.children) && p.children[i-1].IsSeparator() {
		p.children[i-1].parent = nil
		p.children = p.children[:i-1]
	}
	n.parent = nil
	n.inBody = false
	p.invalidate()
	n.invalidate()
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// contains reports whether m is n or one of its descendants.
func (n *Node) contains(m *Node) bool {
	for ; m != nil; m = m.parent {
		if m == n {
			return true
		}
	}
	return false
}

// invalidate clears memoized paths and child lists for the subtree whose
// addressing depends on n: n's nearest visible ancestor and below.
func (n *Node) invalidate() {
	top := n
	for top.Invisible && top.parent != nil {
		top = top.parent
	}
	top.clearCaches()
}

func (n *Node) clearCaches() {
	n.path, n.pathOK = "", false
	n.visible, n.visibleOK = nil, false
	for _, child := range n.children {
		child.clearCaches()
	}
}
