package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/tagline/lex"
)

// ErrNotFound is wrapped by the errors Loc returns.
var ErrNotFound = errors.New("path not found")

// PathError reports the element at which a path stopped resolving.
type PathError struct {
	Path    string
	Element string
	Err     error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: element %q of %q", e.Err, e.Element, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// VisibleChildren returns the children eligible for path addressing:
// separators are skipped and invisible containers are flattened.
func (n *Node) VisibleChildren() []*Node {
	if n.visibleOK {
		return n.visible
	}
	var result []*Node
	for _, child := range n.children {
		switch {
		case child.IsSeparator():
		case child.Invisible:
			result = append(result, child.VisibleChildren()...)
		default:
			result = append(result, child)
		}
	}
	n.visible, n.visibleOK = result, true
	return result
}

func (n *Node) visibleParent() *Node {
	p := n.parent
	for p != nil && p.Invisible && p.parent != nil {
		p = p.parent
	}
	return p
}

// Path returns the address of n from the root, elements joined by dots.
// The root's path is empty.
func (n *Node) Path() string {
	if n.pathOK {
		return n.path
	}
	p := n.visibleParent()
	switch {
	case p == nil:
		n.path = ""
	case n.Invisible || n.IsSeparator():
		n.path = p.Path()
	default:
		elem := p.elementFor(n)
		if pp := p.Path(); pp != "" {
			n.path = pp + "." + elem
		} else {
			n.path = elem
		}
	}
	n.pathOK = true
	return n.path
}

func (p *Node) elementFor(n *Node) string {
	siblings := p.VisibleChildren()
	if n.Tag == "" || n.Pseudo != "" || !lex.IsWord(n.Tag) {
		for i, s := range siblings {
			if s == n {
				return "(" + strconv.Itoa(i) + ")"
			}
		}
		return ""
	}

	name := n.Name()
	byName := name != "" && !isIndex(name) && !strings.ContainsAny(name, "./-()")
	k := 0
	for _, s := range siblings {
		if s == n {
			break
		}
		if s.Tag != n.Tag {
			continue
		}
		if byName && s.Name() == name {
			byName = false
		}
		k++
	}
	switch {
	case byName:
		return n.Tag + "(" + name + ")"
	case k == 0:
		return n.Tag
	default:
		return n.Tag + "(" + strconv.Itoa(k) + ")"
	}
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitPath splits on '.', '/' and '-' outside parentheses.
func splitPath(path string) []string {
	var elems []string
	depth := 0
	start := 0
	for i, r := range path {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '.', '/', '-':
			if depth == 0 {
				if i > start {
					elems = append(elems, path[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(path) {
		elems = append(elems, path[start:])
	}
	return elems
}

// Loc resolves path relative to n. An element is a tag (the first
// path-visible child with that tag), tag(name), tag(i) for the i-th child
// with that tag, or (i) for the i-th path-visible child; indices are 0-based.
func (n *Node) Loc(path string) (*Node, error) {
	cur := n
	for _, elem := range splitPath(path) {
		next := cur.step(elem)
		if next == nil {
			return nil, &PathError{Path: path, Element: elem, Err: ErrNotFound}
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) step(elem string) *Node {
	tag, arg, hasArg := elem, "", false
	if open := strings.IndexByte(elem, '('); open >= 0 && strings.HasSuffix(elem, ")") {
		tag, arg, hasArg = elem[:open], elem[open+1:len(elem)-1], true
	}
	siblings := n.VisibleChildren()

	if tag == "" {
		i, err := strconv.Atoi(arg)
		if !hasArg || err != nil || i < 0 || i >= len(siblings) {
			return nil
		}
		return siblings[i]
	}

	index := 0
	byIndex := false
	if hasArg && isIndex(arg) {
		index, _ = strconv.Atoi(arg)
		byIndex = true
	}
	k := 0
	for _, s := range siblings {
		if s.Tag != tag {
			continue
		}
		switch {
		case hasArg && !byIndex:
			if s.Name() == arg {
				return s
			}
		case k == index:
			return s
		}
		k++
	}
	return nil
}
