package syntax

import (
	"unicode/utf8"

	"github.com/dhamidi/tagline/source"
)

type taggedGrammar struct{}

func (taggedGrammar) Name() string { return "tag" }

func (taggedGrammar) grammar() {}

// Parse returns the next tagged subtree of the extent, or a separator
// standing for the blank lines in front of it.
func (taggedGrammar) Parse(d *Document, c *source.Cursor, x Extent) []*Node {
	l, blanks, ok := c.PeekNonblank()
	if !ok {
		if x.Floor == 0 {
			c.SkipBlanks()
		}
		return nil
	}
	if l.Indent < x.Floor {
		return nil
	}
	if blanks > 0 {
		c.SkipBlanks()
		return []*Node{NewSeparator()}
	}
	c.Next()
	return []*Node{d.parseTagged(c, l, "", x.Context)}
}

// parseTagged builds the node for l, which has just been consumed, and
// everything that belongs to it:
//
//  1. inline text continued on lines indented at or past the text column
//     becomes the node's body;
//  2. a sigil without inline text hands the deeper lines to the sigil's
//     grammar;
//  3. the remaining deeper lines are tagged children.
func (d *Document) parseTagged(c *source.Cursor, l source.Line, prefix, ctx string) *Node {
	n := d.build(l, prefix, ctx)
	if n.Sigil == "" {
		d.parseChildren(c, n, l.Indent, ctx)
		return n
	}
	g, info := d.sigilGrammar(n, ctx)
	inner := ctx
	if g != Tagged && g != Code {
		inner = g.Name()
	}

	if n.Text != "" {
		col := l.Indent + utf8.RuneCountInString(prefix) + n.textCol
		if next, ok := c.Peek(); ok && !next.IsBlank() && next.Indent >= col {
			d.parseBody(c, n, l, col, g, inner)
		}
	} else {
		x := Extent{Owner: l.Indent, Floor: l.Indent + 1, Closer: info.Closer, Context: inner}
		for {
			nodes := g.Parse(d, c, x)
			for _, child := range nodes {
				n.Add(child)
			}
			if len(nodes) == 0 || g == Code {
				break
			}
		}
	}

	d.parseChildren(c, n, l.Indent, ctx)
	return n
}

// parseBody collects the lines continuing n's inline text into a
// subdocument starting at the text column.
func (d *Document) parseBody(c *source.Cursor, n *Node, l source.Line, col int, g Grammar, ctx string) {
	sub := d.Sub(l.Num, l.Num, col)
	for {
		next, blanks, ok := c.PeekNonblank()
		if !ok || next.Indent < col {
			break
		}
		for i := 0; i <= blanks; i++ {
			c.Next()
		}
		sub.Extend(next.Num)
	}
	sub.Freeze()

	if g == Text || g == Code {
		n.Body = sub
		return
	}
	sub.grammar, sub.textGrammar = g.Name(), ctx
	n.Text = ""
	for _, child := range sub.parseAll() {
		n.Add(child)
		child.inBody = true
	}
}

// parseChildren adds every following line indented deeper than indent as
// a child of n. Blank runs between children become separators.
func (d *Document) parseChildren(c *source.Cursor, n *Node, indent int, ctx string) {
	for {
		l, blanks, ok := c.PeekNonblank()
		if !ok || l.Indent <= indent {
			return
		}
		if blanks > 0 {
			c.SkipBlanks()
			n.Add(NewSeparator())
		}
		c.Next()
		n.Add(d.parseTagged(c, l, "", ctx))
	}
}
