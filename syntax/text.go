package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/tagline/lex"
	"github.com/dhamidi/tagline/source"
)

type textMode int

const (
	modeText textMode = iota
	modeCode
	modeBlocktext
	modeTextplus
)

var modeNames = map[textMode]string{
	modeText:      "text",
	modeCode:      "code",
	modeBlocktext: "blocktext",
	modeTextplus:  "textplus",
}

// textGrammar is the text family: opaque text, code bounded by a closer
// line, and the segmenting blocktext and textplus variants.
type textGrammar struct {
	mode textMode
}

func (g textGrammar) Name() string { return modeNames[g.mode] }

func (textGrammar) grammar() {}

func (g textGrammar) Parse(d *Document, c *source.Cursor, x Extent) []*Node {
	if _, _, ok := c.PeekNonblank(); !ok && x.Floor == 0 && x.Closer == "" {
		c.SkipBlanks()
		return nil
	}
	switch g.mode {
	case modeCode:
		if x.Closer != "" {
			return parseCode(d, c, x)
		}
		return parseText(d, c, x, KindCode)
	case modeText:
		return parseText(d, c, x, KindText)
	}
	return g.segment(d, c, x)
}

// parseText wraps every line down to the end of the extent in one node.
// Blank lines in front of it become a separator.
func parseText(d *Document, c *source.Cursor, x Extent, kind Kind) []*Node {
	l, blanks, ok := c.PeekNonblank()
	if !ok || l.Indent < x.Floor {
		return nil
	}
	var nodes []*Node
	if blanks > 0 {
		c.SkipBlanks()
		nodes = append(nodes, NewSeparator())
	}
	c.Next()
	sub := d.Sub(l.Num, l.Num, l.Indent)
	for {
		next, blanks, ok := c.PeekNonblank()
		if !ok || next.Indent < x.Floor {
			break
		}
		for i := 0; i <= blanks; i++ {
			c.Next()
		}
		sub.Unindent(next.Indent)
		sub.Extend(next.Num)
	}
	sub.Freeze()
	return append(nodes, &Node{Kind: kind, Line: l.Num, Body: sub, shift: sub.offset - x.Owner})
}

// isCloser reports whether l ends a code extent opened at indentation owner.
func isCloser(l source.Line, x Extent) bool {
	return !l.IsBlank() && l.Indent <= x.Owner && strings.TrimSpace(l.Text) == x.Closer
}

// parseCode takes every line up to the closer line, which is consumed but
// not part of the body. Lines left of the body's column widen it.
func parseCode(d *Document, c *source.Cursor, x Extent) []*Node {
	first, ok := c.Peek()
	if !ok {
		return nil
	}
	n := &Node{Kind: KindCode, Line: first.Num}
	if isCloser(first, x) {
		c.Next()
		n.Closer = x.Closer
		return []*Node{n}
	}

	var sub *Document
	for {
		l, ok := c.Next()
		if !ok {
			break
		}
		if isCloser(l, x) {
			n.Closer = x.Closer
			break
		}
		switch {
		case sub == nil && l.IsBlank():
			sub = d.Sub(l.Num, l.Num, x.Floor)
		case sub == nil:
			sub = d.Sub(l.Num, l.Num, l.Indent)
		default:
			if !l.IsBlank() {
				sub.Unindent(l.Indent)
			}
			sub.Extend(l.Num)
		}
	}
	if sub != nil {
		sub.Freeze()
		n.Body = sub
		n.shift = sub.offset - x.Owner
	}
	return []*Node{n}
}

// segment splits the extent into paragraphs, separators, quotes and, for
// textplus, escaped tagged lines. The base column is that of the first
// line; segmentation stops at a line left of it.
func (g textGrammar) segment(d *Document, c *source.Cursor, x Extent) []*Node {
	l, _, ok := c.PeekNonblank()
	if !ok || l.Indent < x.Floor {
		return nil
	}
	base := l.Indent
	var nodes []*Node
	for {
		l, blanks, ok := c.PeekNonblank()
		if !ok || l.Indent < base {
			return nodes
		}
		if blanks > 0 {
			c.SkipBlanks()
			nodes = append(nodes, NewSeparator())
			continue
		}

		switch {
		case l.Indent == base && g.isEscaped(d, l):
			c.Next()
			n := d.parseTagged(c, l, d.escape, g.Name())
			n.Escape = d.escape
			n.shift = base - x.Owner
			nodes = append(nodes, n)
		case l.Indent == base && quoteWidth(l.Text) > 0:
			c.Next()
			nodes = append(nodes, g.parseQuote(d, c, l, base-x.Owner))
		default:
			nodes = append(nodes, g.parseParagraph(d, c, base, x))
		}
	}
}

func (g textGrammar) isEscaped(d *Document, l source.Line) bool {
	if g.mode != modeTextplus || d.escape == "" {
		return false
	}
	rest, ok := strings.CutPrefix(l.Text, d.escape)
	if !ok || rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r != ' ' && r != '\t'
}

// quoteWidth returns the length in runes of the punctuation run that opens
// a quote line, or 0 if text does not start with punctuation followed by a
// space and more text.
func quoteWidth(text string) int {
	w := 0
	for i, r := range text {
		if lex.IsPunct(r) {
			w++
			continue
		}
		if w > 0 && r == ' ' && strings.TrimSpace(text[i:]) != "" {
			return w
		}
		return 0
	}
	return 0
}

// parseQuote parses the body of the quote line l with the same grammar.
// Lines indented to the body column continue it.
func (g textGrammar) parseQuote(d *Document, c *source.Cursor, l source.Line, shift int) *Node {
	w := quoteWidth(l.Text)
	sigil := string([]rune(l.Text)[:w])
	col := l.Indent + w + 1

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
	sub.grammar = g.Name()

	n := &Node{Kind: KindQuote, Line: l.Num, Sigil: sigil, shift: shift}
	for _, child := range sub.parseAll() {
		n.Add(child)
		child.inBody = true
	}
	return n
}

// parseParagraph takes non-blank lines at or right of base, stopping
// before a quote or escaped line at base.
func (g textGrammar) parseParagraph(d *Document, c *source.Cursor, base int, x Extent) *Node {
	l, _ := c.Next()
	sub := d.Sub(l.Num, l.Num, base)
	for {
		next, ok := c.Peek()
		if !ok || next.IsBlank() || next.Indent < base {
			break
		}
		if next.Indent == base && (g.isEscaped(d, next) || quoteWidth(next.Text) > 0) {
			break
		}
		c.Next()
		sub.Extend(next.Num)
	}
	sub.Freeze()
	return &Node{Kind: KindParagraph, Line: l.Num, Body: sub, shift: base - x.Owner}
}
