package syntax

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/tagline/lex"
)

// indentStep is the indentation of tagged children under their parent.
const indentStep = 4

// Canon renders the subtree rooted at n as source text.
func (n *Node) Canon() string {
	var b strings.Builder
	n.render(&b, 0, false)
	return b.String()
}

// WriteTo writes the canonical text of n to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	written, err := io.WriteString(w, n.Canon())
	return int64(written), err
}

// Canon renders the document's tree, or "" before Parse.
func (d *Document) Canon() string {
	if d.root == nil {
		return ""
	}
	return d.root.Canon()
}

// CanonLine renders the node's own line: tag, names, parameters, strings,
// code, sigil, the first line of its text and the comment.
func (n *Node) CanonLine() string {
	line := n.head()
	if text := n.firstText(); text != "" {
		line = join(line, text)
	}
	if n.Comment != nil {
		line = join(line, n.Comment.Marker+n.Comment.Text)
	}
	return line
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

// head renders everything in front of the inline text.
func (n *Node) head() string {
	if n.Kind == KindQuote {
		return n.Sigil
	}
	var parts []string
	switch {
	case n.Pseudo != "":
		parts = append(parts, n.Pseudo+n.Tag+lex.CloserString(n.Pseudo))
	case n.Tag != "" && n.Tag != n.Sigil:
		parts = append(parts, n.Tag)
	}
	parts = append(parts, n.Names...)
	if p := n.paramList("(", n.In); p != "" {
		parts = append(parts, p)
	}
	if p := n.paramList("[", n.Ex); p != "" {
		parts = append(parts, p)
	}
	for _, s := range n.Strings {
		parts = append(parts, s.Quote+s.Raw+s.Quote)
	}
	for _, seg := range n.Code {
		parts = append(parts, seg.String())
	}
	for _, e := range n.Errors {
		if e.Mark == "" {
			parts = append(parts, e.Text)
		}
	}

	line := strings.Join(parts, " ")
	if n.Sigil != "" {
		if n.glued && line != "" {
			line += n.Sigil
		} else {
			line = join(line, n.Sigil)
		}
	}
	if n.CodeTag != "" {
		line = join(line, n.CodeTag)
	}
	return line
}

// paramList renders params inside open and its closer. Malformed items
// recorded for this bracket are put back in place.
func (n *Node) paramList(open string, params Params) string {
	items := make([]string, 0, len(params))
	for _, p := range params {
		items = append(items, p.String())
	}
	for _, e := range n.Errors {
		if e.Mark != open {
			continue
		}
		if strings.HasPrefix(e.Text, "=") && len(items) > 0 {
			items[len(items)-1] += e.Text
		} else {
			items = append(items, e.Text)
		}
	}
	if len(items) == 0 {
		return ""
	}
	return open + strings.Join(items, ", ") + lex.CloserString(open)
}

func (n *Node) firstText() string {
	if n.Body != nil {
		lines := n.Body.Lines()
		if len(lines) == 0 {
			return ""
		}
		return lines[0].Full()
	}
	text, _, _ := strings.Cut(n.Text, "\n")
	return text
}

// shifted reports whether n is placed by its recorded column instead of
// the fixed indentation step.
func (n *Node) shifted() bool {
	switch n.Kind {
	case KindParagraph, KindText, KindCode, KindQuote:
		return true
	}
	return n.Escape != ""
}

func (n *Node) hasBodyChildren() bool {
	return len(n.children) > 0 && n.children[0].inBody
}

func indent(b *strings.Builder, col int) {
	if col > 0 {
		b.WriteString(strings.Repeat(" ", col))
	}
}

func (n *Node) render(b *strings.Builder, col int, inline bool) {
	switch {
	case n.IsSeparator():
		b.WriteByte('\n')
		return
	case n.Invisible:
		n.renderChildren(b, col, 0)
		return
	}
	switch n.Kind {
	case KindParagraph, KindText, KindCode:
		n.renderBody(b, col, inline)
		return
	}

	if !inline {
		indent(b, col)
	}
	prefix := n.Escape + n.head()
	textCol := col + utf8.RuneCountInString(prefix) + 1

	if n.hasBodyChildren() {
		b.WriteString(prefix)
		b.WriteByte(' ')
		first := true
		for _, child := range n.children {
			switch {
			case !child.inBody:
			case child.IsSeparator():
				b.WriteByte('\n')
			case child.shifted():
				child.render(b, textCol+child.shift, first)
				first = false
			default:
				child.render(b, textCol, first)
				first = false
			}
		}
	} else {
		b.WriteString(n.Escape)
		b.WriteString(n.CanonLine())
		b.WriteByte('\n')
		n.renderContinuation(b, textCol)
	}
	n.renderChildren(b, col, indentStep)
}

// renderContinuation writes the lines of the inline text after the first.
func (n *Node) renderContinuation(b *strings.Builder, col int) {
	if n.Body != nil {
		lines := n.Body.Lines()
		for i := 1; i < len(lines); i++ {
			if l := lines[i]; !l.IsBlank() {
				indent(b, col+l.Indent)
				b.WriteString(l.Text)
			}
			b.WriteByte('\n')
		}
		return
	}
	lines := strings.Split(n.Text, "\n")
	for _, l := range lines[1:] {
		if l != "" {
			indent(b, col)
			b.WriteString(l)
		}
		b.WriteByte('\n')
	}
}

// renderChildren writes the children that are not part of the inline
// text. Tagged children go step columns right of anchor.
func (n *Node) renderChildren(b *strings.Builder, anchor, step int) {
	for _, child := range n.children {
		switch {
		case child.inBody:
		case child.IsSeparator():
			b.WriteByte('\n')
		case child.Invisible:
			child.renderChildren(b, anchor, step)
		case child.shifted():
			child.render(b, anchor+child.shift, false)
		default:
			child.render(b, anchor+step, false)
		}
	}
}

func (n *Node) renderBody(b *strings.Builder, col int, inline bool) {
	if n.Body != nil {
		for i, l := range n.Body.Lines() {
			switch {
			case l.IsBlank():
			case i == 0 && inline:
				b.WriteString(l.Full())
			default:
				indent(b, col+l.Indent)
				b.WriteString(l.Text)
			}
			b.WriteByte('\n')
		}
	}
	if n.Kind == KindCode && n.Closer != "" {
		indent(b, col-n.shift)
		b.WriteString(n.Closer)
		b.WriteByte('\n')
	}
}
