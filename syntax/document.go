package syntax

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/tagline/source"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tagline.syntax")

// ErrFrozen is returned when a frozen document is asked to change shape.
var ErrFrozen = errors.New("document is frozen")

// SourceError reports that the source of a document could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Document is a window over source lines: the lines First through Last of
// its parent, re-indented by subtracting Offset columns. The root document
// owns a line store. A frozen document owns a copy of its window and no
// longer follows its parent.
type Document struct {
	parent *Document
	subs   []*Document

	first  int
	last   int
	offset int

	grammar     string
	textGrammar string
	escape      string
	sigils      *SigilTable
	grammars    GrammarTable
	name        string

	store  *source.Store
	lines  []source.Line
	frozen bool

	root   *Node
	cursor *source.Cursor
}

// NewDocument returns an empty root document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		first:       1,
		grammar:     "tag",
		textGrammar: "text",
		escape:      "+",
		sigils:      DefaultSigils(),
		grammars:    DefaultGrammars(),
		store:       source.NewStore(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ParseFile reads and parses the file at path. When the file cannot be
// read the document is returned without content together with a
// *SourceError.
func ParseFile(path string, opts ...Option) (*Document, error) {
	d := NewDocument(append([]Option{WithName(path)}, opts...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return d, &SourceError{Path: path, Err: err}
	}
	d.store.Append(string(data))
	d.Parse()
	return d, nil
}

// ParseString parses src and returns its root node.
func ParseString(src string, opts ...Option) *Node {
	d := NewDocument(opts...)
	d.store.Append(src)
	return d.Parse()
}

// ParseLine builds the node for a single line without looking at any
// following lines.
func ParseLine(line string, opts ...Option) *Node {
	d := NewDocument(opts...)
	d.store.Append(line)
	l, ok := d.line(1)
	if !ok || l.IsBlank() {
		return NewContainer()
	}
	return d.build(l, "", d.textGrammar)
}

// Append adds raw text to the end of a root document.
func (d *Document) Append(text string) error {
	if d.frozen || d.store == nil {
		return ErrFrozen
	}
	d.store.Append(text)
	return nil
}

// ReadFrom appends everything r yields.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	if d.frozen || d.store == nil {
		return 0, ErrFrozen
	}
	return d.store.ReadFrom(r)
}

func (d *Document) Name() string {
	if d.name == "" && d.parent != nil {
		return d.parent.Name()
	}
	return d.name
}

func (d *Document) First() int {
	return d.first
}

func (d *Document) Last() int {
	if d.store != nil && !d.frozen {
		return d.store.Len()
	}
	return d.last
}

func (d *Document) Offset() int {
	return d.offset
}

func (d *Document) Frozen() bool {
	return d.frozen
}

// Root returns the tree built by the last Parse, or nil.
func (d *Document) Root() *Node {
	return d.root
}

// Grammar returns the name of the grammar the document is parsed with.
func (d *Document) Grammar() string {
	return d.grammar
}

// Sigil looks s up in the document's sigil table.
func (d *Document) Sigil(s string) SigilInfo {
	return d.sigils.Lookup(s)
}

// Sub opens a window over lines first..last of d, shifted left by offset
// columns. It inherits d's tables.
func (d *Document) Sub(first, last, offset int) *Document {
	s := &Document{
		parent:      d,
		first:       first,
		last:        last,
		offset:      offset,
		grammar:     d.grammar,
		textGrammar: d.textGrammar,
		escape:      d.escape,
		sigils:      d.sigils,
		grammars:    d.grammars,
	}
	d.subs = append(d.subs, s)
	return s
}

// Extend grows the window down to line last.
func (d *Document) Extend(last int) error {
	if d.frozen {
		return ErrFrozen
	}
	if last > d.last {
		d.last = last
	}
	return nil
}

// Unindent moves the window's left edge to offset. The window only ever
// widens.
func (d *Document) Unindent(offset int) error {
	if d.frozen {
		return ErrFrozen
	}
	if offset < d.offset {
		d.offset = offset
	}
	return nil
}

// Freeze copies the window into the document and detaches it from its
// parent.
func (d *Document) Freeze() {
	if d.frozen {
		return
	}
	d.lines = d.Lines()
	d.last = d.first + len(d.lines) - 1
	d.frozen = true
	if p := d.parent; p != nil {
		for i, s := range p.subs {
			if s == d {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				break
			}
		}
		d.parent = nil
	}
	log.Debugf("froze lines %d-%d at offset %d", d.first, d.last, d.offset)
}

// line returns line num as seen through the window.
func (d *Document) line(num int) (source.Line, bool) {
	switch {
	case d.frozen:
		i := num - d.first
		if i < 0 || i >= len(d.lines) {
			return source.Line{}, false
		}
		return d.lines[i], true
	case d.store != nil:
		return d.store.Line(num)
	case num < d.first || num > d.last:
		return source.Line{}, false
	}
	l, ok := d.parent.line(num)
	if !ok {
		return source.Line{}, false
	}
	return l.Window(d.offset), true
}

// Lines returns the window's lines.
func (d *Document) Lines() []source.Line {
	if d.frozen {
		return d.lines
	}
	var lines []source.Line
	for num := d.First(); num <= d.Last(); num++ {
		if l, ok := d.line(num); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// Text returns the window's lines joined by newlines, each indented by
// its column relative to the window.
func (d *Document) Text() string {
	lines := d.Lines()
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Full()
	}
	return strings.Join(parts, "\n")
}

// Iterator returns a lazy pull sequence over the window's lines.
func (d *Document) Iterator() source.Iterator {
	return &docIterator{d: d, num: d.First()}
}

type docIterator struct {
	d   *Document
	num int
}

func (it *docIterator) Next() (source.Line, bool) {
	if it.num > it.d.Last() {
		return source.Line{}, false
	}
	l, ok := it.d.line(it.num)
	it.num++
	return l, ok
}

func (d *Document) grammarFor(name string) Grammar {
	if g, ok := d.grammars[name]; ok {
		return g
	}
	log.Debugf("unknown grammar %q, using text", name)
	if g, ok := d.grammars["text"]; ok {
		return g
	}
	return Text
}

// Parse builds the document's tree. The content is collected under an
// invisible container which is dropped when it ends up with exactly one
// child.
func (d *Document) Parse() *Node {
	root := NewContainer()
	for _, n := range d.parseAll() {
		root.Add(n)
	}
	if len(root.children) == 1 && !root.children[0].IsSeparator() {
		child := root.children[0]
		child.parent = nil
		child.inBody = false
		root = child
	}
	d.root = root
	return root
}

func (d *Document) parseAll() []*Node {
	c := d.cursor
	if c == nil {
		c = source.NewCursor(d.Iterator())
		d.cursor = c
	}
	defer func() { d.cursor = nil }()

	g := d.grammarFor(d.grammar)
	x := Extent{Context: d.textGrammar}
	var nodes []*Node
	for !c.Done() {
		before := c.LastLine()
		got := g.Parse(d, c, x)
		nodes = append(nodes, got...)
		if len(got) == 0 && c.LastLine() == before {
			l, _ := c.Next()
			log.Warningf("%s: line %d not consumed by %s grammar", d.Name(), l.Num, g.Name())
		}
	}
	return nodes
}
