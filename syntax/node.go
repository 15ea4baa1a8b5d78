package syntax

import (
	"strings"

	"github.com/dhamidi/tagline/lex"
)

type Kind int

const (
	KindTagged Kind = iota
	KindContainer
	KindSeparator
	KindParagraph
	KindQuote
	KindText
	KindCode
)

var kindNames = map[Kind]string{
	KindTagged:    "Tagged",
	KindContainer: "Container",
	KindSeparator: "Separator",
	KindParagraph: "Paragraph",
	KindQuote:     "Quote",
	KindText:      "Text",
	KindCode:      "Code",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Literal is a quoted string as written, without its quotes.
type Literal struct {
	Quote string
	Raw   string
}

// Value returns the string with escapes resolved.
func (l Literal) Value() string {
	return lex.Unquote(l.Raw)
}

// Segment is an inline code segment such as {x = 1} or <b>.
type Segment struct {
	Open string
	Text string
}

func (s Segment) String() string {
	return s.Open + s.Text + lex.CloserString(s.Open)
}

type Comment struct {
	Marker string
	Text   string
}

type Param = lex.Param

// Params is an ordered parameter collection.
type Params []Param

func (p Params) index(key string) int {
	for i, param := range p {
		if param.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value of key and whether key is present at all.
func (p Params) Get(key string) (string, bool) {
	if i := p.index(key); i >= 0 {
		return p[i].Value, true
	}
	return "", false
}

func (p Params) Has(key string) bool {
	return p.index(key) >= 0
}

// Set gives key a value, keeping its position when it already exists.
func (p *Params) Set(key, value string) {
	if i := p.index(key); i >= 0 {
		(*p)[i].Value = value
		(*p)[i].HasValue = true
		return
	}
	*p = append(*p, Param{Key: key, Value: value, HasValue: true})
}

// Flag marks key as present without a value.
func (p *Params) Flag(key string) {
	if i := p.index(key); i >= 0 {
		(*p)[i] = Param{Key: key}
		return
	}
	*p = append(*p, Param{Key: key})
}

func (p *Params) Delete(key string) bool {
	i := p.index(key)
	if i < 0 {
		return false
	}
	*p = append((*p)[:i], (*p)[i+1:]...)
	return true
}

func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, param := range p {
		keys[i] = param.Key
	}
	return keys
}

// String renders the items comma-separated, as inside the brackets.
func (p Params) String() string {
	items := make([]string, len(p))
	for i, param := range p {
		items[i] = param.String()
	}
	return strings.Join(items, ", ")
}

// Node is one element of a parsed tree.
//
// A tagged line fills the syntactic fields (Tag through Comment). Inline
// text is either the literal Text or, when it continues on deeper lines,
// the frozen subdocument Body. Paragraph, text and code nodes carry only a
// Body. Extra and Meta are free payload for callers and never rendered.
type Node struct {
	Kind Kind
	Line int

	Tag     string
	Pseudo  string
	Sigil   string
	CodeTag string
	Names   []string
	In      Params
	Ex      Params
	Strings []Literal
	Code    []Segment
	Comment *Comment
	Text    string
	Body    *Document
	Escape  string
	Closer  string
	Errors  []lex.Token

	Invisible bool
	Extra     any
	Meta      map[string]any

	parent   *Node
	children []*Node

	shift   int
	inBody  bool
	glued   bool
	textCol int

	path      string
	pathOK    bool
	visible   []*Node
	visibleOK bool
}

// NewNode returns an empty tagged node.
func NewNode(tag string) *Node {
	return &Node{Kind: KindTagged, Tag: tag, shift: indentStep}
}

// NewText returns a paragraph node holding text.
func NewText(text string) *Node {
	d := NewDocument()
	d.Append(text)
	d.Freeze()
	return &Node{Kind: KindParagraph, Body: d, shift: indentStep}
}

// NewSeparator returns a synthetic blank-line marker.
func NewSeparator() *Node {
	return &Node{Kind: KindSeparator}
}

// NewContainer returns an invisible structural node.
func NewContainer() *Node {
	return &Node{Kind: KindContainer, Invisible: true}
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified;
// use the editing methods instead.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) IsSeparator() bool {
	return n.Kind == KindSeparator
}

// IsSigiled reports whether the node is introduced by its sigil: it has
// one and its tag is empty or the sigil itself.
func (n *Node) IsSigiled() bool {
	return n.Sigil != "" && (n.Tag == "" || n.Tag == n.Sigil)
}

// HasErrors reports whether any token of the node's line was malformed.
func (n *Node) HasErrors() bool {
	return len(n.Errors) > 0
}

// Content returns the node's text: the inline text of a tagged line
// including its continuation lines, or the extent of a text node.
func (n *Node) Content() string {
	if n.Body != nil {
		return n.Body.Text()
	}
	return n.Text
}

// Name returns the first name, or "".
func (n *Node) Name() string {
	if len(n.Names) == 0 {
		return ""
	}
	return n.Names[0]
}

// SetMeta stores a named out-of-band value.
func (n *Node) SetMeta(key string, value any) {
	if n.Meta == nil {
		n.Meta = make(map[string]any)
	}
	n.Meta[key] = value
}

// Find returns the first path-visible child tagged tag.
func (n *Node) Find(tag string) *Node {
	for _, child := range n.VisibleChildren() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// FindAll returns every path-visible child tagged tag.
func (n *Node) FindAll(tag string) []*Node {
	var result []*Node
	for _, child := range n.VisibleChildren() {
		if child.Tag == tag {
			result = append(result, child)
		}
	}
	return result
}

// Copy returns a deep copy of the subtree rooted at n, detached from any
// parent. Frozen bodies are shared since they are never modified.
func (n *Node) Copy() *Node {
	c := *n
	c.parent = nil
	c.inBody = false
	c.path, c.pathOK = "", false
	c.visible, c.visibleOK = nil, false
	c.Names = append([]string(nil), n.Names...)
	c.In = append(Params(nil), n.In...)
	c.Ex = append(Params(nil), n.Ex...)
	c.Strings = append([]Literal(nil), n.Strings...)
	c.Code = append([]Segment(nil), n.Code...)
	c.Errors = append([]lex.Token(nil), n.Errors...)
	if n.Comment != nil {
		comment := *n.Comment
		c.Comment = &comment
	}
	if n.Meta != nil {
		c.Meta = make(map[string]any, len(n.Meta))
		for k, v := range n.Meta {
			c.Meta[k] = v
		}
	}
	c.children = nil
	for _, child := range n.children {
		cc := child.Copy()
		cc.parent = &c
		cc.inBody = child.inBody
		c.children = append(c.children, cc)
	}
	return &c
}
