package syntax

import (
	"strings"

	"github.com/dhamidi/tagline/source"
)

// Grammar parses one extent of a document into an ordered list of nodes.
// The set of grammars is closed: Tagged, Text, Code, Blocktext and Textplus.
type Grammar interface {
	Name() string
	Parse(d *Document, c *source.Cursor, x Extent) []*Node
	grammar()
}

// Extent bounds one grammar invocation. Lines indented less than Floor end
// the extent. Owner is the indentation of the line that opened it and
// Closer ends a code extent. Context names the text grammar a bare ':'
// resolves to inside the extent.
type Extent struct {
	Owner   int
	Floor   int
	Closer  string
	Context string
}

var (
	Tagged    Grammar = taggedGrammar{}
	Text      Grammar = textGrammar{mode: modeText}
	Code      Grammar = textGrammar{mode: modeCode}
	Blocktext Grammar = textGrammar{mode: modeBlocktext}
	Textplus  Grammar = textGrammar{mode: modeTextplus}
)

// GrammarTable maps grammar names to grammars.
type GrammarTable map[string]Grammar

func DefaultGrammars() GrammarTable {
	return GrammarTable{
		"tag":       Tagged,
		"code":      Code,
		"text":      Text,
		"textplus":  Textplus,
		"blocktext": Blocktext,
	}
}

func (t GrammarTable) Clone() GrammarTable {
	c := make(GrammarTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// SigilEntry is what a sigil resolves to. An empty Grammar means the text
// grammar of the surrounding context.
type SigilEntry struct {
	Grammar string
	Closer  string
}

// SigilInfo describes a sigil after lookup. Base is the sigil with its
// modifiers stripped.
type SigilInfo struct {
	Sigil   string
	Base    string
	Grammar string
	Closer  string

	ZeroWidth bool
	Flow      bool
	ParaBreak bool

	// Known is false when neither the sigil nor its base is in the table.
	Known bool
}

// SigilTable maps sigils to grammars.
type SigilTable struct {
	entries map[string]SigilEntry
}

func DefaultSigils() *SigilTable {
	return &SigilTable{entries: map[string]SigilEntry{
		":+": {Grammar: "textplus"},
		":-": {Grammar: "text"},
		":.": {Grammar: "blocktext"},
		":":  {},
		"(":  {Grammar: "code", Closer: ")"},
		"<":  {Grammar: "code", Closer: ">"},
		"[":  {Grammar: "code", Closer: "]"},
		"{":  {Grammar: "code", Closer: "}"},
	}}
}

func (t *SigilTable) Set(sigil string, entry SigilEntry) {
	t.entries[sigil] = entry
}

func (t *SigilTable) Clone() *SigilTable {
	c := &SigilTable{entries: make(map[string]SigilEntry, len(t.entries))}
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// Lookup resolves sigil. An exact entry wins; otherwise a leading "<<"
// (zero-width), a trailing ">" (flow) and a trailing "," (paragraph
// break) are stripped, as long as something remains, and the base is
// looked up.
func (t *SigilTable) Lookup(sigil string) SigilInfo {
	info := SigilInfo{Sigil: sigil, Base: sigil}
	if e, ok := t.entries[sigil]; ok {
		info.Grammar, info.Closer, info.Known = e.Grammar, e.Closer, true
		return info
	}

	base := sigil
	if rest, ok := strings.CutPrefix(base, "<<"); ok && rest != "" {
		base, info.ZeroWidth = rest, true
	}
	if rest, ok := strings.CutSuffix(base, ","); ok && rest != "" {
		base, info.ParaBreak = rest, true
	}
	if rest, ok := strings.CutSuffix(base, ">"); ok && rest != "" {
		base, info.Flow = rest, true
	}
	info.Base = base
	if e, ok := t.entries[base]; ok {
		info.Grammar, info.Closer, info.Known = e.Grammar, e.Closer, true
	}
	return info
}

type Option func(*Document)

// WithSigils replaces the sigil table.
func WithSigils(t *SigilTable) Option {
	return func(d *Document) {
		d.sigils = t.Clone()
	}
}

// WithSigil adds or overrides one sigil.
func WithSigil(sigil, grammar, closer string) Option {
	return func(d *Document) {
		d.sigils.Set(sigil, SigilEntry{Grammar: grammar, Closer: closer})
	}
}

// WithGrammar sets the grammar the document is parsed with.
func WithGrammar(name string) Option {
	return func(d *Document) {
		d.grammar = name
	}
}

func WithGrammarTable(t GrammarTable) Option {
	return func(d *Document) {
		d.grammars = t.Clone()
	}
}

// WithTextGrammar sets what a bare ':' resolves to at the top level.
func WithTextGrammar(name string) Option {
	return func(d *Document) {
		d.textGrammar = name
	}
}

// WithEscape sets the prefix that marks a tagged line inside textplus.
func WithEscape(esc string) Option {
	return func(d *Document) {
		d.escape = esc
	}
}

// WithName records where the document came from.
func WithName(name string) Option {
	return func(d *Document) {
		d.name = name
	}
}
