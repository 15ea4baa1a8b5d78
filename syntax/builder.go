package syntax

import (
	"github.com/dhamidi/tagline/lex"
	"github.com/dhamidi/tagline/source"
)

// build turns one line into a node. prefix is an escape string in front of
// the tagged text; ctx is the text grammar a bare ':' resolves to.
func (d *Document) build(l source.Line, prefix, ctx string) *Node {
	n := &Node{Kind: KindTagged, Line: l.Num, shift: indentStep}
	tokens := lex.Tokenize(l.Text[len(prefix):])

	var g Grammar
	for i, tok := range tokens {
		if i == 0 {
			switch tok.Kind {
			case lex.KindWord:
				n.Tag = tok.Text
				continue
			case lex.KindCode, lex.KindParams:
				n.Tag, n.Pseudo = tok.Text, tok.Mark
				continue
			}
		}

		switch tok.Kind {
		case lex.KindWord:
			n.Names = append(n.Names, tok.Text)
		case lex.KindString:
			n.Strings = append(n.Strings, Literal{Quote: tok.Mark, Raw: tok.Text})
		case lex.KindCode:
			n.Code = append(n.Code, Segment{Open: tok.Mark, Text: tok.Text})
		case lex.KindParams:
			if tok.Mark == "(" {
				n.In = append(n.In, tok.Params...)
			} else {
				n.Ex = append(n.Ex, tok.Params...)
			}
			for _, e := range tok.Errors {
				e.Mark = tok.Mark
				n.Errors = append(n.Errors, e)
			}
		case lex.KindSigil:
			n.Sigil = tok.Text
			if i > 0 {
				prev := tokens[i-1]
				n.glued = prev.Offset+prev.Length == tok.Offset
			}
			info := d.sigils.Lookup(tok.Text)
			if !info.Known {
				log.Debugf("line %d: unknown sigil %q", l.Num, tok.Text)
			}
			name := info.Grammar
			if name == "" {
				name = ctx
			}
			g = d.grammarFor(name)
		case lex.KindText:
			if g != nil && g.Name() == "code" && lex.IsWord(tok.Text) {
				n.CodeTag = tok.Text
				break
			}
			n.Text = tok.Text
			n.textCol = tok.Offset
		case lex.KindComment:
			n.Comment = &Comment{Marker: tok.Mark, Text: tok.Text}
		case lex.KindError:
			n.Errors = append(n.Errors, tok)
		}
	}
	return n
}

// sigilGrammar resolves the grammar of n's sigil in context ctx.
func (d *Document) sigilGrammar(n *Node, ctx string) (Grammar, SigilInfo) {
	info := d.sigils.Lookup(n.Sigil)
	name := info.Grammar
	if name == "" {
		name = ctx
	}
	return d.grammarFor(name), info
}
