package lex

import "fmt"

type Kind int

const (
	KindEOF Kind = iota
	KindError
	KindWord
	KindString
	KindComment
	KindCode
	KindParams
	KindSigil
	KindText
)

var kindNames = map[Kind]string{
	KindEOF:     "EOF",
	KindError:   "Error",
	KindWord:    "Word",
	KindString:  "String",
	KindComment: "Comment",
	KindCode:    "Code",
	KindParams:  "Params",
	KindSigil:   "Sigil",
	KindText:    "Text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is one lexical element of a line. Offset and Length are columns.
//
// Mark holds the quote character of a string, the marker of a comment and
// the opening bracket of a code or parameter token; it is empty otherwise.
// Text holds the payload: the word, the raw string interior, the comment
// after its marker, the bracket interior, the sigil, the free text, or the
// raw text that could not be classified.
type Token struct {
	Kind   Kind
	Offset int
	Length int
	Mark   string
	Text   string

	// Params and Errors are set on KindParams tokens only.
	Params []Param
	Errors []Token
}

func (t Token) String() string {
	return fmt.Sprintf("[%d,%d,%q,%q]", t.Offset, t.Length, t.Mark, t.Text)
}

// Param is one item of a parameter list. A present-only item has
// HasValue false and an empty Value.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

func (p Param) String() string {
	if !p.HasValue {
		return p.Key
	}
	return p.Key + "=" + QuoteValue(p.Value)
}

var closers = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

// Closer returns the bracket closing opener, or 0.
func Closer(opener rune) rune {
	return closers[opener]
}

// CloserString is Closer for a one-character string.
func CloserString(opener string) string {
	if len(opener) != 1 {
		return ""
	}
	if c := closers[rune(opener[0])]; c != 0 {
		return string(c)
	}
	return ""
}
