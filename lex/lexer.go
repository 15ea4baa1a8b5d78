// Package lex splits a single line of tagged notation into tokens.
//
// Tokenizing is left to right and longest-match with no backtracking across
// alternatives. It never fails: anything that cannot be classified becomes a
// KindError token carrying the raw text.
package lex

import (
	"strings"
	"unicode"
)

type state int

const (
	stateTokens state = iota
	stateAfterSigil
	stateDone
)

type Lexer struct {
	input []rune
	pos   int
	state state
}

// NewLexer returns a lexer over one line. Leading tabs count four columns.
func NewLexer(line string) *Lexer {
	return &Lexer{input: []rune(expandLeadingTabs(line))}
}

// Tokenize returns every token of line in order.
func Tokenize(line string) []Token {
	l := NewLexer(line)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == KindEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func expandLeadingTabs(line string) string {
	i := 0
	col := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		if line[i] == '\t' {
			col += 4
		} else {
			col++
		}
		i++
	}
	if !strings.Contains(line[:i], "\t") {
		return line
	}
	return strings.Repeat(" ", col) + line[i:]
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) rest() string {
	return string(l.input[l.pos:])
}

func (l *Lexer) NextToken() Token {
	if l.state == stateDone {
		return Token{Kind: KindEOF, Offset: len(l.input)}
	}
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		l.state = stateDone
		return Token{Kind: KindEOF, Offset: len(l.input)}
	}

	ch := l.peek()

	if isCommentMarker(ch) {
		return l.scanComment()
	}
	if l.state == stateAfterSigil {
		return l.scanText()
	}

	if IsWordStart(ch) {
		return l.scanWord()
	}
	if ch == '\'' || ch == '"' {
		if end := quoteEnd(l.input, l.pos); end >= 0 {
			return l.scanString(end)
		}
	}
	if Closer(ch) != 0 {
		if end := matchBracket(l.input, l.pos); end >= 0 {
			return l.scanBracket(end)
		}
	}
	if isSigilRune(ch) {
		return l.scanSigil()
	}
	return l.scanError()
}

func (l *Lexer) scanComment() Token {
	start := l.pos
	tok := Token{
		Kind:   KindComment,
		Offset: start,
		Length: len(l.input) - start,
		Mark:   string(l.input[start]),
		Text:   string(l.input[start+1:]),
	}
	l.pos = len(l.input)
	l.state = stateDone
	return tok
}

func (l *Lexer) scanText() Token {
	start := l.pos
	tok := Token{
		Kind:   KindText,
		Offset: start,
		Length: len(l.input) - start,
		Text:   l.rest(),
	}
	l.pos = len(l.input)
	l.state = stateDone
	return tok
}

func (l *Lexer) scanError() Token {
	start := l.pos
	tok := Token{
		Kind:   KindError,
		Offset: start,
		Length: len(l.input) - start,
		Text:   l.rest(),
	}
	l.pos = len(l.input)
	l.state = stateDone
	return tok
}

func (l *Lexer) scanWord() Token {
	start := l.pos
	l.pos = wordEnd(l.input, l.pos)
	return Token{
		Kind:   KindWord,
		Offset: start,
		Length: l.pos - start,
		Text:   string(l.input[start:l.pos]),
	}
}

func (l *Lexer) scanString(end int) Token {
	start := l.pos
	l.pos = end + 1
	return Token{
		Kind:   KindString,
		Offset: start,
		Length: l.pos - start,
		Mark:   string(l.input[start]),
		Text:   string(l.input[start+1 : end]),
	}
}

func (l *Lexer) scanBracket(end int) Token {
	start := l.pos
	opener := l.input[start]
	l.pos = end + 1
	tok := Token{
		Kind:   KindCode,
		Offset: start,
		Length: l.pos - start,
		Mark:   string(opener),
		Text:   string(l.input[start+1 : end]),
	}
	if opener == '(' || opener == '[' {
		tok.Kind = KindParams
		tok.Params, tok.Errors = parseParams(l.input[start+1:end], start+1)
	}
	return tok
}

func (l *Lexer) scanSigil() Token {
	start := l.pos
	for l.pos < len(l.input) && isSigilRune(l.input[l.pos]) && !isCommentMarker(l.input[l.pos]) {
		l.pos++
	}
	l.state = stateAfterSigil
	return Token{
		Kind:   KindSigil,
		Offset: start,
		Length: l.pos - start,
		Text:   string(l.input[start:l.pos]),
	}
}

// IsWordStart reports whether r can begin a bareword.
func IsWordStart(r rune) bool {
	return unicode.IsLetter(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func wordEnd(src []rune, i int) int {
	if i >= len(src) || !IsWordStart(src[i]) {
		return i
	}
	i++
	for i < len(src) && isWordRune(src[i]) {
		i++
	}
	return i
}

// IsWord reports whether s is a single bareword.
func IsWord(s string) bool {
	r := []rune(s)
	return len(r) > 0 && wordEnd(r, 0) == len(r)
}

func isCommentMarker(r rune) bool {
	return r == '#' || r == '\\'
}

// IsPunct reports whether r may appear in a sigil: Unicode punctuation or
// symbols other than quotes.
func IsPunct(r rune) bool {
	if r == '\'' || r == '"' {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isSigilRune(r rune) bool {
	return IsPunct(r)
}

// quoteEnd returns the index of the quote closing the string that starts
// at i, or -1 when the string is not terminated on this line.
func quoteEnd(src []rune, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

// matchBracket returns the index of the closer matching the opener at
// open. Quoted substrings and nested pairs of the same kind are skipped.
func matchBracket(src []rune, open int) int {
	opener := src[open]
	closer := Closer(opener)
	depth := 0
	for i := open + 1; i < len(src); i++ {
		switch r := src[i]; {
		case r == '\'' || r == '"':
			if end := quoteEnd(src, i); end >= 0 {
				i = end
			}
		case r == opener:
			depth++
		case r == closer:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
