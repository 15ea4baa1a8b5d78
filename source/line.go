// Package source turns raw text into numbered, indentation-measured lines and
// provides the lookahead cursor that the parsers pull lines from.
package source

import (
	"io"
	"strings"
)

// Blank is the Indent of a line that holds nothing but whitespace.
const Blank = -1

// TabWidth is the number of columns a leading tab expands to.
const TabWidth = 4

// Line is one normalized source line. Text never carries the leading
// indentation; Indent is measured in columns.
type Line struct {
	Num    int
	Indent int
	Text   string
}

func (l Line) IsBlank() bool {
	return l.Indent == Blank
}

// Full returns the line with its indentation restored as spaces.
func (l Line) Full() string {
	if l.IsBlank() {
		return ""
	}
	return strings.Repeat(" ", l.Indent) + l.Text
}

// Window re-expresses the line relative to column offset. A line indented
// at or past the offset keeps its text and loses offset columns of
// indentation; a shallower line is sliced at that column.
func (l Line) Window(offset int) Line {
	if l.IsBlank() || offset <= 0 {
		return l
	}
	if offset <= l.Indent {
		return Line{Num: l.Num, Indent: l.Indent - offset, Text: l.Text}
	}
	full := []rune(l.Full())
	if offset >= len(full) {
		return Line{Num: l.Num, Indent: Blank}
	}
	return Normalize(l.Num, string(full[offset:]))
}

// Normalize measures the indentation of raw and strips it. Leading tabs
// count TabWidth columns and a trailing carriage return is dropped.
func Normalize(num int, raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")
	indent := 0
	i := 0
scan:
	for i < len(raw) {
		switch raw[i] {
		case ' ':
			indent++
		case '\t':
			indent += TabWidth
		default:
			break scan
		}
		i++
	}
	if strings.TrimSpace(raw[i:]) == "" {
		return Line{Num: num, Indent: Blank}
	}
	return Line{Num: num, Indent: indent, Text: raw[i:]}
}

// Store is an append-only list of normalized lines. Numbering starts at 1
// and continues across appends.
type Store struct {
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

// Append splits text on newlines and appends every line. A final newline
// does not produce an extra empty line.
func (s *Store) Append(text string) {
	if text == "" {
		return
	}
	text = strings.TrimSuffix(text, "\n")
	s.AppendLines(strings.Split(text, "\n")...)
}

func (s *Store) AppendLines(raw ...string) {
	for _, r := range raw {
		s.lines = append(s.lines, Normalize(len(s.lines)+1, r))
	}
}

// ReadFrom reads r to the end and appends its lines.
func (s *Store) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	s.Append(string(data))
	return int64(len(data)), nil
}

func (s *Store) Len() int {
	return len(s.lines)
}

// Line returns line num (1-based).
func (s *Store) Line(num int) (Line, bool) {
	if num < 1 || num > len(s.lines) {
		return Line{}, false
	}
	return s.lines[num-1], true
}

// Lines returns the stored lines. The slice must not be modified.
func (s *Store) Lines() []Line {
	return s.lines
}

// Iterator is a single-step pull sequence of lines.
type Iterator interface {
	Next() (Line, bool)
}

// SliceIterator iterates over a fixed slice of lines.
type SliceIterator struct {
	lines []Line
	pos   int
}

func Iterate(lines []Line) *SliceIterator {
	return &SliceIterator{lines: lines}
}

func (it *SliceIterator) Next() (Line, bool) {
	if it.pos >= len(it.lines) {
		return Line{}, false
	}
	l := it.lines[it.pos]
	it.pos++
	return l, true
}
