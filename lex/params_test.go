package lex

import (
	"reflect"
	"testing"
)

func paramsOf(t *testing.T, line string) Token {
	t.Helper()
	for _, tok := range Tokenize(line) {
		if tok.Kind == KindParams {
			return tok
		}
	}
	t.Fatalf("no parameter token in %q", line)
	return Token{}
}

func TestParamsSeparatorStyles(t *testing.T) {
	comma := paramsOf(t, "tag (x, y, z=2)")
	space := paramsOf(t, "tag (x y z=2)")

	want := []Param{
		{Key: "x"},
		{Key: "y"},
		{Key: "z", Value: "2", HasValue: true},
	}
	if !reflect.DeepEqual(comma.Params, want) {
		t.Errorf("comma params = %v, want %v", comma.Params, want)
	}
	if !reflect.DeepEqual(space.Params, want) {
		t.Errorf("space params = %v, want %v", space.Params, want)
	}
	if len(comma.Errors) != 0 || len(space.Errors) != 0 {
		t.Errorf("unexpected errors: %v %v", comma.Errors, space.Errors)
	}
}

func TestParamsQuotedValues(t *testing.T) {
	tok := paramsOf(t, `tag [label="hello world", alt='say "hi"', n = 3]`)
	if tok.Mark != "[" {
		t.Errorf("Mark = %q, want [", tok.Mark)
	}
	want := []Param{
		{Key: "label", Value: "hello world", HasValue: true},
		{Key: "alt", Value: `say "hi"`, HasValue: true},
		{Key: "n", Value: "3", HasValue: true},
	}
	if !reflect.DeepEqual(tok.Params, want) {
		t.Errorf("params = %v, want %v", tok.Params, want)
	}
}

func TestParamsMissingValue(t *testing.T) {
	tok := paramsOf(t, "tag (a, x=)")
	want := []Param{{Key: "a"}, {Key: "x"}}
	if !reflect.DeepEqual(tok.Params, want) {
		t.Errorf("params = %v, want %v", tok.Params, want)
	}
	if len(tok.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", tok.Errors)
	}
	if tok.Errors[0].Text != "=" || tok.Errors[0].Kind != KindError {
		t.Errorf("error = %v", tok.Errors[0])
	}
	if tok.Errors[0].Offset != 9 {
		t.Errorf("error offset = %d, want 9", tok.Errors[0].Offset)
	}
}

func TestParamsGarbage(t *testing.T) {
	tok := paramsOf(t, "tag (a, !b)")
	if len(tok.Params) != 1 || tok.Params[0].Key != "a" {
		t.Errorf("params = %v", tok.Params)
	}
	if len(tok.Errors) != 1 || tok.Errors[0].Text != "!b" {
		t.Errorf("errors = %v", tok.Errors)
	}
}

func TestQuoteValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2", "2"},
		{"plain", "plain"},
		{"a.b/c", "a.b/c"},
		{"two words", `"two words"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `"it's \"x\""`},
		{"line\nbreak", `"line\nbreak"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := QuoteValue(tt.in); got != tt.want {
				t.Errorf("QuoteValue(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuoteValueReparses(t *testing.T) {
	for _, v := range []string{"two words", `say "hi"`, "line\nbreak", `back\slash`} {
		tok := paramsOf(t, "t (k="+QuoteValue(v)+")")
		if len(tok.Params) != 1 || tok.Params[0].Value != v {
			t.Errorf("value %q reparsed as %v", v, tok.Params)
		}
	}
}
