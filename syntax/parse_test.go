package syntax

import (
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"line", "tag name 'string' # comment\n"},
		{"children", "n\n    t one\n    t two\n\n    not t\n    t something\n        x\n"},
		{"glued sigil", "title: Hello\n"},
		{"spaced sigil", "title : Hello\n"},
		{"inline text with children", "title: Hello\n    child\n"},
		{"continued text", "para: first line\n      second line\n\n      third\n"},
		{"continued textplus", "p :+ some text\n     more text\n"},
		{"textplus block", "doc :+\n    Some paragraph\n    text here.\n\n    - a quote\n    +tag name: inline\n        child\n"},
		{"leading blank in block", "doc :+\n\n    para\n"},
		{"nested quotes", "q :.\n    > outer\n    > > inner\n"},
		{"text block", "raw :-\n    line one\n      indented\n    line three\n"},
		{"bare colon block", "block: # trailing\n    child\n"},
		{"code block", "code { go\n    fmt.Println(\"hi\")\n\n    return\n}\n"},
		{"empty code block", "code {\n}\n"},
		{"params", "img (src=a.png, alt=\"two words\") [w=3]\n"},
		{"pseudotag", "[draft] note\n"},
		{"inline code", "tpl <b> {x = 1}\n"},
		{"top level blank", "a\n\nb\n"},
		{"sigiled lines", "- item\n- other\n"},
		{"comment line", "# hello\nx\n"},
		{"unicode", "café naïve: über\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseString(tt.src).Canon()
			if got != tt.src {
				t.Errorf("Canon() =\n%q\nwant\n%q", got, tt.src)
			}
		})
	}
}

func TestIndentedDocumentIsNormalized(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"    a\n", "a\n"},
		{"  a\n  b\n", "a\nb\n"},
		{"    a\n        b\n", "a\n    b\n"},
		{"\ta\n\t\tb\n", "a\n    b\n"},
	}
	for _, tt := range tests {
		got := ParseString(tt.src).Canon()
		if got != tt.want {
			t.Errorf("Canon() of %q = %q, want %q", tt.src, got, tt.want)
		}
		if again := ParseString(got).Canon(); again != got {
			t.Errorf("Canon() of %q is not stable: %q", got, again)
		}
	}
}

func TestParseLineFields(t *testing.T) {
	n := ParseLine(`tag name other (a, b=1) [x] "s" {code} # c`)
	if n.Tag != "tag" {
		t.Errorf("Tag = %q, want tag", n.Tag)
	}
	if !reflect.DeepEqual(n.Names, []string{"name", "other"}) {
		t.Errorf("Names = %v", n.Names)
	}
	if v, ok := n.In.Get("b"); !ok || v != "1" {
		t.Errorf("In.Get(b) = %q, %v", v, ok)
	}
	if !n.In.Has("a") || !n.Ex.Has("x") {
		t.Errorf("In = %v, Ex = %v", n.In, n.Ex)
	}
	if len(n.Strings) != 1 || n.Strings[0].Value() != "s" || n.Strings[0].Quote != `"` {
		t.Errorf("Strings = %v", n.Strings)
	}
	if len(n.Code) != 1 || n.Code[0].Open != "{" || n.Code[0].Text != "code" {
		t.Errorf("Code = %v", n.Code)
	}
	if n.Comment == nil || n.Comment.Marker != "#" || n.Comment.Text != " c" {
		t.Errorf("Comment = %v", n.Comment)
	}
	if n.Line != 1 {
		t.Errorf("Line = %d, want 1", n.Line)
	}
}

func TestParamCanonicalization(t *testing.T) {
	comma := ParseLine("t (x, y, z=2)")
	space := ParseLine("t (x y z=2)")
	if !reflect.DeepEqual(comma.In, space.In) {
		t.Errorf("In differ: %v vs %v", comma.In, space.In)
	}
	for _, n := range []*Node{comma, space} {
		if got := n.CanonLine(); got != "t (x, y, z=2)" {
			t.Errorf("CanonLine() = %q, want %q", got, "t (x, y, z=2)")
		}
	}
}

func TestMalformedInputIsKept(t *testing.T) {
	tests := []string{
		"tag (a, x=)",
		"tag (a, !b)",
		"tag 'unterminated",
		"tag 123 abc",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			n := ParseLine(src)
			if !n.HasErrors() {
				t.Errorf("HasErrors() = false for %q", src)
			}
			if got := n.CanonLine(); got != src {
				t.Errorf("CanonLine() = %q, want %q", got, src)
			}
		})
	}
}

func TestSigiledNodes(t *testing.T) {
	tests := []struct {
		line    string
		sigiled bool
	}{
		{"- item", true},
		{"title: Hello", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if got := ParseLine(tt.line).IsSigiled(); got != tt.sigiled {
			t.Errorf("IsSigiled(%q) = %v, want %v", tt.line, got, tt.sigiled)
		}
	}
}

func TestInlineTextContinuesIntoBody(t *testing.T) {
	n := ParseString("para: first\n      second\n")
	if n.Body == nil {
		t.Fatal("Body = nil, want continued text")
	}
	if got := n.Content(); got != "first\nsecond" {
		t.Errorf("Content() = %q, want %q", got, "first\nsecond")
	}
	if len(n.Children()) != 0 {
		t.Errorf("children = %d, want 0", len(n.Children()))
	}
}

func TestShortSigiledLineIsLeaf(t *testing.T) {
	root := ParseString("title: Hello\nnext\n")
	title := root.Find("title")
	if title == nil {
		t.Fatal("title not found")
	}
	if len(title.Children()) != 0 || title.Text != "Hello" || title.Body != nil {
		t.Errorf("title = %+v", title)
	}
}

func TestInlineTextWithChildren(t *testing.T) {
	n := ParseString("title: Hello\n    child\n")
	if n.Text != "Hello" {
		t.Errorf("Text = %q, want Hello", n.Text)
	}
	kids := n.Children()
	if len(kids) != 1 || kids[0].Tag != "child" || kids[0].Kind != KindTagged {
		t.Errorf("children = %v", kids)
	}
}

func TestStructuredInlineText(t *testing.T) {
	n := ParseString("p :+ some text\n     more text\n")
	if n.Text != "" {
		t.Errorf("Text = %q, want empty", n.Text)
	}
	kids := n.Children()
	if len(kids) != 1 || kids[0].Kind != KindParagraph {
		t.Fatalf("children = %v, want one paragraph", kids)
	}
	if got := kids[0].Content(); got != "some text\nmore text" {
		t.Errorf("Content() = %q", got)
	}
}

func TestSigilDelegation(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{"note :+\n    text\n", KindParagraph},
		{"note :.\n    text\n", KindParagraph},
		{"note :-\n    text\n", KindText},
		{"note:\n    text\n", KindText},
		{"note {\n    text\n}\n", KindCode},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root := ParseString(tt.src)
			note := root.Find("note")
			if note == nil {
				note = root
			}
			kids := note.Children()
			if len(kids) != 1 || kids[0].Kind != tt.kind {
				t.Fatalf("children = %v, want one %v", kids, tt.kind)
			}
			if got := kids[0].Content(); got != "text" {
				t.Errorf("Content() = %q, want text", got)
			}
		})
	}
}

func TestTextGrammarOption(t *testing.T) {
	n := ParseString("note:\n    - item\n", WithTextGrammar("blocktext"))
	kids := n.Children()
	if len(kids) != 1 || kids[0].Kind != KindQuote || kids[0].Sigil != "-" {
		t.Errorf("children = %v, want one quote", kids)
	}
}

func TestCodeBlock(t *testing.T) {
	root := ParseString("code { perl\n    print 1;\n}\nafter\n")
	code := root.Find("code")
	if code == nil {
		t.Fatal("code not found")
	}
	if code.CodeTag != "perl" {
		t.Errorf("CodeTag = %q, want perl", code.CodeTag)
	}
	kids := code.Children()
	if len(kids) != 1 || kids[0].Kind != KindCode {
		t.Fatalf("children = %v", kids)
	}
	if kids[0].Closer != "}" {
		t.Errorf("Closer = %q, want }", kids[0].Closer)
	}
	if got := kids[0].Content(); got != "print 1;" {
		t.Errorf("Content() = %q", got)
	}
	if root.Find("after") == nil {
		t.Error("line after the closer was swallowed")
	}
}

func TestEmptyCodeBlock(t *testing.T) {
	n := ParseString("code {\n}\n")
	kids := n.Children()
	if len(kids) != 1 || kids[0].Body != nil || kids[0].Closer != "}" {
		t.Errorf("children = %+v", kids)
	}
}

func TestCodeBlockUnindents(t *testing.T) {
	src := "    x {\n  shallow\n        deep\n    }\n"
	root := ParseString("wrap\n" + src)
	x := root.Find("x")
	code := x.Children()[0]
	if got := code.Content(); got != "shallow\n      deep" {
		t.Errorf("Content() = %q", got)
	}
}

func TestCustomSigil(t *testing.T) {
	src := "sql %\n    select 1\n%\n"
	root := ParseString(src, WithSigil("%", "code", "%"))
	if got := root.Canon(); got != src {
		t.Errorf("Canon() = %q, want %q", got, src)
	}
	if kids := root.Children(); len(kids) != 1 || kids[0].Kind != KindCode {
		t.Errorf("children = %v", kids)
	}
}

func TestUnknownGrammarFallsBackToText(t *testing.T) {
	n := ParseString("x ~\n    y\n", WithSigil("~", "nope", ""))
	kids := n.Children()
	if len(kids) != 1 || kids[0].Kind != KindText {
		t.Errorf("children = %v, want one text node", kids)
	}
}

func TestTextplusEscape(t *testing.T) {
	root := ParseString("doc :+\n    para\n    +ref target: x\n")
	kids := root.Children()
	if len(kids) != 2 {
		t.Fatalf("children = %v, want 2", kids)
	}
	if kids[0].Kind != KindParagraph {
		t.Errorf("child 0 kind = %v, want Paragraph", kids[0].Kind)
	}
	ref := kids[1]
	if ref.Escape != "+" || ref.Tag != "ref" || ref.Name() != "target" || ref.Text != "x" {
		t.Errorf("escaped line = %+v", ref)
	}
}

func TestEscapeOption(t *testing.T) {
	src := "doc :+\n    @ref x\n"
	root := ParseString(src, WithEscape("@"))
	kids := root.Children()
	if len(kids) != 1 || kids[0].Escape != "@" || kids[0].Tag != "ref" {
		t.Fatalf("children = %v", kids)
	}
	if got := root.Canon(); got != src {
		t.Errorf("Canon() = %q, want %q", got, src)
	}
}

func TestBlocktextSegmentation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"one blank", "Some paragraph\ntext.\n\n- foo\n"},
		{"two blanks", "Some paragraph\ntext.\n\n\n- foo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := ParseString(tt.src, WithGrammar("blocktext"))
			kids := root.Children()
			if len(kids) != 3 {
				t.Fatalf("got %d nodes, want 3: %v", len(kids), kids)
			}
			want := []Kind{KindParagraph, KindSeparator, KindQuote}
			for i, k := range want {
				if kids[i].Kind != k {
					t.Errorf("node %d kind = %v, want %v", i, kids[i].Kind, k)
				}
			}
			if !kids[2].IsSigiled() || kids[2].Sigil != "-" {
				t.Errorf("quote sigil = %q", kids[2].Sigil)
			}
		})
	}
}

func TestTrailingBlankMakesNoSeparator(t *testing.T) {
	root := ParseString("para\n\n", WithGrammar("blocktext"))
	if root.Kind != KindParagraph {
		t.Errorf("root kind = %v, want Paragraph", root.Kind)
	}
}

func TestBlankRunBetweenChildren(t *testing.T) {
	n := ParseString("a\n    b\n\n\n    c\n")
	kids := n.Children()
	if len(kids) != 3 || !kids[1].IsSeparator() {
		t.Errorf("children = %v, want b, separator, c", kids)
	}
}

func TestSigilModifiers(t *testing.T) {
	sigils := DefaultSigils()
	tests := []struct {
		sigil string
		want  SigilInfo
	}{
		{":+", SigilInfo{Sigil: ":+", Base: ":+", Grammar: "textplus", Known: true}},
		{"{", SigilInfo{Sigil: "{", Base: "{", Grammar: "code", Closer: "}", Known: true}},
		{"<<:", SigilInfo{Sigil: "<<:", Base: ":", ZeroWidth: true, Known: true}},
		{":>", SigilInfo{Sigil: ":>", Base: ":", Flow: true, Known: true}},
		{":+,", SigilInfo{Sigil: ":+,", Base: ":+", Grammar: "textplus", ParaBreak: true, Known: true}},
		{">", SigilInfo{Sigil: ">", Base: ">"}},
		{"~", SigilInfo{Sigil: "~", Base: "~"}},
	}

	for _, tt := range tests {
		t.Run(tt.sigil, func(t *testing.T) {
			if got := sigils.Lookup(tt.sigil); got != tt.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.sigil, got, tt.want)
			}
		})
	}
}

func TestTablesArePerDocument(t *testing.T) {
	a := NewDocument(WithSigil("%", "code", "%"))
	b := NewDocument()
	if !a.Sigil("%").Known {
		t.Error("custom sigil missing from its document")
	}
	if b.Sigil("%").Known {
		t.Error("custom sigil leaked into another document")
	}
}
