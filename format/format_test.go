package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/tagline/syntax"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	for _, name := range Names {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) succeeded")
	}
}

func TestCanonEncoder(t *testing.T) {
	src := "a (k=v)\n    b: text\n"
	var out bytes.Buffer
	if err := NewCanonEncoder(&out).Encode(syntax.ParseString(src)); err != nil {
		t.Fatal(err)
	}
	if out.String() != src {
		t.Errorf("output = %q, want %q", out.String(), src)
	}
}

func TestTreeJSONEncoder(t *testing.T) {
	root := syntax.ParseString("a (k=v, flag) 'q'\n    b\n")
	var out bytes.Buffer
	if err := NewTreeJSONEncoder(&out).Encode(root); err != nil {
		t.Fatal(err)
	}

	var got treeNode
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.Kind != "Tagged" || got.Tag != "a" || got.Line != 1 {
		t.Errorf("root = %+v", got)
	}
	if len(got.In) != 2 || got.In[0].Value == nil || *got.In[0].Value != "v" || got.In[1].Value != nil {
		t.Errorf("in = %+v", got.In)
	}
	if len(got.Strings) != 1 || got.Strings[0] != "q" {
		t.Errorf("strings = %v", got.Strings)
	}
	if len(got.Children) != 1 || got.Children[0].Path != "b" {
		t.Errorf("children = %+v", got.Children)
	}
}

func TestYAMLEncoder(t *testing.T) {
	root := syntax.ParseString("doc :+\n    hello\n    world\n")
	var out bytes.Buffer
	if err := NewYAMLEncoder(&out).Encode(root); err != nil {
		t.Fatal(err)
	}

	var got treeNode
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if got.Tag != "doc" || got.Sigil != ":+" {
		t.Errorf("root = %+v", got)
	}
	if len(got.Children) != 1 {
		t.Fatalf("children = %+v", got.Children)
	}
	para := got.Children[0]
	if para.Kind != "Paragraph" || para.Text != "hello\nworld" || para.Path != "(0)" {
		t.Errorf("paragraph = %+v", para)
	}
}

func TestLineEncoder(t *testing.T) {
	root := syntax.ParseString("a\n    b\n\n    c: hi\n")
	var out bytes.Buffer
	if err := NewLineEncoder(&out).Encode(root); err != nil {
		t.Fatal(err)
	}
	want := ".\ttagged\t1\ta\n" +
		"b\ttagged\t2\tb\n" +
		"c\ttagged\t4\tc: hi\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
}
