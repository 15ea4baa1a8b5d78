package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dhamidi/tagline/syntax"
	"gopkg.in/yaml.v3"
)

type TreeJSONEncoder struct {
	w    io.Writer
	node *syntax.Node
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(node *syntax.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *TreeJSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(nodeToTree(e.node), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type YAMLEncoder struct {
	w    io.Writer
	node *syntax.Node
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(node *syntax.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nodeToTree(e.node)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type treeNode struct {
	Kind     string        `json:"kind" yaml:"kind"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Line     int           `json:"line,omitempty" yaml:"line,omitempty"`
	Tag      string        `json:"tag,omitempty" yaml:"tag,omitempty"`
	Pseudo   string        `json:"pseudo,omitempty" yaml:"pseudo,omitempty"`
	Names    []string      `json:"names,omitempty" yaml:"names,omitempty"`
	In       []treeParam   `json:"in,omitempty" yaml:"in,omitempty"`
	Ex       []treeParam   `json:"ex,omitempty" yaml:"ex,omitempty"`
	Strings  []string      `json:"strings,omitempty" yaml:"strings,omitempty"`
	Code     []treeSegment `json:"code,omitempty" yaml:"code,omitempty"`
	Sigil    string        `json:"sigil,omitempty" yaml:"sigil,omitempty"`
	CodeTag  string        `json:"codeTag,omitempty" yaml:"codeTag,omitempty"`
	Escape   string        `json:"escape,omitempty" yaml:"escape,omitempty"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Closer   string        `json:"closer,omitempty" yaml:"closer,omitempty"`
	Comment  string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Children []*treeNode   `json:"children,omitempty" yaml:"children,omitempty"`
}

type treeParam struct {
	Key   string  `json:"key" yaml:"key"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

type treeSegment struct {
	Open string `json:"open" yaml:"open"`
	Text string `json:"text" yaml:"text"`
}

func paramsToTree(params syntax.Params) []treeParam {
	var out []treeParam
	for _, p := range params {
		tp := treeParam{Key: p.Key}
		if p.HasValue {
			v := p.Value
			tp.Value = &v
		}
		out = append(out, tp)
	}
	return out
}

func nodeToTree(n *syntax.Node) *treeNode {
	tn := &treeNode{
		Kind:    n.Kind.String(),
		Line:    n.Line,
		Tag:     n.Tag,
		Pseudo:  n.Pseudo,
		Names:   n.Names,
		In:      paramsToTree(n.In),
		Ex:      paramsToTree(n.Ex),
		Sigil:   n.Sigil,
		CodeTag: n.CodeTag,
		Escape:  n.Escape,
		Text:    n.Content(),
		Closer:  n.Closer,
	}
	if !n.Invisible && !n.IsSeparator() {
		tn.Path = n.Path()
	}
	for _, s := range n.Strings {
		tn.Strings = append(tn.Strings, s.Value())
	}
	for _, seg := range n.Code {
		tn.Code = append(tn.Code, treeSegment{Open: seg.Open, Text: seg.Text})
	}
	if n.Comment != nil {
		tn.Comment = n.Comment.Text
	}
	for _, e := range n.Errors {
		tn.Errors = append(tn.Errors, e.Text)
	}

	children := n.Children()
	if len(children) > 0 {
		tn.Children = make([]*treeNode, len(children))
		for i, child := range children {
			tn.Children[i] = nodeToTree(child)
		}
	}
	return tn
}
