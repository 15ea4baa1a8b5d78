// Package format encodes parsed trees: as canonical source text, as a JSON
// or YAML description of the nodes, or as one line per addressable node.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/tagline/syntax"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *syntax.Node) error
}

// Names lists the encoders New knows.
var Names = []string{"canon", "json", "yaml", "lines"}

// New returns the encoder called name writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "canon":
		return NewCanonEncoder(w), nil
	case "json":
		return NewTreeJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

type CanonEncoder struct {
	w    io.Writer
	node *syntax.Node
}

func NewCanonEncoder(w io.Writer) *CanonEncoder {
	return &CanonEncoder{w: w}
}

func (e *CanonEncoder) Encode(node *syntax.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *CanonEncoder) MarshalText() ([]byte, error) {
	return []byte(e.node.Canon()), nil
}
