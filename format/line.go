package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/tagline/syntax"
)

// LineEncoder lists every addressable node as
//
//	path<TAB>kind<TAB>line<TAB>canonical line
//
// in document order. Separators and invisible containers are left out.
type LineEncoder struct {
	w    io.Writer
	node *syntax.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *syntax.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	syntax.Inspect(e.node, func(n *syntax.Node) bool {
		if n.IsSeparator() || n.Invisible {
			return true
		}
		path := n.Path()
		if path == "" {
			path = "."
		}
		fmt.Fprintf(&sb, "%s\t%s\t%d\t%s\n",
			path,
			strings.ToLower(n.Kind.String()),
			n.Line,
			e.summary(n),
		)
		return true
	})
	return []byte(sb.String()), nil
}

func (e *LineEncoder) summary(n *syntax.Node) string {
	line := n.CanonLine()
	if line == "" {
		return "-"
	}
	return line
}
