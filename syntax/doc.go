// Package syntax parses tagged notation into a mutable tree and renders the
// tree back to text.
//
// # Notation
//
// Every non-blank line is a node. The line holds, in this order, an optional
// tag, names, an in-parameter list in parentheses, an ex-parameter list in
// square brackets, quoted strings, inline code segments in braces or angle
// brackets, and either a sigil with optional inline text or a comment:
//
//	section intro (draft, level=2) [id=s1] "Title" {x = 1} # note
//	para :+ Some text
//
// Lines indented deeper than a node belong to it. What they become depends
// on the node's sigil:
//
//	list
//	    item one
//	    item two
//	note :+
//	    A paragraph of text.
//
//	    - a quote
//	    +ref target: escaped tagged line
//	code { go
//	    fmt.Println("hi")
//	}
//
// A node without a sigil or with inline text has tagged children. A sigil
// without inline text hands the deeper lines to its grammar. Inline text
// that continues on lines indented at least to its column is part of the
// node.
//
// # Documents
//
// A Document is a window over source lines. Subdocuments carve extents out
// of it by line range and column offset; the text nodes of the tree keep a
// frozen subdocument as their body, so rendering reproduces the original
// wrapping.
//
//	root := syntax.ParseString(src)
//	n, err := root.Loc("section(intro).para(1)")
//	fmt.Print(root.Canon())
//
// # Grammars
//
// The grammar set is closed: Tagged, Text, Code, Blocktext and Textplus.
// Documents map sigils to grammar names and grammar names to grammars; both
// tables are per-document options and are inherited by subdocuments.
//
// # Paths
//
// Path elements are separated by '.', '/' or '-'. tag addresses the first
// child with that tag, tag(name) the child named name, tag(i) the i-th child
// with that tag and (i) the i-th child. Separators do not count and
// invisible containers are looked through.
package syntax
