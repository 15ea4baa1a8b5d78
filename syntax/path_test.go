package syntax

import (
	"errors"
	"testing"
)

const pathSource = "n\n    t one\n    t two\n    not t\n    t something\n        x\n"

func TestLoc(t *testing.T) {
	root := ParseString(pathSource)

	tests := []struct {
		path string
		line string
	}{
		{"t(one)", "t one"},
		{"(3)", "t something"},
		{"t(2)", "t something"},
		{"t", "t one"},
		{"t(1)", "t two"},
		{"not", "not t"},
		{"t(something).x", "x"},
		{"t(something)/x", "x"},
		{"t(something)-x", "x"},
		{"(3).(0)", "x"},
		{"", "n"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := root.Loc(tt.path)
			if err != nil {
				t.Fatalf("Loc(%q): %v", tt.path, err)
			}
			if got := n.CanonLine(); got != tt.line {
				t.Errorf("Loc(%q) = %q, want %q", tt.path, got, tt.line)
			}
		})
	}
}

func TestLocNotFound(t *testing.T) {
	root := ParseString(pathSource)
	for _, path := range []string{"t(none)", "(9)", "t(5)", "missing", "t(one).x"} {
		_, err := root.Loc(path)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Loc(%q) error = %v, want ErrNotFound", path, err)
		}
		var pe *PathError
		if !errors.As(err, &pe) || pe.Path != path {
			t.Errorf("Loc(%q) error = %#v, want *PathError", path, err)
		}
	}
}

func TestPath(t *testing.T) {
	root := ParseString(pathSource)
	tests := []struct {
		path string
		want string
	}{
		{"t(one)", "t(one)"},
		{"t(1)", "t(two)"},
		{"not", "not(t)"},
		{"(3)", "t(something)"},
		{"(3).x", "t(something).x"},
	}

	for _, tt := range tests {
		n, err := root.Loc(tt.path)
		if err != nil {
			t.Fatalf("Loc(%q): %v", tt.path, err)
		}
		if got := n.Path(); got != tt.want {
			t.Errorf("Path() of %q = %q, want %q", tt.path, got, tt.want)
		}
	}
	if root.Path() != "" {
		t.Errorf("root Path() = %q, want empty", root.Path())
	}
}

func TestPathRoundTrips(t *testing.T) {
	root := ParseString("a\n    t\n    t\n    - x\n    t 12\n    t dup\n    t dup\n")
	Inspect(root, func(n *Node) bool {
		if n == root || n.IsSeparator() {
			return true
		}
		got, err := root.Loc(n.Path())
		if err != nil {
			t.Errorf("Loc(%q): %v", n.Path(), err)
		} else if got != n {
			t.Errorf("Loc(%q) = %q, want %q", n.Path(), got.CanonLine(), n.CanonLine())
		}
		return true
	})
}

func TestPathSkipsSeparatorsAndContainers(t *testing.T) {
	root := ParseString("a\n\nb\n\nc\n")
	if root.Kind != KindContainer {
		t.Fatalf("root kind = %v, want Container", root.Kind)
	}
	c, err := root.Loc("(2)")
	if err != nil || c.Tag != "c" {
		t.Fatalf("Loc((2)) = %v, %v", c, err)
	}
	if c.Path() != "c" {
		t.Errorf("Path() = %q, want c", c.Path())
	}

	inner := NewContainer()
	inner.Add(NewNode("d"))
	root.Add(inner)
	d, err := root.Loc("(3)")
	if err != nil || d.Tag != "d" {
		t.Errorf("Loc((3)) through container = %v, %v", d, err)
	}
	if d != nil && d.Path() != "d" {
		t.Errorf("Path() = %q, want d", d.Path())
	}
}

func TestPathInvalidation(t *testing.T) {
	root := ParseString("list\n    b\n")
	b := root.Find("b")
	if b.Path() != "b" {
		t.Fatalf("Path() = %q, want b", b.Path())
	}
	root.AddAt(0, NewNode("b"))
	if got := b.Path(); got != "b(1)" {
		t.Errorf("Path() after insert = %q, want b(1)", got)
	}
	root.Children()[0].Delete()
	if got := b.Path(); got != "b" {
		t.Errorf("Path() after delete = %q, want b", got)
	}
}

func TestFind(t *testing.T) {
	root := ParseString(pathSource)
	if got := len(root.FindAll("t")); got != 3 {
		t.Errorf("FindAll(t) = %d nodes, want 3", got)
	}
	if root.Find("nope") != nil {
		t.Error("Find(nope) != nil")
	}
}
