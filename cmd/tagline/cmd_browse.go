package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/tagline/syntax"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const browseHistoryFile = ".tagline_history"

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Walk a document's tree interactively",
		Long: `Open an interactive shell on a parsed document.

Commands:
  ls          list the children of the current node
  cd PATH     move to PATH below the current node; ".." moves up, no PATH moves to the top
  cat [PATH]  print the subtree at PATH in canonical form
  pwd         print the path of the current node
  quit        leave the shell`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := parseInput(args)
			if err != nil {
				return err
			}
			return runBrowser(doc.Root(), os.Stdout)
		},
	}
}

type browser struct {
	root *syntax.Node
	cur  *syntax.Node
	out  io.Writer
}

func runBrowser(root *syntax.Node, out io.Writer) error {
	b := &browser{root: root, cur: root, out: out}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, browseHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(b.complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(b.prompt())
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if done := b.exec(line); done {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

func (b *browser) prompt() string {
	path := b.cur.Path()
	if path == "" {
		path = "."
	}
	return path + "> "
}

// exec runs one command line and reports whether the shell should exit.
func (b *browser) exec(line string) bool {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "ls":
		for _, child := range b.cur.VisibleChildren() {
			fmt.Fprintf(b.out, "%-16s %d\t%s\n", b.element(child), child.Line, child.CanonLine())
		}
	case "cd":
		n, err := b.resolve(arg)
		if err != nil {
			fmt.Fprintln(b.out, err)
			break
		}
		b.cur = n
	case "cat":
		n, err := b.resolve(arg)
		if err != nil {
			fmt.Fprintln(b.out, err)
			break
		}
		fmt.Fprint(b.out, n.Canon())
	case "pwd":
		fmt.Fprintln(b.out, strings.TrimSuffix(b.prompt(), "> "))
	default:
		fmt.Fprintf(b.out, "unknown command %q\n", fields[0])
	}
	return false
}

func (b *browser) resolve(arg string) (*syntax.Node, error) {
	switch arg {
	case "":
		return b.root, nil
	case "..":
		if p := visibleParent(b.cur); p != nil {
			return p, nil
		}
		return b.root, nil
	case ".":
		return b.cur, nil
	}
	return b.cur.Loc(arg)
}

// element is the last path element of child below the current node.
func (b *browser) element(child *syntax.Node) string {
	prefix := b.cur.Path()
	path := child.Path()
	if prefix == "" {
		return path
	}
	return strings.TrimPrefix(path, prefix+".")
}

func (b *browser) complete(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(line, " ")) {
		var out []string
		for _, cmd := range []string{"cat", "cd", "exit", "ls", "pwd", "quit"} {
			if strings.HasPrefix(cmd, line) {
				out = append(out, cmd)
			}
		}
		return out
	}
	prefix := ""
	if len(fields) > 1 {
		prefix = fields[1]
	}
	var out []string
	for _, child := range b.cur.VisibleChildren() {
		if elem := b.element(child); strings.HasPrefix(elem, prefix) {
			out = append(out, fields[0]+" "+elem)
		}
	}
	return out
}

func visibleParent(n *syntax.Node) *syntax.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !p.Invisible {
			return p
		}
	}
	return nil
}
