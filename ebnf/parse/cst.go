// Package parse runs EBNF grammars over text, producing concrete syntax trees.
//
// Grammars run as ordered choice: of the alternatives of an expression the
// first that matches is kept, and the parse never returns to try a later
// one. Repetitions and options are greedy in the same way. Text that only a
// later alternative fits is rejected, so list longer alternatives first.
package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/chomp/ebnf/lex"
)

// Span represents a range in source code.
type Span struct {
	Start lex.Position
	End   lex.Position
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes carry Text; interior nodes have Children.
type Node struct {
	Kind     string  // Production name, or the quoted literal for inline tokens
	Children []*Node // Child nodes (nil for terminals)
	Text     string  // Matched source text (terminals only)
	Span     Span    // Source span covering this node
	terminal bool
}

// IsTerminal returns true if this is a leaf node.
func (n *Node) IsTerminal() bool {
	return n.terminal
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// NewTerminal creates a leaf node for text matched at span.
func NewTerminal(kind, text string, span Span) *Node {
	return &Node{
		Kind:     kind,
		Text:     text,
		Span:     span,
		terminal: true,
	}
}

// NewNonTerminal creates an interior node positioned at pos until children
// are added.
func NewNonTerminal(kind string, pos lex.Position) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: pos, End: pos},
	}
}

// Find returns the first node of the given kind in depth-first order.
func (n *Node) Find(kind string) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(kind); found != nil {
			return found
		}
	}
	return nil
}

// WriteTo writes an indented dump of the tree.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	n.dump(&b, 0)
	written, err := io.WriteString(w, b.String())
	return int64(written), err
}

func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.terminal {
		fmt.Fprintf(b, "%s %q @%s\n", n.Kind, n.Text, n.Span.Start)
		return
	}
	fmt.Fprintf(b, "%s @%s\n", n.Kind, n.Span.Start)
	for _, child := range n.Children {
		child.dump(b, depth+1)
	}
}
