package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/chomp/ebnf/parse"
)

// LineEncoder writes one tab-separated line per node in depth-first order:
// depth, kind, span and, for leaves, the quoted text.
type LineEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.node != nil {
		e.writeNode(&sb, e.node, 0)
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, n *parse.Node, depth int) {
	fmt.Fprintf(sb, "%d\t%s\t%d:%d-%d:%d",
		depth,
		n.Kind,
		n.Span.Start.Line, n.Span.Start.Column,
		n.Span.End.Line, n.Span.End.Column,
	)
	if n.IsTerminal() {
		fmt.Fprintf(sb, "\t%q", n.Text)
	}
	sb.WriteByte('\n')

	for _, child := range n.Children {
		e.writeNode(sb, child, depth+1)
	}
}
