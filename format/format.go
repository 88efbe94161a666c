// Package format encodes concrete syntax trees for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/chomp/ebnf/parse"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *parse.Node) error
}

// NewEncoder returns the encoder registered under name: "tree", "line" or
// "json".
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "tree", "":
		return NewTreeEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}

type TreeEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return nil, nil
	}
	return []byte(e.node.String()), nil
}
