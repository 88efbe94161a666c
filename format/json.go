package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/chomp/ebnf/lex"
	"github.com/dhamidi/chomp/ebnf/parse"
)

type JSONEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	return e.write(text)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return json.Marshal(nil)
	}
	return json.MarshalIndent(nodeToJSON(e.node), "", "  ")
}

// EncodeError writes a syntax error as a JSON object.
func (e *JSONEncoder) EncodeError(err *parse.SyntaxError) error {
	je := &jsonError{
		File:    err.Position().Filename,
		Message: err.Message(),
		Span:    jsonSpan{Start: positionToJSON(err.Position()), End: positionToJSON(err.End())},
		Found:   err.Err.Found.String(),
	}
	seen := make(map[string]bool)
	for _, exp := range err.Err.Expected {
		s := exp.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		je.Expected = append(je.Expected, s)
	}
	if err.Err.Found.IsNone() {
		je.Found = ""
		je.AtEnd = true
	}

	text, jsonErr := json.MarshalIndent(je, "", "  ")
	if jsonErr != nil {
		return jsonErr
	}
	return e.write(text)
}

func (e *JSONEncoder) write(text []byte) error {
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\n")
	return err
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Text     *string     `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	File     string   `json:"file,omitempty"`
	Message  string   `json:"message"`
	Span     jsonSpan `json:"span"`
	Expected []string `json:"expected,omitempty"`
	Found    string   `json:"found,omitempty"`
	AtEnd    bool     `json:"atEnd,omitempty"`
}

func positionToJSON(p lex.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func nodeToJSON(n *parse.Node) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind,
		Span: jsonSpan{Start: positionToJSON(n.Span.Start), End: positionToJSON(n.Span.End)},
	}

	if n.IsTerminal() {
		text := n.Text
		jn.Text = &text
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
