package parse

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/chomp/combinator"
	"github.com/dhamidi/chomp/ebnf/lex"
)

var log = commonlog.GetLogger("chomp.parse")

// Parser runs a verified grammar over source text.
//
// A Parser holds no per-input state and may be shared between goroutines.
// Each call compiles a fresh combinator graph for the input it is given,
// and remembers the result of each production at each position so that
// alternatives sharing a prefix do not parse it again.
//
// Alternatives are tried in order and the first to match is kept. A later
// alternative is not revisited when the text after the match fails, so
// list longer alternatives before their prefixes: with
// S = "a" "b" | "a" both "a" and "ab" are accepted, with S = "a" | "a" "b"
// only "a" is.
type Parser struct {
	grammar ebnf.Grammar
	start   string
	skip    string
	partial bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithSkip names a production matched zero or more times before every
// terminal, and before the end of input.
func WithSkip(name string) Option {
	return func(p *Parser) {
		p.skip = name
	}
}

// WithPartial accepts input with trailing text after the start production.
func WithPartial() Option {
	return func(p *Parser) {
		p.partial = true
	}
}

// Config names a grammar file and how to run it.
type Config struct {
	Grammar string
	Start   string
	Skip    string
	Partial bool
}

// Load reads the grammar file and returns a parser for it.
func (cfg Config) Load() (*Parser, error) {
	if cfg.Grammar == "" {
		return nil, errors.New("no grammar file configured")
	}
	g, err := LoadGrammar(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	var opts []Option
	if cfg.Skip != "" {
		opts = append(opts, WithSkip(cfg.Skip))
	}
	if cfg.Partial {
		opts = append(opts, WithPartial())
	}
	return NewParser(g, cfg.Start, opts...)
}

// NewParser verifies g and returns a parser for its start production.
func NewParser(g ebnf.Grammar, start string, opts ...Option) (*Parser, error) {
	p := &Parser{grammar: g, start: start}
	for _, opt := range opts {
		opt(p)
	}

	names := []string{p.start}
	if p.skip != "" {
		names = append(names, p.skip)
	}
	for _, name := range names {
		if _, ok := g[name]; !ok {
			return nil, &UnknownProductionError{Name: name, Known: Productions(g)}
		}
	}

	if err := Verify(g, ""); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	log.Debugf("grammar ready: %d productions, start %q, skip %q", len(g), p.start, p.skip)
	return p, nil
}

// Start returns the start production.
func (p *Parser) Start() string {
	return p.start
}

// Productions returns the names of all productions in the grammar.
func (p *Parser) Productions() []string {
	return Productions(p.grammar)
}

// Parse parses src and returns its syntax tree.
func (p *Parser) Parse(filename, src string) (*Node, error) {
	return p.ParseContext(context.Background(), filename, src)
}

// ParseContext is Parse, giving up with ctx's error once ctx is done.
func (p *Parser) ParseContext(ctx context.Context, filename, src string) (*Node, error) {
	out, err := p.run(ctx, filename, src, combinator.Emit{})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Check reports whether src matches the grammar without building a tree.
// It fails exactly when Parse fails, with the same error.
func (p *Parser) Check(filename, src string) error {
	return p.CheckContext(context.Background(), filename, src)
}

// CheckContext is Check, giving up with ctx's error once ctx is done.
func (p *Parser) CheckContext(ctx context.Context, filename, src string) error {
	_, err := p.run(ctx, filename, src, combinator.Check{})
	return err
}

func (p *Parser) run(ctx context.Context, filename, src string, m combinator.Mode) ([]*Node, error) {
	index := lex.NewIndex(filename, src)
	cp := newCompiler(ctx, p.grammar, index, p.skip)
	root := cp.root(p.start, p.partial)

	out, err := root.Go(combinator.NewCursor[rune](combinator.Text(src)), m)
	if cp.aborted != nil {
		return nil, fmt.Errorf("%s: %w", filename, cp.aborted)
	}
	if err != nil {
		if cp.furthest != nil {
			err = deeper(err, cp.furthest)
		}
		log.Debugf("%s: %s failed at offset %d", filename, m, err.Span.Start)
		return nil, &SyntaxError{Err: err, Index: index}
	}
	return out, nil
}

// UnknownProductionError reports a production name missing from a grammar.
type UnknownProductionError struct {
	Name  string
	Known []string
}

func (e *UnknownProductionError) Error() string {
	return fmt.Sprintf("production %q not found in grammar", e.Name)
}

// SyntaxError is a parse failure located in the source text.
type SyntaxError struct {
	Err   *combinator.Error[rune]
	Index *lex.Index
}

// Position returns where the failing token starts.
func (e *SyntaxError) Position() lex.Position {
	return e.Index.Position(int(e.Err.Span.Start))
}

// End returns where the failing token ends.
func (e *SyntaxError) End() lex.Position {
	return e.Index.Position(int(e.Err.Span.End))
}

// Message describes the failure without its location.
func (e *SyntaxError) Message() string {
	if len(e.Err.Expected) == 0 {
		return fmt.Sprintf("unexpected %s", e.Err.Found)
	}
	return fmt.Sprintf("expected %s, found %s", combinator.JoinExpected(e.Err.Expected), e.Err.Found)
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position(), e.Message())
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Errors flattens the error lists reported by the ebnf package so each
// problem can be printed on its own line.
func Errors(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		list := make([]error, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				list = append(list, item)
			}
		}
		return list
	}
	if err == nil {
		return nil
	}
	return []error{err}
}
