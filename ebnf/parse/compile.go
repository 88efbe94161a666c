package parse

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/dhamidi/chomp/combinator"
	"github.com/dhamidi/chomp/ebnf/lex"
	"golang.org/x/exp/ebnf"
)

type (
	cursor     = *combinator.Cursor[rune]
	failure    = *combinator.Error[rune]
	nodeParser = combinator.Parser[rune, []*Node]
)

// maxExpandedRange is the widest character range compiled to OneOf.
const maxExpandedRange = 256

// pollMask sets how often the context is consulted, in production and
// repetition steps.
const pollMask = 1<<10 - 1

// compiler builds the parser graph of a grammar for one source text.
//
// Every expression compiles to a parser producing a list of nodes, so
// sequences and repetitions only need to concatenate. Lexical productions
// run their body in Check mode and produce a single leaf.
//
// Alternatives are ordered: the first one to match wins and later ones are
// never tried, even if the rest of the input would only fit them.
type compiler struct {
	grammar  ebnf.Grammar
	index    *lex.Index
	src      string
	prods    map[string]*production
	skipName string
	skip     nodeParser

	// deepest error swallowed by an option or repetition
	furthest failure

	// results of productions by start position
	memo map[memoKey]memoEntry
	// left recursion guard hits so far; results depending on one are not
	// memoized
	recursions int

	ctx     context.Context
	steps   int
	aborted error
}

type memoKey struct {
	prod *production
	pos  combinator.Position
	emit bool
}

type memoEntry struct {
	out []*Node
	err failure
	end combinator.Checkpoint
}

func newCompiler(ctx context.Context, g ebnf.Grammar, index *lex.Index, skip string) *compiler {
	cp := &compiler{
		grammar:  g,
		index:    index,
		src:      index.Source(),
		prods:    make(map[string]*production),
		skipName: skip,
		memo:     make(map[memoKey]memoEntry),
		ctx:      ctx,
	}
	if skip != "" {
		cp.skip = cp.production(skip)
	}
	return cp
}

// root parses start, then trailing trivia and the end of input unless
// partial is set.
func (cp *compiler) root(start string, partial bool) nodeParser {
	main := cp.production(start)
	end := combinator.End[rune]()
	return combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		out, err := main.Go(c, m)
		if err != nil {
			return nil, err
		}
		if partial {
			return out, nil
		}
		cp.skipTrivia(c)
		if _, err := end.Go(c, m); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// production is a named rule. It is registered before its body is compiled
// so that recursive references resolve to it.
type production struct {
	cp      *compiler
	name    string
	lexical bool
	body    nodeParser
	active  map[combinator.Position]bool
}

func (cp *compiler) production(name string) *production {
	if p, ok := cp.prods[name]; ok {
		return p
	}
	p := &production{
		cp:      cp,
		name:    name,
		lexical: IsLexical(name) || name == cp.skipName,
		active:  make(map[combinator.Position]bool),
	}
	cp.prods[name] = p

	var expr ebnf.Expression
	if prod := cp.grammar[name]; prod != nil {
		expr = prod.Expr
	}
	p.body = cp.expr(expr, p.lexical)
	return p
}

func (p *production) Go(c cursor, m combinator.Mode) ([]*Node, failure) {
	cp := p.cp
	pos := c.Pos()
	if cp.interrupted() {
		return nil, stopped(c)
	}

	key := memoKey{prod: p, pos: pos, emit: m.Emits()}
	if e, ok := cp.memo[key]; ok {
		c.Rewind(e.end)
		return e.out, e.err
	}

	if p.active[pos] {
		// left recursion: fail this branch instead of looping
		cp.recursions++
		return nil, stopped(c)
	}
	p.active[pos] = true
	recursions := cp.recursions

	out, err := p.match(c, m, pos)

	delete(p.active, pos)
	if cp.recursions == recursions && cp.aborted == nil {
		cp.memo[key] = memoEntry{out: out, err: err, end: c.Save()}
	}
	return out, err
}

func (p *production) match(c cursor, m combinator.Mode, pos combinator.Position) ([]*Node, failure) {
	if p.lexical {
		start := c.Save()
		if _, err := p.body.Go(c, combinator.Check{}); err != nil {
			return nil, err
		}
		span := c.SpanSince(start)
		return combinator.Bind(m, func() []*Node {
			return []*Node{p.cp.terminal(p.name, span)}
		}), nil
	}

	children, err := p.body.Go(c, m)
	if err != nil {
		return nil, err
	}
	return combinator.Bind(m, func() []*Node {
		node := NewNonTerminal(p.name, p.cp.index.Position(int(pos)))
		for _, child := range children {
			node.AddChild(child)
		}
		return []*Node{node}
	}), nil
}

// stopped is the failure of a branch that was cut short without reading.
func stopped(c cursor) failure {
	pos := c.Pos()
	return combinator.ExpectedFound(nil, c.Peek(), combinator.Span{Start: pos, End: pos})
}

// interrupted reports whether the context was cancelled, consulting it
// every few steps. Once it has, every production fails immediately so the
// parse unwinds.
func (cp *compiler) interrupted() bool {
	if cp.aborted != nil {
		return true
	}
	if cp.steps&pollMask == 0 {
		if err := cp.ctx.Err(); err != nil {
			cp.aborted = err
			return true
		}
	}
	cp.steps++
	return false
}

// expr compiles an expression. lexical is set inside lexical productions,
// where no trivia is skipped and no nodes are built.
func (cp *compiler) expr(expr ebnf.Expression, lexical bool) nodeParser {
	switch e := expr.(type) {
	case nil:
		return combinator.Func[rune, []*Node](func(cursor, combinator.Mode) ([]*Node, failure) {
			return nil, nil
		})

	case *ebnf.Token:
		return terminal(cp, strconv.Quote(e.String), combinator.Just[rune](combinator.Str(e.String)), lexical)

	case *ebnf.Range:
		kind := fmt.Sprintf("%q…%q", e.Begin.String, e.End.String)
		return terminal(cp, kind, charRange(e), lexical)

	case ebnf.Alternative:
		alts := make([]nodeParser, len(e))
		for i, alt := range e {
			alts[i] = cp.expr(alt, lexical)
		}
		return combinator.Choice(alts...)

	case ebnf.Sequence:
		steps := make([]nodeParser, len(e))
		for i, step := range e {
			steps[i] = cp.expr(step, lexical)
		}
		return concat(combinator.GroupAll(steps...))

	case *ebnf.Group:
		return cp.expr(e.Body, lexical)

	case *ebnf.Option:
		return cp.optional(cp.expr(e.Body, lexical))

	case *ebnf.Repetition:
		return cp.repeated(cp.expr(e.Body, lexical))

	case *ebnf.Name:
		p := cp.production(e.String)
		if !lexical && p.lexical {
			return cp.skipped(p)
		}
		return p

	default:
		// *ebnf.Bad never survives ebnf.Parse
		return combinator.Func[rune, []*Node](func(c cursor, _ combinator.Mode) ([]*Node, failure) {
			return nil, stopped(c)
		})
	}
}

// terminal wraps a matcher so it yields a leaf node, skipping trivia first
// when used outside lexical productions.
func terminal[O any](cp *compiler, kind string, match combinator.Parser[rune, O], lexical bool) nodeParser {
	leaf := combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		start := c.Save()
		if _, err := match.Go(c, m); err != nil {
			return nil, err
		}
		if lexical {
			return nil, nil
		}
		span := c.SpanSince(start)
		return combinator.Bind(m, func() []*Node {
			return []*Node{cp.terminal(kind, span)}
		}), nil
	})
	if lexical {
		return leaf
	}
	return cp.skipped(leaf)
}

func (cp *compiler) terminal(kind string, span combinator.Span) *Node {
	return NewTerminal(kind, cp.src[span.Start:span.End], Span{
		Start: cp.index.Position(int(span.Start)),
		End:   cp.index.Position(int(span.End)),
	})
}

// charRange matches one rune between the bounds of r, inclusive.
func charRange(r *ebnf.Range) combinator.Parser[rune, rune] {
	lo, _ := utf8.DecodeRuneInString(r.Begin.String)
	hi, _ := utf8.DecodeRuneInString(r.End.String)
	if hi-lo < maxExpandedRange {
		set := make([]rune, 0, hi-lo+1)
		for ch := lo; ch <= hi; ch++ {
			set = append(set, ch)
		}
		return combinator.OneOf[rune](combinator.Slice[rune](set))
	}
	return combinator.Func[rune, rune](func(c cursor, m combinator.Mode) (rune, failure) {
		before := c.Save()
		_, tok := c.Next()
		if ch, ok := tok.Get(); ok && ch >= lo && ch <= hi {
			return combinator.Bind(m, func() rune { return ch }), nil
		}
		return 0, combinator.ExpectedFound(nil, tok, c.SpanSince(before))
	})
}

func concat(group combinator.GroupAllParser[rune, []*Node]) nodeParser {
	return combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		parts, err := group.Go(c, m)
		if err != nil {
			return nil, err
		}
		return combinator.Map(m, parts, flatten), nil
	})
}

func flatten(parts [][]*Node) []*Node {
	var out []*Node
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

// optional matches body or nothing, rewinding a failed attempt.
func (cp *compiler) optional(body nodeParser) nodeParser {
	return combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		before := c.Save()
		out, err := body.Go(c, m)
		if err != nil {
			cp.swallow(err)
			c.Rewind(before)
			return nil, nil
		}
		return out, nil
	})
}

// repeated matches body zero or more times. It stops at the first failed
// attempt, which is rewound, or at an iteration that consumed nothing.
func (cp *compiler) repeated(body nodeParser) nodeParser {
	return combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		var out []*Node
		for {
			if cp.interrupted() {
				return nil, stopped(c)
			}
			before := c.Save()
			part, err := body.Go(c, m)
			if err != nil {
				cp.swallow(err)
				c.Rewind(before)
				return out, nil
			}
			if c.Pos() == before.Pos() {
				return out, nil
			}
			out = combinator.Map(m, out, func(out []*Node) []*Node {
				return append(out, part...)
			})
		}
	})
}

// swallow remembers err if it is the deepest failure seen so far, so a
// failed parse can report how far the input was understood.
func (cp *compiler) swallow(err failure) {
	if cp.furthest == nil {
		cp.furthest = err
		return
	}
	cp.furthest = deeper(cp.furthest, err)
}

// deeper keeps the failure located further into the input. Unlike
// combinator.Prioritize it compares where failures start, so a token that
// was read and rejected does not tie with a failure just after it.
func deeper(a, b failure) failure {
	switch {
	case a.Span.Start > b.Span.Start:
		return a
	case b.Span.Start > a.Span.Start:
		return b
	default:
		return a.Merge(b)
	}
}

// skipped runs the skip production zero or more times before p.
func (cp *compiler) skipped(p nodeParser) nodeParser {
	if cp.skip == nil {
		return p
	}
	return combinator.Func[rune, []*Node](func(c cursor, m combinator.Mode) ([]*Node, failure) {
		cp.skipTrivia(c)
		return p.Go(c, m)
	})
}

func (cp *compiler) skipTrivia(c cursor) {
	if cp.skip == nil {
		return
	}
	for {
		before := c.Save()
		if _, err := cp.skip.Go(c, combinator.Check{}); err != nil || c.Pos() == before.Pos() {
			c.Rewind(before)
			return
		}
	}
}
