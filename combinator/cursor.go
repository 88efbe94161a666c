package combinator

import "unicode/utf8"

// Position is a location in an input, ordered by consumption progress.
// For token slices it is an index; for text it is a byte offset.
type Position int

// Span is the half-open range [Start, End) between two positions.
type Span struct {
	Start Position
	End   Position
}

// Len returns the number of positions covered by the span.
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// Input is an immutable, random-access token source.
//
// Next returns the token starting at pos and the position just past it.
// ok is false once pos has reached the end of the input.
type Input[T any] interface {
	Next(pos Position) (tok T, next Position, ok bool)
}

// Tokens adapts a slice to an Input. Positions are slice indices.
type Tokens[T any] []T

func (ts Tokens[T]) Next(pos Position) (T, Position, bool) {
	if int(pos) >= len(ts) {
		var zero T
		return zero, pos, false
	}
	return ts[pos], pos + 1, true
}

// Text adapts a string to an Input of runes. Positions are byte offsets into
// the string, so spans can slice the original text without copying.
type Text string

func (s Text) Next(pos Position) (rune, Position, bool) {
	if int(pos) >= len(s) {
		return 0, pos, false
	}
	r, size := utf8.DecodeRuneInString(string(s[pos:]))
	return r, pos + Position(size), true
}

// Checkpoint is a saved cursor state. Rewinding to it restores the cursor
// exactly as it was when the checkpoint was taken.
type Checkpoint struct {
	pos  Position
	last Position
}

// Pos returns the position the checkpoint was taken at.
func (c Checkpoint) Pos() Position {
	return c.pos
}

// Cursor tracks the read position over an Input.
//
// A cursor has one owner at a time: a parser is handed the cursor, and returns
// it either advanced or rewound. Cursors are not safe for concurrent use.
type Cursor[T any] struct {
	input Input[T]
	pos   Position
	last  Position
}

// NewCursor returns a cursor positioned at the start of input.
func NewCursor[T any](input Input[T]) *Cursor[T] {
	return &Cursor[T]{input: input}
}

// Save returns a checkpoint for the current state.
func (c *Cursor[T]) Save() Checkpoint {
	return Checkpoint{pos: c.pos, last: c.last}
}

// Rewind restores the state saved in cp. Rewinding to the same checkpoint
// more than once is allowed.
func (c *Cursor[T]) Rewind(cp Checkpoint) {
	c.pos = cp.pos
	c.last = cp.last
}

// Next reads one token. It returns the position before the read and the
// token, or None when the input is exhausted; in that case the cursor does
// not move.
func (c *Cursor[T]) Next() (Position, Maybe[T]) {
	at := c.pos
	c.last = at
	tok, next, ok := c.input.Next(at)
	if !ok {
		return at, None[T]()
	}
	c.pos = next
	return at, Some(tok)
}

// Peek returns the next token without consuming it.
func (c *Cursor[T]) Peek() Maybe[T] {
	tok, _, ok := c.input.Next(c.pos)
	if !ok {
		return None[T]()
	}
	return Some(tok)
}

// SpanSince returns the span from cp to the current position.
func (c *Cursor[T]) SpanSince(cp Checkpoint) Span {
	return Span{Start: cp.pos, End: c.pos}
}

// LastPos returns the position of the most recent read.
func (c *Cursor[T]) LastPos() Position {
	return c.last
}

// Pos returns the current position.
func (c *Cursor[T]) Pos() Position {
	return c.pos
}
