package combinator

import "errors"

// Primitives read straight from the cursor. Apart from End, which never
// consumes, none of them rewinds on failure: a failed primitive has consumed
// exactly the tokens it inspected.

// ErrUnimplemented is the panic value raised when a Todo parser runs.
var ErrUnimplemented = errors.New("combinator: attempted to use an unimplemented parser")

// EndParser succeeds only at the end of input.
type EndParser[T any] struct{}

// End returns a parser that accepts only the end of input.
func End[T any]() EndParser[T] {
	return EndParser[T]{}
}

func (EndParser[T]) Go(c *Cursor[T], m Mode) (struct{}, *Error[T]) {
	before := c.Save()
	_, tok := c.Next()
	if tok.IsNone() {
		return struct{}{}, nil
	}
	err := ExpectedFound([]Maybe[T]{None[T]()}, tok, c.SpanSince(before))
	c.Rewind(before)
	return struct{}{}, err
}

// EmptyParser consumes nothing and always succeeds.
type EmptyParser[T any] struct{}

// Empty returns a parser that parses no input.
func Empty[T any]() EmptyParser[T] {
	return EmptyParser[T]{}
}

func (EmptyParser[T]) Go(*Cursor[T], Mode) (struct{}, *Error[T]) {
	return struct{}{}, nil
}

// JustParser matches a fixed sequence of tokens.
type JustParser[T comparable, S Seq[T]] struct {
	seq   S
	items Seq[T]
}

// Just returns a parser that accepts exactly the tokens of seq, in order,
// and outputs seq.
func Just[T comparable, S Seq[T]](seq S) JustParser[T, S] {
	return JustParser[T, S]{seq: seq, items: seq}
}

func (p JustParser[T, S]) Go(c *Cursor[T], m Mode) (S, *Error[T]) {
	for want, i, more := p.items.Item(0); more; want, i, more = p.items.Item(i) {
		before := c.Save()
		_, tok := c.Next()
		if got, ok := tok.Get(); !ok || got != want {
			var zero S
			return zero, ExpectedFound([]Maybe[T]{Some(want)}, tok, c.SpanSince(before))
		}
	}
	return Bind(m, func() S { return p.seq }), nil
}

// OneOfParser matches a single token from a set.
type OneOfParser[T comparable] struct {
	set Seq[T]
}

// OneOf returns a parser that accepts one token that is a member of set.
func OneOf[T comparable, S Seq[T]](set S) OneOfParser[T] {
	return OneOfParser[T]{set: set}
}

func (p OneOfParser[T]) Go(c *Cursor[T], m Mode) (T, *Error[T]) {
	before := c.Save()
	_, tok := c.Next()
	if got, ok := tok.Get(); ok && contains(p.set, got) {
		return Bind(m, func() T { return got }), nil
	}
	var zero T
	return zero, ExpectedFound(expectedOf(p.set), tok, c.SpanSince(before))
}

// NoneOfParser matches a single token outside a set.
type NoneOfParser[T comparable] struct {
	set Seq[T]
}

// NoneOf returns a parser that accepts one token that is not a member of
// set. Its errors carry no expectations, since a complement cannot be
// listed.
func NoneOf[T comparable, S Seq[T]](set S) NoneOfParser[T] {
	return NoneOfParser[T]{set: set}
}

func (p NoneOfParser[T]) Go(c *Cursor[T], m Mode) (T, *Error[T]) {
	before := c.Save()
	_, tok := c.Next()
	if got, ok := tok.Get(); ok && !contains(p.set, got) {
		return Bind(m, func() T { return got }), nil
	}
	var zero T
	return zero, ExpectedFound(nil, tok, c.SpanSince(before))
}

// AnyParser matches any single token.
type AnyParser[T any] struct{}

// Any returns a parser that accepts any one token but not the end of input.
func Any[T any]() AnyParser[T] {
	return AnyParser[T]{}
}

func (AnyParser[T]) Go(c *Cursor[T], m Mode) (T, *Error[T]) {
	before := c.Save()
	_, tok := c.Next()
	if got, ok := tok.Get(); ok {
		return Bind(m, func() T { return got }), nil
	}
	var zero T
	return zero, ExpectedFound(nil, tok, c.SpanSince(before))
}

// TakeUntilParser skips tokens into a container until a terminator parses.
type TakeUntilParser[T, O any, C Container[C, T]] struct {
	until Parser[T, O]
}

// TakeUntil returns a parser that collects tokens into a List until until
// succeeds. The output pairs the skipped tokens with until's output.
func TakeUntil[T, O any](until Parser[T, O]) TakeUntilParser[T, O, List[T]] {
	return TakeUntilParser[T, O, List[T]]{until: until}
}

// TakeUntilInto is TakeUntil with a caller-chosen container, such as Chars
// or Discard.
func TakeUntilInto[C Container[C, T], T, O any](until Parser[T, O]) TakeUntilParser[T, O, C] {
	return TakeUntilParser[T, O, C]{until: until}
}

func (p TakeUntilParser[T, O, C]) Go(c *Cursor[T], m Mode) (Tuple2[C, O], *Error[T]) {
	var acc C
	for {
		start := c.Save()
		out, err := p.until.Go(c, m)
		if err == nil {
			return Combine(m, acc, out, func(acc C, out O) Tuple2[C, O] {
				return Tuple2[C, O]{V1: acc, V2: out}
			}), nil
		}
		c.Rewind(start)

		_, tok := c.Next()
		got, ok := tok.Get()
		if !ok {
			return Tuple2[C, O]{}, err
		}
		// Under Check the accumulator is never touched.
		acc = Map(m, acc, func(acc C) C { return acc.Push(got) })
	}
}

// TodoParser stands in for a parser that has not been written yet.
type TodoParser[T, O any] struct{}

// Todo returns a placeholder parser. Running it panics with
// ErrUnimplemented; it never reports an ordinary parse failure.
func Todo[T, O any]() TodoParser[T, O] {
	return TodoParser[T, O]{}
}

func (TodoParser[T, O]) Go(*Cursor[T], Mode) (O, *Error[T]) {
	panic(ErrUnimplemented)
}
