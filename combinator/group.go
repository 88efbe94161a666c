package combinator

// Group runs parsers strictly in order and collects their outputs into a
// tuple. The first failure is returned as is and the cursor is left where
// that parser stopped: a group does not rewind, since committing to the
// sequence is the caller's decision.
//
// Go has no variadic generics, so typed groups are provided for arities one
// through six. GroupAll covers any arity when the outputs share a type.

// Tuple1 holds the output of Group1.
type Tuple1[A any] struct {
	V1 A
}

// Tuple2 holds two values.
type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

// Tuple3 holds three values.
type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

// Tuple4 holds four values.
type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

// Tuple5 holds five values.
type Tuple5[A, B, C, D, E any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

// Tuple6 holds six values.
type Tuple6[A, B, C, D, E, F any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
}

// Group1 wraps the output of a in a one-element tuple.
func Group1[T, A any](a Parser[T, A]) Parser[T, Tuple1[A]] {
	return Func[T, Tuple1[A]](func(c *Cursor[T], m Mode) (Tuple1[A], *Error[T]) {
		va, err := a.Go(c, m)
		if err != nil {
			return Tuple1[A]{}, err
		}
		return Map(m, va, func(va A) Tuple1[A] { return Tuple1[A]{V1: va} }), nil
	})
}

// Group2 runs a then b.
func Group2[T, A, B any](a Parser[T, A], b Parser[T, B]) Parser[T, Tuple2[A, B]] {
	return Func[T, Tuple2[A, B]](func(c *Cursor[T], m Mode) (Tuple2[A, B], *Error[T]) {
		va, err := a.Go(c, m)
		if err != nil {
			return Tuple2[A, B]{}, err
		}
		vb, err := b.Go(c, m)
		if err != nil {
			return Tuple2[A, B]{}, err
		}
		return Combine(m, va, vb, func(va A, vb B) Tuple2[A, B] {
			return Tuple2[A, B]{V1: va, V2: vb}
		}), nil
	})
}

// Group3 runs a, b and c in order.
func Group3[T, A, B, C any](a Parser[T, A], b Parser[T, B], c Parser[T, C]) Parser[T, Tuple3[A, B, C]] {
	rest := Group2(b, c)
	return Func[T, Tuple3[A, B, C]](func(cur *Cursor[T], m Mode) (Tuple3[A, B, C], *Error[T]) {
		va, err := a.Go(cur, m)
		if err != nil {
			return Tuple3[A, B, C]{}, err
		}
		vr, err := rest.Go(cur, m)
		if err != nil {
			return Tuple3[A, B, C]{}, err
		}
		return Combine(m, va, vr, func(va A, vr Tuple2[B, C]) Tuple3[A, B, C] {
			return Tuple3[A, B, C]{V1: va, V2: vr.V1, V3: vr.V2}
		}), nil
	})
}

// Group4 runs four parsers in order.
func Group4[T, A, B, C, D any](a Parser[T, A], b Parser[T, B], c Parser[T, C], d Parser[T, D]) Parser[T, Tuple4[A, B, C, D]] {
	rest := Group3(b, c, d)
	return Func[T, Tuple4[A, B, C, D]](func(cur *Cursor[T], m Mode) (Tuple4[A, B, C, D], *Error[T]) {
		va, err := a.Go(cur, m)
		if err != nil {
			return Tuple4[A, B, C, D]{}, err
		}
		vr, err := rest.Go(cur, m)
		if err != nil {
			return Tuple4[A, B, C, D]{}, err
		}
		return Combine(m, va, vr, func(va A, vr Tuple3[B, C, D]) Tuple4[A, B, C, D] {
			return Tuple4[A, B, C, D]{V1: va, V2: vr.V1, V3: vr.V2, V4: vr.V3}
		}), nil
	})
}

// Group5 runs five parsers in order.
func Group5[T, A, B, C, D, E any](a Parser[T, A], b Parser[T, B], c Parser[T, C], d Parser[T, D], e Parser[T, E]) Parser[T, Tuple5[A, B, C, D, E]] {
	rest := Group4(b, c, d, e)
	return Func[T, Tuple5[A, B, C, D, E]](func(cur *Cursor[T], m Mode) (Tuple5[A, B, C, D, E], *Error[T]) {
		va, err := a.Go(cur, m)
		if err != nil {
			return Tuple5[A, B, C, D, E]{}, err
		}
		vr, err := rest.Go(cur, m)
		if err != nil {
			return Tuple5[A, B, C, D, E]{}, err
		}
		return Combine(m, va, vr, func(va A, vr Tuple4[B, C, D, E]) Tuple5[A, B, C, D, E] {
			return Tuple5[A, B, C, D, E]{V1: va, V2: vr.V1, V3: vr.V2, V4: vr.V3, V5: vr.V4}
		}), nil
	})
}

// Group6 runs six parsers in order.
func Group6[T, A, B, C, D, E, F any](a Parser[T, A], b Parser[T, B], c Parser[T, C], d Parser[T, D], e Parser[T, E], f Parser[T, F]) Parser[T, Tuple6[A, B, C, D, E, F]] {
	rest := Group5(b, c, d, e, f)
	return Func[T, Tuple6[A, B, C, D, E, F]](func(cur *Cursor[T], m Mode) (Tuple6[A, B, C, D, E, F], *Error[T]) {
		va, err := a.Go(cur, m)
		if err != nil {
			return Tuple6[A, B, C, D, E, F]{}, err
		}
		vr, err := rest.Go(cur, m)
		if err != nil {
			return Tuple6[A, B, C, D, E, F]{}, err
		}
		return Combine(m, va, vr, func(va A, vr Tuple5[B, C, D, E, F]) Tuple6[A, B, C, D, E, F] {
			return Tuple6[A, B, C, D, E, F]{V1: va, V2: vr.V1, V3: vr.V2, V4: vr.V3, V5: vr.V4, V6: vr.V5}
		}), nil
	})
}

// GroupAllParser runs parsers that share an output type in order.
type GroupAllParser[T, O any] struct {
	parsers []Parser[T, O]
}

// GroupAll returns a group over any number of parsers with one output type.
// Under Emit the outputs are collected in order; under Check nothing is
// collected.
func GroupAll[T, O any](parsers ...Parser[T, O]) GroupAllParser[T, O] {
	return GroupAllParser[T, O]{parsers: parsers}
}

func (p GroupAllParser[T, O]) Go(c *Cursor[T], m Mode) ([]O, *Error[T]) {
	outs := Bind(m, func() []O { return make([]O, 0, len(p.parsers)) })
	for _, step := range p.parsers {
		out, err := step.Go(c, m)
		if err != nil {
			return nil, err
		}
		outs = Map(m, outs, func(outs []O) []O { return append(outs, out) })
	}
	return outs, nil
}
