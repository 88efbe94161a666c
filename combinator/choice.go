package combinator

// ChoiceParser tries alternatives in order from the same start position.
type ChoiceParser[T, O any] struct {
	parsers []Parser[T, O]
}

// Choice returns a parser producing the output of the first of parsers to
// succeed. Earlier alternatives win when several could match. Every
// alternative starts from the same cursor state, so a failed branch never
// leaks consumption.
//
// When all alternatives fail, their errors are folded with Prioritize: the
// deepest failure wins and failures at the same depth are merged.
func Choice[T, O any](parsers ...Parser[T, O]) ChoiceParser[T, O] {
	return ChoiceParser[T, O]{parsers: parsers}
}

func (p ChoiceParser[T, O]) Go(c *Cursor[T], m Mode) (O, *Error[T]) {
	before := c.Save()
	var best *Error[T]
	for _, alt := range p.parsers {
		out, err := alt.Go(c, m)
		if err == nil {
			return out, nil
		}
		if best == nil {
			best = err
		} else {
			best = Prioritize(best, err, (*Error[T]).Merge)
		}
		c.Rewind(before)
	}
	if best == nil {
		// No alternative ran and nothing was consumed: the failure is an
		// empty span anchored at the last read.
		at := c.LastPos()
		best = ExpectedFound(nil, None[T](), Span{Start: at, End: at})
	}
	var zero O
	return zero, best
}

// Or is Choice over exactly two alternatives.
func Or[T, O any](a, b Parser[T, O]) ChoiceParser[T, O] {
	return Choice(a, b)
}
