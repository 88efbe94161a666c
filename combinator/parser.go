package combinator

// Parser is implemented by every combinator.
//
// Go reads from c under mode m. On success it returns the output, which is
// the zero value under Check, and leaves c after the consumed input. On
// failure it returns a located error; c is left wherever the failure was
// detected, and it is up to the caller to rewind.
type Parser[T, O any] interface {
	Go(c *Cursor[T], m Mode) (O, *Error[T])
}

// Func adapts a function to a Parser.
type Func[T, O any] func(c *Cursor[T], m Mode) (O, *Error[T])

func (f Func[T, O]) Go(c *Cursor[T], m Mode) (O, *Error[T]) {
	return f(c, m)
}

// Parse runs p over input in Emit mode.
func Parse[T, O any](p Parser[T, O], input Input[T]) (O, error) {
	out, err := p.Go(NewCursor(input), Emit{})
	if err != nil {
		return out, err
	}
	return out, nil
}

// Validate runs p over input in Check mode, validating without building
// output.
func Validate[T, O any](p Parser[T, O], input Input[T]) error {
	if _, err := p.Go(NewCursor(input), Check{}); err != nil {
		return err
	}
	return nil
}

// ParseText runs p over the runes of s in Emit mode.
func ParseText[O any](p Parser[rune, O], s string) (O, error) {
	return Parse(p, Input[rune](Text(s)))
}

// ValidateText runs p over the runes of s in Check mode.
func ValidateText[O any](p Parser[rune, O], s string) error {
	return Validate(p, Input[rune](Text(s)))
}
