package combinator

import "unicode/utf8"

// Container is an accumulator for parsed items. The zero value of C is the
// empty container; Push returns the container with t appended.
type Container[C any, T any] interface {
	Push(t T) C
}

// List collects items in a slice.
type List[T any] []T

func (l List[T]) Push(t T) List[T] {
	return append(l, t)
}

// Chars collects runes as UTF-8 text.
type Chars []byte

func (c Chars) Push(r rune) Chars {
	return utf8.AppendRune(c, r)
}

func (c Chars) String() string {
	return string(c)
}

// Discard drops every item.
type Discard[T any] struct{}

func (d Discard[T]) Push(T) Discard[T] {
	return d
}
