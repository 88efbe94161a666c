package combinator

import (
	"fmt"
	"strings"
)

// Maybe is an optional value. A None token stands for the end of input.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some wraps v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

// None returns an empty Maybe.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the value and whether one is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.ok
}

// IsNone reports whether m is empty.
func (m Maybe[T]) IsNone() bool {
	return !m.ok
}

func (m Maybe[T]) String() string {
	if !m.ok {
		return "end of input"
	}
	return formatToken(m.value)
}

func formatToken(v any) string {
	switch t := v.(type) {
	case rune:
		return fmt.Sprintf("%q", t)
	case byte:
		return fmt.Sprintf("%q", rune(t))
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprint(t)
	}
}

// Error is a located parse failure: at Span, one of Expected was wanted but
// Found was seen. A None in Expected means end of input was acceptable; a
// None Found means the input ended.
type Error[T any] struct {
	Expected []Maybe[T]
	Found    Maybe[T]
	Span     Span
}

// ExpectedFound constructs a failure.
func ExpectedFound[T any](expected []Maybe[T], found Maybe[T], span Span) *Error[T] {
	return &Error[T]{Expected: expected, Found: found, Span: span}
}

// Merge unions the expectations of e and other. Found and Span come from
// whichever error covers the larger span, e on ties. Duplicates are kept.
func (e *Error[T]) Merge(other *Error[T]) *Error[T] {
	found, span := e.Found, e.Span
	if other.Span.Len() > e.Span.Len() {
		found, span = other.Found, other.Span
	}
	expected := make([]Maybe[T], 0, len(e.Expected)+len(other.Expected))
	expected = append(expected, e.Expected...)
	expected = append(expected, other.Expected...)
	return &Error[T]{Expected: expected, Found: found, Span: span}
}

// Prioritize reconciles the failures of two attempts. The error that ends
// further into the input wins outright; errors ending at the same position
// are combined with merge.
func Prioritize[T any](a, b *Error[T], merge func(a, b *Error[T]) *Error[T]) *Error[T] {
	switch {
	case a.Span.End > b.Span.End:
		return a
	case b.Span.End > a.Span.End:
		return b
	default:
		return merge(a, b)
	}
}

func (e *Error[T]) Error() string {
	var b strings.Builder
	if len(e.Expected) == 0 {
		b.WriteString("unexpected ")
		b.WriteString(e.Found.String())
	} else {
		b.WriteString("expected ")
		b.WriteString(JoinExpected(e.Expected))
		b.WriteString(", found ")
		b.WriteString(e.Found.String())
	}
	fmt.Fprintf(&b, " at %d..%d", e.Span.Start, e.Span.End)
	return b.String()
}

// JoinExpected renders expectations as "a, b or c", dropping duplicates.
func JoinExpected[T any](expected []Maybe[T]) string {
	seen := make(map[string]bool, len(expected))
	var parts []string
	for _, m := range expected {
		s := m.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	switch len(parts) {
	case 0:
		return "nothing"
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
