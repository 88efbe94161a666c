package combinator

import (
	"iter"
	"unicode/utf8"
)

// Seq is a finite, repeatable ordered sequence of items.
//
// Item returns the item at index i and the index of the item after it; ok
// is false past the end. Iteration starts at index 0. Indices are opaque to
// callers: Str uses byte offsets.
type Seq[T any] interface {
	Item(i int) (item T, next int, ok bool)
}

// One is a sequence of exactly one item.
type One[T any] struct{ V T }

func (o One[T]) Item(i int) (T, int, bool) {
	if i != 0 {
		var zero T
		return zero, i, false
	}
	return o.V, 1, true
}

// Slice is a sequence over a slice. Use arr[:] for arrays.
type Slice[T any] []T

func (s Slice[T]) Item(i int) (T, int, bool) {
	if i >= len(s) {
		var zero T
		return zero, i, false
	}
	return s[i], i + 1, true
}

// Str is the sequence of runes in a string.
type Str string

func (s Str) Item(i int) (rune, int, bool) {
	if i >= len(s) {
		return 0, i, false
	}
	r, size := utf8.DecodeRuneInString(string(s[i:]))
	return r, i + size, true
}

// Items returns an iterator over seq.
func Items[T any, S Seq[T]](seq S) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item, i, ok := seq.Item(0); ok; item, i, ok = seq.Item(i) {
			if !yield(item) {
				return
			}
		}
	}
}

func contains[T comparable](seq Seq[T], tok T) bool {
	for item, i, ok := seq.Item(0); ok; item, i, ok = seq.Item(i) {
		if item == tok {
			return true
		}
	}
	return false
}

func expectedOf[T any](seq Seq[T]) []Maybe[T] {
	var expected []Maybe[T]
	for item, i, ok := seq.Item(0); ok; item, i, ok = seq.Item(i) {
		expected = append(expected, Some(item))
	}
	return expected
}
