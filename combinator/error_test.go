package combinator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrioritize_DeepestWins(t *testing.T) {
	shallow := ExpectedFound([]Maybe[rune]{Some('a')}, Some('x'), Span{Start: 1, End: 2})
	deep := ExpectedFound([]Maybe[rune]{Some('b')}, Some('y'), Span{Start: 4, End: 5})
	merge := (*Error[rune]).Merge

	assert.Same(t, deep, Prioritize(shallow, deep, merge))
	assert.Same(t, deep, Prioritize(deep, shallow, merge))
}

func TestPrioritize_SamePositionMerges(t *testing.T) {
	a := ExpectedFound([]Maybe[rune]{Some('a')}, Some('x'), Span{Start: 2, End: 3})
	b := ExpectedFound([]Maybe[rune]{Some('b'), Some('a')}, Some('x'), Span{Start: 2, End: 3})

	got := Prioritize(a, b, (*Error[rune]).Merge)
	assert.Equal(t, []Maybe[rune]{Some('a'), Some('b'), Some('a')}, got.Expected)
	assert.Equal(t, Some('x'), got.Found)
	assert.Equal(t, Span{Start: 2, End: 3}, got.Span)

	swapped := Prioritize(b, a, (*Error[rune]).Merge)
	assert.ElementsMatch(t, got.Expected, swapped.Expected)
	assert.Equal(t, got.Span, swapped.Span)
}

func TestMerge_KeepsWiderSpan(t *testing.T) {
	narrow := ExpectedFound([]Maybe[rune]{Some('a')}, None[rune](), Span{Start: 3, End: 3})
	wide := ExpectedFound([]Maybe[rune]{Some('b')}, Some('q'), Span{Start: 2, End: 3})

	got := narrow.Merge(wide)
	assert.Equal(t, Some('q'), got.Found)
	assert.Equal(t, Span{Start: 2, End: 3}, got.Span)
	assert.Len(t, got.Expected, 2)

	// inputs are left untouched
	assert.Len(t, narrow.Expected, 1)
	assert.Len(t, wide.Expected, 1)
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error[rune]
		want string
	}{
		{
			name: "single",
			err:  ExpectedFound([]Maybe[rune]{Some('c')}, Some('d'), Span{Start: 2, End: 3}),
			want: "expected 'c', found 'd' at 2..3",
		},
		{
			name: "several with duplicates",
			err:  ExpectedFound([]Maybe[rune]{Some('a'), Some('b'), Some('a'), None[rune]()}, None[rune](), Span{Start: 5, End: 5}),
			want: "expected 'a', 'b' or end of input, found end of input at 5..5",
		},
		{
			name: "no expectations",
			err:  ExpectedFound(nil, Some('z'), Span{Start: 0, End: 1}),
			want: "unexpected 'z' at 0..1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsAnError(t *testing.T) {
	_, err := ParseText[Str](Just[rune](Str("ok")), "no")
	require.Error(t, err)

	var perr *Error[rune]
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, Some('n'), perr.Found)
}

func TestMaybe(t *testing.T) {
	v, ok := Some(3).Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = None[int]().Get()
	assert.False(t, ok)
	assert.Equal(t, "end of input", None[int]().String())
	assert.Equal(t, "3", Some(3).String())
	assert.Equal(t, `"kw"`, Some("kw").String())
}
