package combinator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run parses s with p under m and reports where the cursor stopped.
func run[O any](p Parser[rune, O], s string, m Mode) (O, *Error[rune], Position) {
	c := NewCursor[rune](Text(s))
	out, err := p.Go(c, m)
	return out, err, c.Pos()
}

func TestJust_RoundTrip(t *testing.T) {
	p := Just[rune](Str("abc"))

	out, err, pos := run(p, "abc", Emit{})
	require.Nil(t, err)
	assert.Equal(t, Str("abc"), out)
	assert.Equal(t, Position(3), pos)

	_, err, _ = run(p, "abd", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, []Maybe[rune]{Some('c')}, err.Expected)
	assert.Equal(t, Some('d'), err.Found)
	assert.Equal(t, Span{Start: 2, End: 3}, err.Span)
}

func TestJust_MissingToken(t *testing.T) {
	_, err, pos := run(Just[rune](Str("abc")), "ab", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, []Maybe[rune]{Some('c')}, err.Expected)
	assert.True(t, err.Found.IsNone())
	assert.Equal(t, Span{Start: 2, End: 2}, err.Span)
	assert.Equal(t, Position(2), pos)
}

func TestJust_SequenceKinds(t *testing.T) {
	out, err := Parse[int, One[int]](Just[int](One[int]{V: 4}), Tokens[int]{4, 5})
	require.NoError(t, err)
	assert.Equal(t, One[int]{V: 4}, out)

	arr := [3]int{1, 2, 3}
	outs, err := Parse[int, Slice[int]](Just[int](Slice[int](arr[:])), Tokens[int]{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Slice[int]{1, 2, 3}, outs)

	_, err, pos := run(Just[rune](Str("")), "xyz", Emit{})
	assert.Nil(t, err)
	assert.Equal(t, Position(0), pos)
}

func TestEnd(t *testing.T) {
	_, err, pos := run(End[rune](), "", Emit{})
	assert.Nil(t, err)
	assert.Equal(t, Position(0), pos)

	_, err, pos = run(End[rune](), "x", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, Some('x'), err.Found)
	assert.Equal(t, []Maybe[rune]{None[rune]()}, err.Expected)
	assert.Equal(t, Position(0), pos, "End must not consume on failure")
}

func TestEmpty(t *testing.T) {
	for _, input := range []string{"", "a", "abc"} {
		_, err, pos := run(Empty[rune](), input, Emit{})
		assert.Nil(t, err)
		assert.Equal(t, Position(0), pos)
	}
}

func TestAny(t *testing.T) {
	out, err, pos := run(Any[rune](), "é!", Emit{})
	require.Nil(t, err)
	assert.Equal(t, 'é', out)
	assert.Equal(t, Position(2), pos)

	_, err, _ = run(Any[rune](), "", Emit{})
	require.NotNil(t, err)
	assert.True(t, err.Found.IsNone())
	assert.Empty(t, err.Expected)
}

func TestOneOf(t *testing.T) {
	p := OneOf[rune](Str("xyz"))

	out, err, pos := run(p, "yes", Emit{})
	require.Nil(t, err)
	assert.Equal(t, 'y', out)
	assert.Equal(t, Position(1), pos)

	_, err, _ = run(p, "a", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, []Maybe[rune]{Some('x'), Some('y'), Some('z')}, err.Expected)
	assert.Equal(t, Some('a'), err.Found)

	_, err, _ = run(p, "", Emit{})
	require.NotNil(t, err)
	assert.True(t, err.Found.IsNone())
}

func TestNoneOf(t *testing.T) {
	p := NoneOf[rune](Str("\"'"))

	out, err, _ := run(p, "a", Emit{})
	require.Nil(t, err)
	assert.Equal(t, 'a', out)

	_, err, _ = run(p, "'", Emit{})
	require.NotNil(t, err)
	assert.Empty(t, err.Expected)
	assert.Equal(t, Some('\''), err.Found)

	_, err, _ = run(p, "", Emit{})
	require.NotNil(t, err)
	assert.True(t, err.Found.IsNone())
}

func TestOneOfNoneOf_Complementary(t *testing.T) {
	const alphabet = "abcdef"
	rng := rand.New(rand.NewPCG(7, 0))
	for range 500 {
		var set []rune
		for _, r := range alphabet {
			if rng.IntN(2) == 0 {
				set = append(set, r)
			}
		}
		tok := rune(alphabet[rng.IntN(len(alphabet))])
		input := string(tok) + "rest"

		_, errOne, posOne := run(OneOf[rune](Slice[rune](set)), input, Emit{})
		_, errNone, posNone := run(NoneOf[rune](Slice[rune](set)), input, Emit{})

		require.NotEqual(t, errOne == nil, errNone == nil, "set=%q tok=%q", string(set), tok)
		if errOne == nil {
			assert.Equal(t, Position(1), posOne)
		} else {
			assert.Equal(t, Position(1), posNone)
		}
	}
}

func TestTakeUntil(t *testing.T) {
	p := TakeUntil[rune, Str](Just[rune](Str("*/")))

	out, err, pos := run(p, "a b*/c", Emit{})
	require.Nil(t, err)
	assert.Equal(t, List[rune]{'a', ' ', 'b'}, out.V1)
	assert.Equal(t, Str("*/"), out.V2)
	assert.Equal(t, Position(5), pos)

	_, err, pos = run(p, "a b", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, []Maybe[rune]{Some('*')}, err.Expected)
	assert.True(t, err.Found.IsNone())
	assert.Equal(t, Span{Start: 3, End: 3}, err.Span)
	assert.Equal(t, Position(3), pos)
}

func TestTakeUntil_Containers(t *testing.T) {
	text := TakeUntilInto[Chars, rune, Str](Just[rune](Str("*/")))
	out, err, _ := run(text, "héllo*/", Emit{})
	require.Nil(t, err)
	assert.Equal(t, "héllo", out.V1.String())

	discard := TakeUntilInto[Discard[rune], rune, Str](Just[rune](Str("*/")))
	_, err, pos := run(discard, "xyz*/", Emit{})
	require.Nil(t, err)
	assert.Equal(t, Position(5), pos)
}

func TestTakeUntil_CheckSkipsAccumulation(t *testing.T) {
	p := TakeUntil[rune, Str](Just[rune](Str("*/")))
	out, err, pos := run(p, "a b*/c", Check{})
	require.Nil(t, err)
	assert.Nil(t, out.V1)
	assert.Equal(t, Str(""), out.V2)
	assert.Equal(t, Position(5), pos)
}

func TestTodo_Panics(t *testing.T) {
	p := Todo[rune, int]()
	require.PanicsWithValue(t, ErrUnimplemented, func() {
		_, _ = ParseText[int](p, "anything")
	})
	require.PanicsWithValue(t, ErrUnimplemented, func() {
		_ = ValidateText[int](p, "")
	})
}

func TestTodo_NotReachedWhenEarlierBranchWins(t *testing.T) {
	p := Choice[rune, Str](
		Just[rune](Str("ok")),
		Func[rune, Str](func(c *Cursor[rune], m Mode) (Str, *Error[rune]) {
			return Todo[rune, Str]().Go(c, m)
		}),
	)
	assert.NotPanics(t, func() {
		out, err := ParseText[Str](p, "ok")
		assert.NoError(t, err)
		assert.Equal(t, Str("ok"), out)
	})
}
