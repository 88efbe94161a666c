package combinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoice_EarlierAlternativeWins(t *testing.T) {
	long := Just[rune](Str("ab"))
	short := Just[rune](Str("a"))

	out, err, pos := run(Choice[rune, Str](long, short), "ab", Emit{})
	require.Nil(t, err)
	assert.Equal(t, Str("ab"), out)
	assert.Equal(t, Position(2), pos)

	out, err, pos = run(Choice[rune, Str](short, long), "ab", Emit{})
	require.Nil(t, err)
	assert.Equal(t, Str("a"), out)
	assert.Equal(t, Position(1), pos)
}

func TestChoice_FailedBranchDoesNotLeak(t *testing.T) {
	// consumes "abc" and then fails on the fourth token
	deep := GroupAll[rune, Str](Just[rune](Str("abc")), Just[rune](Str("!")))

	var seen []Position
	observe := Func[rune, Str](func(c *Cursor[rune], m Mode) (Str, *Error[rune]) {
		seen = append(seen, c.Pos())
		return Just[rune](Str("ab")).Go(c, m)
	})
	flatten := Func[rune, Str](func(c *Cursor[rune], m Mode) (Str, *Error[rune]) {
		_, err := deep.Go(c, m)
		return "", err
	})

	out, err, pos := run(Choice[rune, Str](flatten, observe), "abc?", Emit{})
	require.Nil(t, err)
	assert.Equal(t, Str("ab"), out)
	assert.Equal(t, []Position{0}, seen)
	assert.Equal(t, Position(2), pos)
}

func TestChoice_AllFailRewindsAndPrioritizes(t *testing.T) {
	p := Choice[rune, Str](
		Just[rune](Str("abc")),
		Just[rune](Str("abd")),
		Just[rune](Str("x")),
	)

	_, err, pos := run(p, "abz", Emit{})
	require.NotNil(t, err)
	assert.Equal(t, Position(0), pos)
	assert.Equal(t, []Maybe[rune]{Some('c'), Some('d')}, err.Expected)
	assert.Equal(t, Some('z'), err.Found)
	assert.Equal(t, Span{Start: 2, End: 3}, err.Span)
}

func TestChoice_DeepestErrorRegardlessOfOrder(t *testing.T) {
	shallow := Just[rune](Str("q"))
	deep := Just[rune](Str("abcd"))

	for _, p := range []Parser[rune, Str]{
		Choice[rune, Str](shallow, deep),
		Choice[rune, Str](deep, shallow),
	} {
		_, err, _ := run(p, "abcx", Emit{})
		require.NotNil(t, err)
		assert.Equal(t, []Maybe[rune]{Some('d')}, err.Expected)
		assert.Equal(t, Span{Start: 3, End: 4}, err.Span)
	}
}

func TestChoice_Empty(t *testing.T) {
	c := NewCursor[rune](Text("abc"))
	c.Next()
	c.Next()

	_, err := Choice[rune, Str]().Go(c, Emit{})
	require.NotNil(t, err)
	assert.Empty(t, err.Expected)
	assert.True(t, err.Found.IsNone())
	assert.Equal(t, Span{Start: 1, End: 1}, err.Span)
	assert.Equal(t, Position(2), c.Pos())
}

func TestOr(t *testing.T) {
	p := Or[rune, rune](OneOf[rune](Str("01")), Any[rune]())
	out, err, _ := run(p, "x", Emit{})
	require.Nil(t, err)
	assert.Equal(t, 'x', out)
}
