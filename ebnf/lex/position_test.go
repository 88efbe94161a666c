package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_Position(t *testing.T) {
	x := NewIndex("in.txt", "ab\ncé d\n\nz")

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Filename: "in.txt", Offset: 0, Line: 1, Column: 1}},
		{2, Position{Filename: "in.txt", Offset: 2, Line: 1, Column: 3}},
		{3, Position{Filename: "in.txt", Offset: 3, Line: 2, Column: 1}},
		{6, Position{Filename: "in.txt", Offset: 6, Line: 2, Column: 3}},
		{9, Position{Filename: "in.txt", Offset: 9, Line: 3, Column: 1}},
		{10, Position{Filename: "in.txt", Offset: 10, Line: 4, Column: 1}},
		{99, Position{Filename: "in.txt", Offset: 11, Line: 4, Column: 2}},
		{-4, Position{Filename: "in.txt", Offset: 0, Line: 1, Column: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, x.Position(tt.offset), "offset %d", tt.offset)
	}
}

func TestIndex_Lines(t *testing.T) {
	x := NewIndex("", "one\r\ntwo\nthree")

	assert.Equal(t, 3, x.Lines())
	assert.Equal(t, "one", x.Line(1))
	assert.Equal(t, "two", x.Line(2))
	assert.Equal(t, "three", x.Line(3))
	assert.Equal(t, "", x.Line(4))
	assert.Equal(t, 5, x.LineStart(2))
	assert.Equal(t, len(x.Source()), x.LineStart(7))
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "a.ebnf:3:4", Position{Filename: "a.ebnf", Line: 3, Column: 4}.String())
	assert.Equal(t, "3:4", Position{Line: 3, Column: 4}.String())
}
