// Package lex maps byte offsets in source text to human-readable positions.
package lex

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int // byte offset
	Line     int // 1-based
	Column   int // 1-based, in runes
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Index resolves offsets in one source text.
type Index struct {
	filename string
	src      string
	lines    []int // byte offset of each line start
}

// NewIndex builds an index over src.
func NewIndex(filename, src string) *Index {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Index{filename: filename, src: src, lines: lines}
}

// Filename returns the name the index was built with.
func (x *Index) Filename() string {
	return x.filename
}

// Source returns the indexed text.
func (x *Index) Source() string {
	return x.src
}

// Position resolves offset. Offsets outside the text are clamped.
func (x *Index) Position(offset int) Position {
	offset = max(0, min(offset, len(x.src)))
	line := sort.Search(len(x.lines), func(i int) bool { return x.lines[i] > offset }) - 1
	start := x.lines[line]
	return Position{
		Filename: x.filename,
		Offset:   offset,
		Line:     line + 1,
		Column:   utf8.RuneCountInString(x.src[start:offset]) + 1,
	}
}

// Lines returns the number of lines in the text.
func (x *Index) Lines() int {
	return len(x.lines)
}

// LineStart returns the byte offset where the 1-based line begins.
func (x *Index) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(x.lines) {
		return len(x.src)
	}
	return x.lines[line-1]
}

// Line returns the text of the 1-based line without its line terminator.
func (x *Index) Line(line int) string {
	if line < 1 || line > len(x.lines) {
		return ""
	}
	start := x.lines[line-1]
	end := len(x.src)
	if line < len(x.lines) {
		end = x.lines[line] - 1
	}
	if end > start && x.src[end-1] == '\r' {
		end--
	}
	return x.src[start:end]
}
