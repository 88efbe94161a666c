// Package diag renders grammar and parse failures for people.
package diag

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/dhamidi/chomp/ebnf/parse"
)

var (
	locationColor = color.New(color.Bold)
	errorColor    = color.New(color.FgRed, color.Bold)
	gutterColor   = color.New(color.FgBlue)
	caretColor    = color.New(color.FgGreen, color.Bold)
	hintColor     = color.New(color.FgCyan)
)

// Format renders a syntax error as its location and message, then the
// source line with a caret under the failing token:
//
//	in.txt:2:5: error: expected digit, found ';'
//	 2 | b = ;
//	   |     ^
func Format(err *parse.SyntaxError) string {
	var b strings.Builder
	pos := err.Position()

	fmt.Fprintf(&b, "%s %s %s\n",
		locationColor.Sprint(pos.String()+":"),
		errorColor.Sprint("error:"),
		err.Message())

	line := err.Index.Line(pos.Line)
	number := fmt.Sprintf(" %d ", pos.Line)
	gutter := strings.Repeat(" ", len(number))
	fmt.Fprintf(&b, "%s%s\n", gutterColor.Sprint(number+"|"), sourceLine(line))
	fmt.Fprintf(&b, "%s%s%s\n",
		gutterColor.Sprint(gutter+"|"),
		padding(line, pos.Column-1),
		caretColor.Sprint(strings.Repeat("^", caretWidth(err, line))))
	return b.String()
}

func sourceLine(line string) string {
	if line == "" {
		return ""
	}
	return " " + line
}

// padding lines a caret up with the given rune column, keeping tabs so the
// caret stays aligned in terminals.
func padding(line string, columns int) string {
	var b strings.Builder
	b.WriteByte(' ')
	for _, ch := range line {
		if columns == 0 {
			break
		}
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		columns--
	}
	b.WriteString(strings.Repeat(" ", columns))
	return b.String()
}

// caretWidth is the number of runes of the failing token on its line, at
// least one so end of input is still marked.
func caretWidth(err *parse.SyntaxError, line string) int {
	start, end := err.Position(), err.End()
	if end.Line != start.Line {
		return 1
	}
	startByte := start.Offset - err.Index.LineStart(start.Line)
	endByte := end.Offset - err.Index.LineStart(start.Line)
	if startByte < 0 || endByte > len(line) || endByte <= startByte {
		return 1
	}
	return max(1, utf8.RuneCountInString(line[startByte:endByte]))
}

// Message renders any error produced while loading a grammar or running
// it: syntax errors with their source line, unknown productions with a
// suggestion, and each problem of an ebnf error list on its own line.
func Message(err error) string {
	var syntax *parse.SyntaxError
	if errors.As(err, &syntax) {
		return Format(syntax)
	}

	var unknown *parse.UnknownProductionError
	if errors.As(err, &unknown) {
		msg := fmt.Sprintf("%s %s\n", errorColor.Sprint("error:"), err)
		if guess, ok := Suggest(unknown.Name, unknown.Known); ok {
			msg += hintColor.Sprintf("  did you mean %q?\n", guess)
		}
		return msg
	}

	var b strings.Builder
	for _, e := range parse.Errors(err) {
		fmt.Fprintf(&b, "%s %s\n", errorColor.Sprint("error:"), e)
	}
	return b.String()
}
