package parse

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ReadGrammar(filename, f)
}

// ReadGrammar parses an EBNF grammar from r.
func ReadGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Productions returns the production names of g in sorted order.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLexical follows the ebnf package: productions whose name does not start
// with an upper-case letter are lexical.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// verifyRoot names the synthetic production used to verify a whole grammar.
const verifyRoot = "ChompRoot·"

// Verify checks g with ebnf.Verify. With a start production every
// production must be reachable from it; without one every production is
// treated as reachable, so grammars with several entry points are accepted.
func Verify(g ebnf.Grammar, start string) error {
	if start != "" {
		return ebnf.Verify(g, start)
	}

	names := Productions(g)
	root := make(ebnf.Alternative, 0, len(names))
	for _, name := range names {
		root = append(root, &ebnf.Name{String: name})
	}

	all := make(ebnf.Grammar, len(g)+1)
	for name, prod := range g {
		all[name] = prod
	}
	all[verifyRoot] = &ebnf.Production{
		Name: &ebnf.Name{String: verifyRoot},
		Expr: root,
	}
	return ebnf.Verify(all, verifyRoot)
}
