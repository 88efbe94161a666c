package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/diag"
	"github.com/dhamidi/chomp/ebnf/parse"
)

const historyFile = ".chomp_history"

const replHelp = `:check          only report whether input matches
:parse          print the syntax tree of each input (default)
:start NAME     switch the start production
:productions    list the productions of the grammar
:reload         reload the grammar file
:quit           leave
`

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Check input line by line against the grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := grammarConfig()
			if err != nil {
				return err
			}
			r, err := newRepl(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !isTerminalIO() {
				return r.runScript(cmd.InOrStdin())
			}
			return r.runInteractive()
		},
	}
}

type repl struct {
	cfg    parse.Config
	parser *parse.Parser
	out    io.Writer
	check  bool
}

func newRepl(cfg parse.Config, out io.Writer) (*repl, error) {
	p, err := cfg.Load()
	if err != nil {
		return nil, err
	}
	return &repl{cfg: cfg, parser: p, out: out}, nil
}

func (r *repl) prompt() string {
	return r.parser.Start() + "> "
}

func (r *repl) runInteractive() error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(r.complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(r.out, "chomp %s, grammar %s. Type :help for commands.\n", version, r.cfg.Grammar)
	for {
		line, err := ln.Prompt(r.prompt())
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !r.handle(line) {
			return nil
		}
	}
}

func (r *repl) runScript(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !r.handle(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// complete offers commands, and production names after :start.
func (r *repl) complete(line string) []string {
	var out []string
	if rest, ok := strings.CutPrefix(line, ":start "); ok {
		for _, name := range r.parser.Productions() {
			if strings.HasPrefix(name, rest) {
				out = append(out, ":start "+name)
			}
		}
		return out
	}
	for _, cmd := range []string{":check", ":parse", ":start ", ":productions", ":reload", ":quit", ":help"} {
		if strings.HasPrefix(cmd, line) {
			out = append(out, cmd)
		}
	}
	return out
}

// handle evaluates one line of input and reports whether to continue.
func (r *repl) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		return r.command(trimmed)
	}
	if trimmed == "" {
		return true
	}

	if r.check {
		if err := r.parser.Check("<input>", line); err != nil {
			fmt.Fprint(r.out, diag.Message(err))
			return true
		}
		fmt.Fprintln(r.out, "ok")
		return true
	}

	node, err := r.parser.Parse("<input>", line)
	if err != nil {
		fmt.Fprint(r.out, diag.Message(err))
		return true
	}
	fmt.Fprint(r.out, node.String())
	return true
}

func (r *repl) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprint(r.out, replHelp)
	case ":check":
		r.check = true
	case ":parse":
		r.check = false
	case ":productions":
		for _, p := range r.parser.Productions() {
			fmt.Fprintln(r.out, p)
		}
	case ":start":
		if arg == "" {
			fmt.Fprintf(r.out, "start production is %s\n", r.parser.Start())
			break
		}
		cfg := r.cfg
		cfg.Start = arg
		r.load(cfg)
	case ":reload":
		r.load(r.cfg)
	default:
		fmt.Fprintf(r.out, "unknown command %s; :help lists commands\n", name)
	}
	return true
}

// load swaps in a parser for cfg, keeping the current one on failure.
func (r *repl) load(cfg parse.Config) {
	p, err := cfg.Load()
	if err != nil {
		fmt.Fprint(r.out, diag.Message(err))
		return
	}
	r.cfg, r.parser = cfg, p
}
