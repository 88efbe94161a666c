package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/ebnf/parse"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebnf",
		Short: "EBNF grammar tools",
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfProductionsCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			grammar, err := parse.LoadGrammar(filename)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return fmt.Errorf("%s: invalid grammar", filename)
			}

			if err := parse.Verify(grammar, startProduction); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return fmt.Errorf("%s: verification failed", filename)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions ok\n", filename, len(grammar))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production; every production must be reachable from it")

	return cmd
}

func newEbnfProductionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "productions <file>",
		Short: "List the productions of an EBNF grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := parse.LoadGrammar(args[0])
			if err != nil {
				return err
			}
			for _, name := range parse.Productions(grammar) {
				kind := "syntactic"
				if parse.IsLexical(name) {
					kind = "lexical"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, kind)
			}
			return nil
		},
	}
}

func printErrors(w io.Writer, err error) {
	for _, e := range parse.Errors(err) {
		fmt.Fprintln(w, e)
	}
}
