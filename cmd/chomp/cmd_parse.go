package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its concrete syntax tree",
		Long: `Parse a file, or stdin when the file is -, and print its concrete syntax tree.

Alternatives in the grammar are tried in order and the first match is kept;
the parser does not go back to a later alternative when the text after the
match fails. List longer alternatives before shorter ones they start with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			p, err := loadParser()
			if err != nil {
				return err
			}

			src, name, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			node, err := p.Parse(name, src)
			if err != nil {
				return err
			}
			return encoder.Encode(node)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format: tree, line or json")

	return cmd
}
