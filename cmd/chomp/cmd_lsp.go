package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/lsp"
)

func newLSPCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that reports syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := grammarConfig()
			if err != nil {
				return err
			}
			server, err := lsp.NewLSPServer(version, lsp.Config{Config: cfg, Watch: watch})
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the grammar when its file changes")

	return cmd
}
