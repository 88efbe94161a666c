package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/diag"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, diag.Message(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "chomp",
		Short:         "Check and parse text with EBNF grammars",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, configFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: .chomp.yaml in the working directory)")
	flags.StringP("grammar", "g", "", "EBNF grammar file")
	flags.StringP("start", "s", "", "start production")
	flags.String("skip", "", "production skipped before every token, such as whitespace")
	flags.Bool("partial", false, "accept input with text after the start production")
	flags.Bool("no-color", false, "disable colored output")
	flags.CountP("verbose", "v", "log more; repeat for debug output")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newEbnfCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newReplCmd())

	return rootCmd
}
