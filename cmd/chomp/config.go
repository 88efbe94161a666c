package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/chomp/ebnf/parse"
)

var log = commonlog.GetLogger("chomp")

// initConfig layers flags over CHOMP_* environment variables over the
// config file.
func initConfig(cmd *cobra.Command, configFile string) error {
	viper.Reset()
	viper.SetEnvPrefix("chomp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".chomp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	processGlobalFlags()
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debugf("using config %s", used)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	commonlog.Configure(viper.GetInt("verbose"), nil)
}

func grammarConfig() (parse.Config, error) {
	cfg := parse.Config{
		Grammar: viper.GetString("grammar"),
		Start:   viper.GetString("start"),
		Skip:    viper.GetString("skip"),
		Partial: viper.GetBool("partial"),
	}
	if cfg.Grammar == "" {
		return cfg, errors.New("no grammar: use --grammar, CHOMP_GRAMMAR or grammar in .chomp.yaml")
	}
	if cfg.Start == "" {
		return cfg, errors.New("no start production: use --start, CHOMP_START or start in .chomp.yaml")
	}
	return cfg, nil
}

func loadParser() (*parse.Parser, error) {
	cfg, err := grammarConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Load()
}

// readInput reads the named file, or stdin for "-".
func readInput(stdin io.Reader, filename string) (string, string, error) {
	if filename == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), filename, nil
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}
