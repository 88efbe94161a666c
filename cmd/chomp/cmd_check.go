package main

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/dhamidi/chomp/diag"
	"github.com/dhamidi/chomp/ebnf/parse"
	"github.com/dhamidi/chomp/format"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string
	var extensions []string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Check files against the grammar without building syntax trees",
		Long: `Check files against the grammar without building syntax trees.

Paths may be files, directories, zip archives, or - for stdin. Directories and
archives are searched for files with the extensions given by --ext.

Alternatives in the grammar are tried in order and the first match is kept;
the checker does not go back to a later alternative when the text after the
match fails. List longer alternatives before shorter ones they start with.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			p, err := loadParser()
			if err != nil {
				return err
			}

			c := &checker{
				parser:     p,
				extensions: extensions,
				timeout:    timeout,
				stdin:      cmd.InOrStdin(),
				stdout:     cmd.OutOrStdout(),
				stderr:     cmd.ErrOrStderr(),
				json:       outputFormat == "json",
			}
			return c.run(args)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text or json")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "extensions to check inside directories and archives, such as .txt (default: all files)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file; the check of a file is abandoned when it expires")

	return cmd
}

// source is one input to check, read lazily.
type source struct {
	name string
	read func() (string, error)
}

type checker struct {
	parser     *parse.Parser
	extensions []string
	timeout    time.Duration
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	json       bool
}

func (c *checker) run(paths []string) error {
	var result *multierror.Error
	var sources []source

	for _, path := range paths {
		found, err := c.collect(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		sources = append(sources, found...)
	}

	failed := 0
	for i, src := range sources {
		log.Debugf("[%d/%d] %s", i+1, len(sources), src.name)
		if err := c.check(src); err != nil {
			failed++
			result = multierror.Append(result, err)
		}
	}

	if result == nil {
		log.Infof("%d files ok", len(sources))
		return nil
	}

	result.ErrorFormat = formatDiagnostics
	if c.json {
		c.encodeJSON(result.Errors)
	} else {
		fmt.Fprint(c.stderr, result.Error())
	}
	return fmt.Errorf("%d of %d files failed, %d errors", failed, len(sources), len(result.Errors))
}

func formatDiagnostics(errs []error) string {
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(diag.Message(err))
	}
	return b.String()
}

func (c *checker) encodeJSON(errs []error) {
	enc := format.NewJSONEncoder(c.stdout)
	for _, err := range errs {
		var syntax *parse.SyntaxError
		if errors.As(err, &syntax) {
			if encErr := enc.EncodeError(syntax); encErr != nil {
				log.Errorf("encode: %s", encErr)
			}
			continue
		}
		fmt.Fprint(c.stderr, diag.Message(err))
	}
}

// collect expands a path into the sources it names.
func (c *checker) collect(path string) ([]source, error) {
	if path == "-" {
		return []source{{name: "<stdin>", read: func() (string, error) {
			data, err := io.ReadAll(c.stdin)
			return string(data), err
		}}}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		return c.collectDirectory(path)
	case filepath.Ext(path) == ".zip":
		return c.collectZip(path)
	default:
		return []source{fileSource(path)}, nil
	}
}

func fileSource(path string) source {
	return source{name: path, read: func() (string, error) {
		data, err := os.ReadFile(path)
		return string(data), err
	}}
}

func (c *checker) wanted(name string) bool {
	return len(c.extensions) == 0 || slices.Contains(c.extensions, filepath.Ext(name))
}

func (c *checker) collectDirectory(root string) ([]source, error) {
	var sources []source
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.wanted(p) {
			sources = append(sources, fileSource(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return sources, nil
}

func (c *checker) collectZip(path string) ([]source, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var sources []source
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !c.wanted(f.Name) {
			continue
		}
		name := path + "!" + f.Name
		sources = append(sources, source{name: name, read: func() (string, error) {
			return readZipEntry(path, name, f.Name)
		}})
	}
	return sources, nil
}

func readZipEntry(archive, name, entry string) (string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	rc, err := r.Open(entry)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// check runs the parser in check mode, giving up after the timeout.
func (c *checker) check(src source) error {
	text, err := src.read()
	if err != nil {
		return fmt.Errorf("read %s: %w", src.name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err = c.parser.CheckContext(ctx, src.name, text)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timeout checking %s after %s", src.name, c.timeout)
	}
	return err
}
