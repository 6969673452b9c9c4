package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	jsonErrors bool
	noColor    bool
}

func main() {
	var opts globalOptions
	rootCmd := newRootCmd(&opts)

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err, opts.jsonErrors)
		os.Exit(1)
	}
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tagtree",
		Short: "Build and render hierarchical markup documents",
		Long: `tagtree builds markup trees and renders them as indented text.

Documents are described in JSON or built in Go. Elements such as head
and body may appear at most once under a parent; adding a second one is
a structural conflict and nothing is rendered.

Commands:
  render   render a document to stdout or a file
  demo     render the built-in sample document
  serve    preview a document over HTTP with live reload
  publish  render a document to disk or S3
  kinds    list the known element kinds`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.verbose)
			if opts.noColor {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to tagtree.json (default: nearest in the working directory or a parent)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.jsonErrors, "json-errors", false, "Print errors as JSON")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		renderCmd(opts),
		demoCmd(),
		serveCmd(opts),
		publishCmd(opts),
		kindsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setupLogging installs a text slog handler on w as the default logger.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// reportError prints err with its registered code, if any.
func reportError(w io.Writer, err error, asJSON bool) {
	coded := errors.Classify(err, "E142")
	if asJSON {
		fmt.Fprintln(w, coded.FormatJSON())
		return
	}
	errors.PrintError(w, coded)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	mark := "✓"
	if errors.ColorsEnabled() {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
