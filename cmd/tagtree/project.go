package main

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/internal/config"
	"github.com/vango-dev/tagtree/internal/errors"
	"github.com/vango-dev/tagtree/pkg/document"
	"github.com/vango-dev/tagtree/pkg/markup"
)

// loadConfig loads --config, or the nearest tagtree.json, or defaults.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.LoadFromWorkingDir()
}

// documentFlags are the document selection flags shared by render,
// serve and publish.
type documentFlags struct {
	demo    bool
	indent  string
	doctype string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.demo, "demo", false, "Use the built-in sample document")
	cmd.Flags().StringVar(&f.indent, "indent", "", `Indentation unit: "tab", "2", "4" or literal whitespace (default from tagtree.json)`)
	cmd.Flags().StringVar(&f.doctype, "doctype", "", "Line written before the root element")
}

// apply copies explicitly set flags into cfg and validates the result.
func (f *documentFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("indent") {
		cfg.Indent = f.indent
	}
	if cmd.Flags().Changed("doctype") {
		cfg.Doctype = f.doctype
	}
	return cfg.Validate()
}

// documentPath picks the document: an argument wins over the configured
// document; no document at all, or --demo, means the sample.
func (f *documentFlags) documentPath(cfg *config.Config, args []string) string {
	if f.demo {
		return ""
	}
	if len(args) > 0 {
		return args[0]
	}
	return cfg.DocumentPath()
}

// loadDocument builds the tree stored at path, or the sample when path is
// empty. The second result names the source for logs.
func loadDocument(path string) (*markup.Node, string, error) {
	if path == "" {
		slog.Debug("using sample document")
		return document.Demo(), "demo", nil
	}

	slog.Debug("loading document", "path", path)
	node, err := document.LoadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, path, errors.New("E141").
				WithLocation(path, "").
				WithSuggestion("Pass a document path, set \"document\" in tagtree.json, or use --demo").
				Wrap(err)
		}
		return nil, path, err
	}
	return node, path, nil
}
