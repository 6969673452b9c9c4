package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/internal/errors"
	"github.com/vango-dev/tagtree/pkg/render"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		doc     documentFlags
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Render a document",
		Long: `Render a JSON document description as indented text.

The whole tree is built before anything is written, so a structural
conflict produces no output at all.

Examples:
  tagtree render site.json
  tagtree render site.json --indent=2 -o site.html
  tagtree render --demo --doctype="<!DOCTYPE html>"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := doc.apply(cmd, cfg); err != nil {
				return err
			}
			unit, err := cfg.IndentUnit()
			if err != nil {
				return err
			}

			node, source, err := loadDocument(doc.documentPath(cfg, args))
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Indent: unit, Doctype: cfg.Doctype})
			output := r.RenderToString(node, "")
			slog.Debug("rendered", "source", source, "bytes", len(output))

			if outPath == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), output)
				return err
			}
			if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
				return errors.New("E142").WithLocation(outPath, "").Wrap(err)
			}
			success(cmd.ErrOrStderr(), "Rendered %s to %s", source, outPath)
			return nil
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Render the built-in sample document",
		Long:  `Build the sample document (a titled head and a three-line body) and print it with tab indentation.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, _, err := loadDocument("")
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), render.Render(node, ""))
			return err
		},
	}
}
