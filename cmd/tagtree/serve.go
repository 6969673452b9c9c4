package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/internal/errors"
	"github.com/vango-dev/tagtree/internal/serve"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		doc     documentFlags
		port    int
		host    string
		watch   bool
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Preview a document over HTTP",
		Long: `Serve the rendered document and rebuild it when the file changes.

Endpoints:
  /                 rendered text (?format=html for a browser preview)
  /tree.json        JSON description of the tree
  /healthz          build status
  /metrics          Prometheus metrics
  /_tagtree/reload  live reload websocket

A rebuild that fails keeps the last good render and shows the error in
connected browsers.

Examples:
  tagtree serve site.json
  tagtree serve site.json --port=8080 --host=0.0.0.0
  tagtree serve --demo --watch=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Serve.Port = port
			}
			if flags.Changed("host") {
				cfg.Serve.Host = host
			}
			if flags.Changed("watch") {
				cfg.Serve.Watch = watch
			}
			if flags.Changed("metrics") {
				cfg.Serve.Metrics = metrics
			}
			if flags.Changed("tracing") {
				cfg.Serve.Tracing = tracing
			}
			if err := doc.apply(cmd, cfg); err != nil {
				return err
			}
			unit, err := cfg.IndentUnit()
			if err != nil {
				return err
			}
			debounce, err := cfg.DebounceDuration()
			if err != nil {
				return err
			}

			path := doc.documentPath(cfg, args)
			options := serve.Options{
				Source:   "demo",
				Load:     serve.DemoLoader(),
				Indent:   unit,
				Doctype:  cfg.Doctype,
				Debounce: debounce,
				Metrics:  cfg.Serve.Metrics,
				Tracing:  cfg.Serve.Tracing,
			}
			if path != "" {
				if _, _, err := loadDocument(path); err != nil {
					return err
				}
				options.Source = path
				options.Load = serve.FileLoader(path)
				if cfg.Serve.Watch {
					options.WatchPaths = []string{path}
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := serve.New(ctx, options)
			if err != nil {
				return err
			}

			out := cmd.ErrOrStderr()
			success(out, "Serving %s at %s", options.Source, cfg.ServeURL())
			if len(options.WatchPaths) > 0 {
				info(out, "Watching %s for changes", path)
			}

			if err := srv.Start(ctx, cfg.ServeAddress()); err != nil {
				return errors.New("E143").WithDetail(cfg.ServeAddress()).Wrap(err)
			}
			return nil
		},
	}

	doc.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from tagtree.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from tagtree.json)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Rebuild when the document changes")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Record OpenTelemetry spans")

	return cmd
}
