package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/internal/publish"
)

func publishCmd(opts *globalOptions) *cobra.Command {
	var (
		doc      documentFlags
		target   string
		dir      string
		bucket   string
		prefix   string
		key      string
		region   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "publish [document.json]",
		Short: "Render a document and store it on disk or in S3",
		Long: `Render a document and store the output.

The disk target writes below the publish directory. The s3 target uploads
with PutObject using credentials from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY.

Examples:
  tagtree publish site.json
  tagtree publish site.json --dir=public --key=about.html
  tagtree publish site.json --target=s3 --bucket=docs --prefix=v1/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"target":   &cfg.Publish.Target,
				"dir":      &cfg.Publish.Dir,
				"bucket":   &cfg.Publish.Bucket,
				"prefix":   &cfg.Publish.Prefix,
				"key":      &cfg.Publish.Key,
				"region":   &cfg.Publish.Region,
				"endpoint": &cfg.Publish.Endpoint,
			} {
				if flags.Changed(name) {
					*dst, _ = flags.GetString(name)
				}
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

			store, err := publish.StoreFromConfig(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := publish.New(store, publish.Options{Indent: unit, Doctype: cfg.Doctype})
			res, err := p.Publish(ctx, cfg.PublishKey(), node)
			if err != nil {
				return err
			}

			success(cmd.ErrOrStderr(), "Published %s to %s (%d bytes)", source, res.Location, res.Size)
			return nil
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVar(&target, "target", "", `Publish target: "disk" or "s3" (default from tagtree.json)`)
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory for the disk target")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&key, "key", "", "Object name of the document")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")

	return cmd
}
