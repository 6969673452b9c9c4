package publish

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/vango-dev/tagtree/internal/config"
	"github.com/vango-dev/tagtree/internal/errors"
	"github.com/vango-dev/tagtree/pkg/markup"
	"github.com/vango-dev/tagtree/pkg/render"
)

// DefaultContentType is the content type of published documents.
const DefaultContentType = "text/html; charset=utf-8"

// Options configures a Publisher.
type Options struct {
	// Indent is the indentation unit. Empty means a tab.
	Indent string

	// Doctype is written before the root element when set.
	Doctype string

	// ContentType overrides DefaultContentType.
	ContentType string

	// Logger receives publish logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Publisher renders trees and hands the output to a Store.
type Publisher struct {
	store       Store
	renderer    *render.Renderer
	contentType string
	logger      *slog.Logger
}

// New creates a Publisher writing to store.
func New(store Store, opts Options) *Publisher {
	if opts.ContentType == "" {
		opts.ContentType = DefaultContentType
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		store: store,
		renderer: render.NewRenderer(render.RendererConfig{
			Indent:  opts.Indent,
			Doctype: opts.Doctype,
		}),
		contentType: opts.ContentType,
		logger:      logger.With("component", "publish", "target", store.Name()),
	}
}

// Publish renders node and stores it under key.
func (p *Publisher) Publish(ctx context.Context, key string, node *markup.Node) (Result, error) {
	start := time.Now()
	body := p.renderer.RenderToString(node, "")

	nodes := 0
	node.Walk(func(*markup.Node, int) bool {
		nodes++
		return true
	})

	res, err := p.store.Put(ctx, Object{
		Key:         key,
		ContentType: p.contentType,
		Body:        []byte(body),
		Metadata: map[string]string{
			"tagtree-nodes": strconv.Itoa(nodes),
		},
	})
	if err != nil {
		p.logger.Error("publish failed", "key", key, "error", err)
		return Result{}, errors.New("E160").WithDetail(key).Wrap(err)
	}

	p.logger.Info("published", "key", res.Key, "location", res.Location,
		"bytes", res.Size, "duration", time.Since(start).Round(time.Microsecond))
	return res, nil
}

// StoreFromConfig returns the store selected by cfg.Publish.Target.
func StoreFromConfig(cfg *config.Config) (Store, error) {
	switch cfg.Publish.Target {
	case "", config.TargetDisk:
		store, err := NewDiskStore(cfg.PublishDir())
		if err != nil {
			return nil, errors.New("E160").WithDetail(cfg.PublishDir()).Wrap(err)
		}
		return store, nil
	case config.TargetS3:
		if cfg.Publish.Bucket == "" {
			return nil, errors.New("E162")
		}
		client := NewS3Client(S3Config{
			Region:   cfg.Publish.Region,
			Endpoint: cfg.Publish.Endpoint,
		})
		return NewS3Store(client, cfg.Publish.Bucket, ""), nil
	default:
		return nil, errors.New("E161").WithDetail(cfg.Publish.Target)
	}
}
