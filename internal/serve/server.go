package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/tagtree/pkg/document"
	"github.com/vango-dev/tagtree/pkg/markup"
	"github.com/vango-dev/tagtree/pkg/middleware"
	"github.com/vango-dev/tagtree/pkg/render"
)

// ErrNoLoader is returned by New when Options.Load is nil.
var ErrNoLoader = errors.New("serve: no document loader")

// Loader builds the document tree. It is called once at startup and again
// after every watched change.
type Loader func(ctx context.Context) (*markup.Node, error)

// FileLoader loads the JSON description at path.
func FileLoader(path string) Loader {
	return func(context.Context) (*markup.Node, error) {
		return document.LoadFile(path)
	}
}

// DemoLoader returns the built-in demonstration document.
func DemoLoader() Loader {
	return func(context.Context) (*markup.Node, error) {
		return document.Demo(), nil
	}
}

// Options configures the preview server.
type Options struct {
	// Source names the document in logs and spans (a path or "demo").
	Source string

	// Load builds the document.
	Load Loader

	// Indent is the indentation unit. Empty means a tab.
	Indent string

	// Doctype is written before the root element when set.
	Doctype string

	// WatchPaths are polled for changes; a change triggers a rebuild and a
	// live reload. No paths disables watching and the reload endpoint.
	WatchPaths []string

	// Debounce is the polling interval of the watcher.
	Debounce time.Duration

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool

	// Tracing records OpenTelemetry spans for requests and builds.
	Tracing bool

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server renders a document and serves the result over HTTP. The
// rendered output is rebuilt when watched files change; a failed rebuild
// keeps the last good render.
type Server struct {
	opts     Options
	logger   *slog.Logger
	renderer *render.Renderer
	reload   *ReloadServer
	watcher  *Watcher
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	router   chi.Router

	mu      sync.RWMutex
	node    *markup.Node
	output  string
	builds  int
	lastErr error
	builtAt time.Time

	lifecycle  sync.Mutex
	running    bool
	httpServer *http.Server
}

// New creates a server and performs the initial build. If the initial
// build fails there is nothing to serve and the error is returned.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Load == nil {
		return nil, ErrNoLoader
	}
	if opts.Source == "" {
		opts.Source = "document"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "serve")

	s := &Server{
		opts:   opts,
		logger: logger,
		renderer: render.NewRenderer(render.RendererConfig{
			Indent:  opts.Indent,
			Doctype: opts.Doctype,
		}),
		reload: NewReloadServer(logger),
	}

	if opts.Metrics {
		s.registry = prometheus.NewRegistry()
		s.metrics = middleware.NewMetrics(middleware.WithRegistry(s.registry))
		s.reload.onCount = s.metrics.SetReloadClients
	}

	if len(opts.WatchPaths) > 0 {
		s.watcher = NewWatcher(WatcherConfig{
			Paths:    opts.WatchPaths,
			Interval: opts.Debounce,
		})
		s.watcher.OnChange(func(changes []Change) {
			for _, c := range changes {
				s.logger.Info("changed", "path", c.Path, "type", c.Type.String())
			}
			_ = s.Rebuild(context.Background())
		})
	}

	if err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

// Rebuild loads and renders the document. On success the new render
// replaces the old one and reload clients are told to refresh. On failure
// the previous render stays in place and clients receive the error.
func (s *Server) Rebuild(ctx context.Context) error {
	start := time.Now()

	var node *markup.Node
	var err error
	if s.opts.Tracing {
		node, err = middleware.TraceBuild(ctx, s.opts.Source, s.opts.Load)
	} else {
		node, err = s.opts.Load(ctx)
	}

	var output string
	if err == nil {
		output = s.renderer.RenderToString(node, "")
	}
	if s.metrics != nil {
		s.metrics.ObserveBuild(time.Since(start), len(output), err)
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("rebuild failed", "source", s.opts.Source, "error", err)
		s.reload.NotifyError(err.Error())
		return err
	}

	s.mu.Lock()
	hadErr := s.lastErr != nil
	s.node = node
	s.output = output
	s.builds++
	build := s.builds
	s.lastErr = nil
	s.builtAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("built", "source", s.opts.Source, "build", build,
		"bytes", len(output), "duration", time.Since(start).Round(time.Microsecond))
	if hadErr {
		s.reload.ClearError()
	}
	s.reload.NotifyReload(build)
	return nil
}

// Snapshot is a consistent view of the current render.
type Snapshot struct {
	Node    *markup.Node
	Output  string
	Build   int
	BuiltAt time.Time

	// Err is the error of the most recent rebuild, if it failed. Node and
	// Output then belong to the last successful build.
	Err error
}

// Snapshot returns the current render.
func (s *Server) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Node:    s.node,
		Output:  s.output,
		Build:   s.builds,
		BuiltAt: s.builtAt,
		Err:     s.lastErr,
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ReloadClients returns the number of connected live reload clients.
func (s *Server) ReloadClients() int {
	return s.reload.ClientCount()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}
	if s.opts.Tracing {
		r.Use(middleware.OpenTelemetry(middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics" && r.URL.Path != ReloadPath
		})))
	}

	r.Get("/", s.handleDocument)
	r.Get("/tree.json", s.handleTree)
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.watcher != nil {
		r.Get(ReloadPath, s.reload.HandleWebSocket)
	}
	return r
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if snap.Err != nil {
		w.Header().Set("X-Tagtree-Stale", "true")
	}
	w.Header().Set("X-Tagtree-Build", fmt.Sprint(snap.Build))

	switch format := r.URL.Query().Get("format"); format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, snap.Output)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, snap.Output)
		if s.watcher != nil {
			io.WriteString(w, ClientScript)
		}
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := document.Encode(w, snap.Node); err != nil {
		s.logger.Error("encode tree failed", "error", err)
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Build  int    `json:"build"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	resp := healthResponse{Status: "ok", Build: snap.Build}
	if snap.Err != nil {
		resp.Status = "stale"
		resp.Error = snap.Err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Start serves on addr and runs the watcher until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.lifecycle.Lock()
	if s.running {
		s.lifecycle.Unlock()
		return nil
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	if s.watcher != nil {
		if stopCh, ok := s.watcher.begin(); ok {
			go s.watcher.loop(ctx, stopCh)
		}
	}
	s.lifecycle.Unlock()

	s.logger.Info("serving", "addr", addr, "source", s.opts.Source,
		"watch", s.watcher != nil, "metrics", s.metrics != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the watcher, closes reload connections and shuts the HTTP
// server down.
func (s *Server) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.reload.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("shutdown failed", "error", err)
		}
	}
}
