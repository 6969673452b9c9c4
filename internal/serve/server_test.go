package serve

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/tagtree/pkg/document"
	"github.com/vango-dev/tagtree/pkg/html"
	"github.com/vango-dev/tagtree/pkg/markup"
	"github.com/vango-dev/tagtree/pkg/render"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// toggleLoader serves the demo document, or a document with two heads when
// broken is set.
func toggleLoader(broken *atomic.Bool) Loader {
	return func(context.Context) (*markup.Node, error) {
		if broken.Load() {
			return html.HTML(html.Head(), html.Head()).Build()
		}
		return document.Demo(), nil
	}
}

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	s, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestServeDocument(t *testing.T) {
	_, ts := newTestServer(t, Options{Source: "demo", Load: DemoLoader()})
	want := render.Render(document.Demo(), "")

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body != want {
		t.Errorf("body =\n%s\nwant\n%s", body, want)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Tagtree-Build") != "1" {
		t.Errorf("X-Tagtree-Build = %q, want 1", resp.Header.Get("X-Tagtree-Build"))
	}

	resp, body = get(t, ts.URL+"/?format=html")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("html Content-Type = %q", ct)
	}
	if body != want {
		t.Error("html preview without watching should not carry the reload script")
	}

	resp, _ = get(t, ts.URL+"/?format=pdf")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", resp.StatusCode)
	}

	resp, _ = get(t, ts.URL+ReloadPath)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("reload endpoint without watching = %d, want 404", resp.StatusCode)
	}
}

func TestServeDoctypeAndIndent(t *testing.T) {
	_, ts := newTestServer(t, Options{Load: DemoLoader(), Indent: "  ", Doctype: "<!DOCTYPE html>"})

	_, body := get(t, ts.URL+"/")
	if !strings.HasPrefix(body, "<!DOCTYPE html>\n<html>\n  <head>\n") {
		t.Errorf("body = %q", body)
	}
}

func TestServeTree(t *testing.T) {
	_, ts := newTestServer(t, Options{Load: DemoLoader()})

	resp, err := http.Get(ts.URL + "/tree.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	node, err := document.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if render.Render(node, "") != render.Render(document.Demo(), "") {
		t.Error("tree.json does not describe the served document")
	}
}

func TestServeMetrics(t *testing.T) {
	_, ts := newTestServer(t, Options{Load: DemoLoader(), Metrics: true})

	get(t, ts.URL+"/")
	_, body := get(t, ts.URL+"/metrics")

	for _, want := range []string{
		`tagtree_document_builds_total{result="success"} 1`,
		`tagtree_http_requests_total{route="/",status="200"} 1`,
		"tagtree_rendered_document_bytes",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(context.Background(), Options{}); !errors.Is(err, ErrNoLoader) {
		t.Errorf("New() without loader = %v, want ErrNoLoader", err)
	}

	var broken atomic.Bool
	broken.Store(true)
	_, err := New(context.Background(), Options{Load: toggleLoader(&broken), Logger: quietLogger()})
	if !errors.Is(err, markup.ErrStructuralConflict) {
		t.Errorf("New() with conflicting document = %v, want structural conflict", err)
	}
}

func TestRebuildKeepsLastGoodRender(t *testing.T) {
	var broken atomic.Bool
	s, ts := newTestServer(t, Options{Load: toggleLoader(&broken), Metrics: true})
	good := s.Snapshot().Output

	broken.Store(true)
	if err := s.Rebuild(context.Background()); !errors.Is(err, markup.ErrStructuralConflict) {
		t.Fatalf("Rebuild() = %v, want structural conflict", err)
	}

	snap := s.Snapshot()
	if snap.Output != good || snap.Build != 1 || snap.Err == nil {
		t.Errorf("snapshot after failed rebuild = build %d, err %v", snap.Build, snap.Err)
	}

	resp, body := get(t, ts.URL+"/")
	if body != good {
		t.Error("failed rebuild should keep serving the last good render")
	}
	if resp.Header.Get("X-Tagtree-Stale") != "true" {
		t.Error("stale render should be flagged")
	}

	_, body = get(t, ts.URL+"/healthz")
	var health healthResponse
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "stale" || health.Error == "" {
		t.Errorf("health = %+v", health)
	}

	_, body = get(t, ts.URL+"/metrics")
	if !strings.Contains(body, "tagtree_structural_conflicts_total 1") {
		t.Error("conflict should be counted")
	}

	broken.Store(false)
	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() = %v", err)
	}
	resp, _ = get(t, ts.URL+"/")
	if resp.Header.Get("X-Tagtree-Stale") != "" || resp.Header.Get("X-Tagtree-Build") != "2" {
		t.Errorf("headers after recovery = %v", resp.Header)
	}
}

func TestReloadBroadcast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var broken atomic.Bool
	s, ts := newTestServer(t, Options{
		Load:       toggleLoader(&broken),
		WatchPaths: []string{path},
		Metrics:    true,
	})

	_, body := get(t, ts.URL+"/?format=html")
	if !strings.HasSuffix(body, ClientScript) {
		t.Error("html preview should carry the reload script when watching")
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.ReloadClients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("reload client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	read := func() ReloadMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg ReloadMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		return msg
	}

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != ReloadTypeFull || msg.Build != 2 {
		t.Errorf("message = %+v, want reload of build 2", msg)
	}

	broken.Store(true)
	_ = s.Rebuild(context.Background())
	if msg := read(); msg.Type != ReloadTypeError || !strings.Contains(msg.Error, "structural conflict") {
		t.Errorf("message = %+v, want error", msg)
	}

	broken.Store(false)
	_ = s.Rebuild(context.Background())
	if msg := read(); msg.Type != ReloadTypeClear {
		t.Errorf("message = %+v, want clear", msg)
	}
	if msg := read(); msg.Type != ReloadTypeFull || msg.Build != 3 {
		t.Errorf("message = %+v, want reload of build 3", msg)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.ReloadClients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("reload client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.json")
	src := `{"tag":"html","children":[{"tag":"body","children":[{"text":"hi"}]}]}`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := New(context.Background(), Options{Source: path, Load: FileLoader(path), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Output; got != "<html>\n\t<body>\n\t\thi\n\t</body>\n</html>\n" {
		t.Errorf("output = %q", got)
	}

	_, err = FileLoader(filepath.Join(t.TempDir(), "missing.json"))(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestStartAndStop(t *testing.T) {
	s, err := New(context.Background(), Options{Load: DemoLoader(), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	s.Stop()
}

func TestStopEndsWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.json")
	if err := os.WriteFile(path, []byte(`{"tag":"html"}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := New(context.Background(), Options{
		Load:       FileLoader(path),
		WatchPaths: []string{dir},
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.watcher.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never started")
		}
		time.Sleep(time.Millisecond)
	}
	s.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	time.Sleep(20 * time.Millisecond)
	if s.watcher.IsRunning() {
		t.Error("watcher still running after Stop")
	}
}
