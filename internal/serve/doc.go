// Package serve implements the tagtree preview server.
//
// The server renders a document once at startup and serves the result:
//
//   - GET /           rendered text (?format=text|html)
//   - GET /tree.json  JSON description of the current tree
//   - GET /healthz    build status
//   - GET /metrics    Prometheus metrics, when enabled
//   - GET /_tagtree/reload  live reload websocket, when watching
//
// A polling Watcher triggers rebuilds when the document file changes. A
// rebuild that fails, for example on a structural conflict, leaves the
// last good render in place and pushes the error to connected browsers.
//
//	srv, err := serve.New(ctx, serve.Options{
//	    Source:     "site.json",
//	    Load:       serve.FileLoader("site.json"),
//	    WatchPaths: []string{"site.json"},
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx, "localhost:4000")
package serve
