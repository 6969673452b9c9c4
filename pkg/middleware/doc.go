// Package middleware provides observability for the tagtree preview server.
//
// # Prometheus Metrics
//
// Metrics counts HTTP requests by chi route pattern and status, and
// records every document build: duration, rendered size, and how many
// builds were rejected by a structural conflict.
//
//	m := middleware.NewMetrics(middleware.WithNamespace("docs"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request. TraceBuild wraps one
// document build in a child span:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Spans go to whatever TracerProvider is installed with
// otel.SetTracerProvider; without one they are no-ops.
package middleware
