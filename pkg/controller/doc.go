// Package controller holds the HTTP middlewares shared by the API server.
//
//   - WithCORS answers cross-origin requests for the configured origins.
//   - WithLogger tags each request with an id and writes an access log.
//   - RegisterPprof mounts the profiling endpoints.
package controller
