// Package server provides HTTP routing, middleware and lifecycle handling for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [RequestID] tags every request with a uuid, echoed in the X-Request-ID header
//   - [Logger] writes one structured line per request
//   - [RateLimit] rejects requests over a global token bucket with 429
//   - [Recover] turns handler panics into 500 responses
//
// # Lifecycle
//
// [Serve] listens until its context is cancelled and then shuts down gracefully.
// Callers must finish running migrations before calling it; nothing here touches the schema.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
