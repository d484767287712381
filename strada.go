// Package strada is a minimalist HTTP request router.
//
// A Router is an ordered table of routes. Dispatch walks the table in
// registration order, picks the first structurally matching entry, and
// coerces whatever the handler returns into an HTTP response: strings
// become HTML, structs and maps become JSON, readers and byte slices
// become bodies, files become attachments, Streams and sse Sources become
// live streaming responses, and a nested Router delegates the unmatched
// path suffix.
//
// Usage:
//
//	app := strada.New()
//	app.Get("/hello/:name", func(c *strada.Ctx) (any, error) {
//	    return map[string]string{"hello": c.Param("name")}, nil
//	})
//	app.Static("/public/*", static.Dir("./public"))
//	http.ListenAndServe(":8080", app)
//
// Routes are registered before serving traffic and never mutated after;
// registration and dispatch are not safe to interleave.
package strada

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strada-dev/strada/pkg/routepath"
	"github.com/strada-dev/strada/pkg/socket"
)

// Handler processes a matched request. The returned value is coerced into
// a response; see the package documentation for the recognized kinds.
// Returning a nil value and nil error produces an empty 200 response.
type Handler func(*Ctx) (any, error)

// Resolver resolves a static file request. parts is the decoded relative
// file path beneath the route's mount pattern. Returning (nil, nil) means
// not found: dispatch falls through to the next static entry and then to
// the dynamic routes. A non-nil error is logged and treated as not found.
type Resolver func(req *http.Request, parts []string) (*Response, error)

// Router is an ordered route table with an optional default handler, an
// optional error handler, and the ambient values threaded into it at
// construction (see Ctx.Next). It implements http.Handler.
type Router struct {
	core *core

	routes  []route
	statics []staticRoute

	defaultHandler Handler
	catchHandler   Handler

	ambient map[string]any
}

// core holds the facilities shared by a router and every nested router
// derived from it.
type core struct {
	logger   *slog.Logger
	upgrades *socket.Service
	metrics  *metrics
	tracer   trace.Tracer
}

// New creates an empty router. At most one Config may be given; omitted
// fields fall back to defaults.
func New(cfg ...Config) *Router {
	var c Config
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.Logger == nil {
		c.Logger = slog.Default().With("component", "strada")
	}
	if c.TracerName == "" {
		c.TracerName = defaultTracerName
	}

	core := &core{
		logger:   c.Logger,
		upgrades: socket.NewService(c.Socket),
	}
	if c.Metrics != nil {
		core.metrics = newMetrics(c.Metrics)
	}
	if c.Tracer != nil {
		core.tracer = c.Tracer.Tracer(c.TracerName)
	}

	return &Router{core: core}
}

// =============================================================================
// Registration
// =============================================================================

// Get registers a handler for GET requests on the given pattern.
// The pattern "*" matches every path within the method.
func (r *Router) Get(pattern string, handler Handler) *Router {
	return r.add(http.MethodGet, kindPlain, pattern, handler)
}

// Post registers a handler for POST requests on the given pattern.
func (r *Router) Post(pattern string, handler Handler) *Router {
	return r.add(http.MethodPost, kindPlain, pattern, handler)
}

// Put registers a handler for PUT requests on the given pattern.
func (r *Router) Put(pattern string, handler Handler) *Router {
	return r.add(http.MethodPut, kindPlain, pattern, handler)
}

// Delete registers a handler for DELETE requests on the given pattern.
func (r *Router) Delete(pattern string, handler Handler) *Router {
	return r.add(http.MethodDelete, kindPlain, pattern, handler)
}

// Path registers a handler for the given pattern regardless of method.
func (r *Router) Path(pattern string, handler Handler) *Router {
	return r.add("", kindPlain, pattern, handler)
}

// Socket registers a WebSocket route. The route only matches GET requests
// carrying a WebSocket upgrade signature; anything else keeps scanning the
// table. The handler receives the upgraded connection via Ctx.Socket and
// runs in its own goroutine for the lifetime of the connection.
func (r *Router) Socket(pattern string, handler Handler) *Router {
	return r.add(http.MethodGet, kindSocket, pattern, handler)
}

// Events registers a server-sent-events route. The handler returns an
// sse.Source (or a Stream of raw data chunks) which is encoded onto a
// text/event-stream response.
func (r *Router) Events(pattern string, handler Handler) *Router {
	return r.add(http.MethodGet, kindEvents, pattern, handler)
}

// Static registers a static file resolver under the given pattern. The
// pattern must end in a wildcard; the wildcard remainder is the relative
// file path handed to the resolver. Static entries are consulted before
// dynamic routes, for GET and HEAD only, and a not-found result falls
// through to the dynamic table.
func (r *Router) Static(pattern string, resolve Resolver) *Router {
	compiled := compilePattern(pattern)
	r.statics = append(r.statics, staticRoute{pattern: compiled, resolve: resolve})
	return r
}

// Default registers the handler invoked when no route matches. The full
// request path is available as the remainder.
func (r *Router) Default(handler Handler) *Router {
	r.defaultHandler = handler
	return r
}

// Catch registers the error handler for this router. A failing handler's
// error is bound to the Ctx (see Ctx.Err) and the error handler runs once;
// if it fails too, the response is a generic 500. Error handling never
// recurses further than that.
func (r *Router) Catch(handler Handler) *Router {
	r.catchHandler = handler
	return r
}

func (r *Router) add(method string, k kind, pattern string, handler Handler) *Router {
	r.routes = append(r.routes, route{
		method:  method,
		kind:    k,
		pattern: compilePattern(pattern),
		handler: handler,
	})
	return r
}

// =============================================================================
// Entry points
// =============================================================================

// ServeHTTP dispatches the request and writes the resulting response.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp := r.Handle(w, req)
	r.writeResponse(w, req, resp)
}

// Handle dispatches the request and returns the response without writing
// it. The ResponseWriter is still required: WebSocket routes upgrade the
// underlying connection during dispatch.
//
// No request-scoped failure escapes Handle; handler errors and panics are
// converted to responses. The one exception is a contract violation — a
// handler returning a value outside the recognized set — which panics so
// that a misconfigured handler fails loudly during development.
func (r *Router) Handle(w http.ResponseWriter, req *http.Request) *Response {
	parts := routepath.Split(req.URL.Path)

	start := time.Now()
	var span trace.Span
	if r.core.tracer != nil {
		var ctx = req.Context()
		ctx, span = r.core.tracer.Start(ctx, "strada.dispatch",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
			))
		req = req.WithContext(ctx)
	}

	resp := r.dispatch(w, req, parts)

	status := resp.status()
	if span != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		span.End()
	}
	if r.core.metrics != nil {
		r.core.metrics.observe(req.Method, status, time.Since(start))
	}
	return resp
}
