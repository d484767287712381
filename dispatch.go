package strada

import (
	"fmt"
	"net/http"

	"github.com/strada-dev/strada/pkg/socket"
)

// dispatch resolves one request against this router: static entries
// first (GET/HEAD only), then the dynamic table in registration order,
// then the default handler, then 404. The first structural match wins;
// there is no scoring and no backtracking across entries.
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request, parts []string) *Response {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		for _, s := range r.statics {
			_, rest, ok := match(s.pattern, parts)
			if !ok || len(rest) == 0 {
				continue
			}
			resp, err := s.resolve(req, rest)
			if err != nil {
				r.core.logger.Error("static resolver failed", "path", req.URL.Path, "error", err)
				continue
			}
			if resp != nil {
				return resp
			}
		}
	}

	for i := range r.routes {
		rt := &r.routes[i]
		if rt.method != "" && rt.method != req.Method {
			continue
		}
		params, rest, ok := rt.match(parts)
		if !ok {
			continue
		}
		// A socket route without an upgrade signature is a non-match,
		// not an error: keep scanning.
		if rt.kind == kindSocket && !socket.IsUpgrade(req) {
			continue
		}

		ctx := r.newCtx(w, req, params, rest)

		if rt.kind == kindSocket {
			conn, err := r.core.upgrades.Upgrade(w, req)
			if err != nil {
				// The upgrader has already written its error response.
				r.core.logger.Error("websocket upgrade failed", "path", req.URL.Path, "error", err)
				return &Response{written: true}
			}
			ctx.conn = conn
			go r.serveSocket(ctx, rt.handler)
			return &Response{Status: http.StatusSwitchingProtocols, written: true}
		}

		return r.run(ctx, rt.kind, rt.handler)
	}

	if r.defaultHandler != nil {
		ctx := r.newCtx(w, req, nil, parts)
		return r.run(ctx, kindPlain, r.defaultHandler)
	}

	return notFoundResponse()
}

// newCtx builds the parameter bag for one dispatch: ambient values first,
// then the current match's captures on top, then the live request.
func (r *Router) newCtx(w http.ResponseWriter, req *http.Request, params map[string]string, rest []string) *Ctx {
	values := make(map[string]any, len(r.ambient)+len(params))
	for k, v := range r.ambient {
		values[k] = v
	}
	for k, v := range params {
		values[k] = v
	}
	return &Ctx{
		Request: req,
		Writer:  w,
		router:  r,
		params:  params,
		values:  values,
		rest:    rest,
	}
}

// run invokes a handler inside the error boundary and coerces its return
// value. Both invocation failures and coercion failures (a broken reader,
// an unencodable JSON value) take the same failure path.
func (r *Router) run(ctx *Ctx, k kind, h Handler) *Response {
	v, err := safeCall(h, ctx)
	if err != nil {
		return r.fail(ctx, err)
	}
	resp, err := r.coerce(ctx, k, v)
	if err != nil {
		return r.fail(ctx, err)
	}
	return resp
}

// fail converts a handler failure into a response. If this router has a
// Catch handler it runs exactly once with the error bound to the bag; a
// second failure is terminal and yields a generic 500. Error handling
// cannot loop.
func (r *Router) fail(ctx *Ctx, cause error) *Response {
	if r.catchHandler == nil {
		return errorResponse(cause)
	}

	ctx.err = cause
	v, err := safeCall(r.catchHandler, ctx)
	if err == nil {
		resp, cerr := r.coerce(ctx, kindPlain, v)
		if cerr == nil {
			return resp
		}
		err = cerr
	}

	r.core.logger.Error("error handler failed", "error", err, "cause", cause)
	return errorResponse(err)
}

// safeCall invokes a handler, converting a panic into a normalized error.
func safeCall(h Handler, ctx *Ctx) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("strada: handler panic: %w", e)
			} else {
				err = fmt.Errorf("strada: handler panic: %v", rec)
			}
		}
	}()
	return h(ctx)
}

// serveSocket runs a socket handler for the lifetime of its connection.
// The dispatcher has already returned the upgrade response, so failures
// here can only be logged.
func (r *Router) serveSocket(ctx *Ctx, h Handler) {
	defer func() {
		if rec := recover(); rec != nil {
			r.core.logger.Error("socket handler panic", "path", ctx.Request.URL.Path, "panic", rec)
		}
		ctx.conn.Close()
	}()

	if _, err := h(ctx); err != nil {
		r.core.logger.Error("socket handler failed", "path", ctx.Request.URL.Path, "error", err)
	}
}
