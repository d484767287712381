package strada

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Ctx is the per-dispatch parameter bag handed to a handler: the in-flight
// request, the captures extracted by the matching pattern, the unmatched
// path remainder, and any ambient values threaded in from parent routers.
// A Ctx is built fresh for every dispatch and never shared across
// requests.
type Ctx struct {
	// Request is the in-flight HTTP request.
	Request *http.Request

	// Writer is the underlying transport writer. Handlers normally
	// return a value instead of writing directly; the router itself
	// needs the writer for WebSocket upgrades and streaming.
	Writer http.ResponseWriter

	router *Router
	params map[string]string
	values map[string]any
	rest   []string
	err    error
	conn   *websocket.Conn
}

// Param returns the capture bound under name by the matching pattern, or
// the empty string.
func (c *Ctx) Param(name string) string {
	return c.params[name]
}

// Value returns a named value from the bag: a capture from the current
// match or an ambient value accumulated through Next. Captures shadow
// ambient values of the same name.
func (c *Ctx) Value(key string) any {
	return c.values[key]
}

// Rest returns the request path segments left unconsumed by the matching
// pattern. It is empty unless the pattern ended in a wildcard or the
// route was a catch-all.
func (c *Ctx) Rest() []string {
	return c.rest
}

// Err returns the failure that routed this dispatch into the error
// handler. It is nil outside of a Catch handler.
func (c *Ctx) Err() error {
	return c.err
}

// Socket returns the upgraded WebSocket connection on socket routes, nil
// elsewhere. The handler owns the connection for its lifetime.
func (c *Ctx) Socket() *websocket.Conn {
	return c.conn
}

// Next constructs a fresh nested router seeded with this dispatch's named
// values — ambient values merged with the current captures — plus any
// extra mappings, later ones winning on key collision. The handler
// populates the returned router fluently and returns it; dispatch then
// recurses into it with the unmatched remainder:
//
//	app.Get("/users/:id/*", func(c *strada.Ctx) (any, error) {
//	    return c.Next().Get("/posts", listPosts), nil
//	})
func (c *Ctx) Next(extra ...map[string]any) *Router {
	ambient := make(map[string]any, len(c.values))
	for k, v := range c.values {
		ambient[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			ambient[k] = v
		}
	}
	return &Router{core: c.router.core, ambient: ambient}
}
