package strada

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
)

// Response is the transport response the router hands back to the host
// server. Handlers that need full control construct one directly (or via
// the Text/HTML/JSON helpers) and return it; every other return kind is
// coerced into one.
type Response struct {
	// Status is the HTTP status code; zero means 200.
	Status int

	// Header holds the response headers. May be nil.
	Header http.Header

	// Body is the response payload: nil, []byte, a Stream, or an
	// io.Reader (closed after writing when it is an io.Closer).
	Body any

	// written marks a response that already went out on the wire, such
	// as a completed WebSocket upgrade handshake.
	written bool
}

func (resp *Response) status() int {
	if resp.Status == 0 {
		return http.StatusOK
	}
	return resp.Status
}

func (resp *Response) setHeader(key, value string) {
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set(key, value)
}

// SetHeader sets a response header, allocating the header map on first
// use, and returns the response for chaining.
func (resp *Response) SetHeader(key, value string) *Response {
	resp.setHeader(key, value)
	return resp
}

// =============================================================================
// Constructors
// =============================================================================

// Text builds a 200 plain-text response.
func Text(body string) *Response {
	return bodyResponse([]byte(body), "text/plain; charset=utf-8")
}

// HTML builds a 200 HTML response. This is also the coercion applied to a
// bare string return.
func HTML(body string) *Response {
	return bodyResponse([]byte(body), "text/html; charset=utf-8")
}

// JSON builds a 200 JSON response from a structured value. Handlers can
// usually return the value itself instead; this helper exists for setting
// extra headers or a different status on the result.
func JSON(v any) (*Response, error) {
	return jsonResponse(v)
}

// NotFound builds the standard 404 response, for handlers that decide a
// resource is missing after matching.
func NotFound() *Response {
	return notFoundResponse()
}

// Redirect builds a redirect response to the given location.
func Redirect(location string, status int) *Response {
	resp := &Response{Status: status}
	resp.setHeader("Location", location)
	return resp
}

func bodyResponse(body []byte, contentType string) *Response {
	resp := &Response{Status: http.StatusOK, Body: body}
	resp.setHeader("Content-Type", contentType)
	return resp
}

// notFoundResponse is the fixed fallback when no route and no default
// handler match.
func notFoundResponse() *Response {
	resp := bodyResponse([]byte("Not Found"), "text/plain; charset=utf-8")
	resp.Status = http.StatusNotFound
	return resp
}

// errorResponse is the generic failure response: a 500 carrying the
// stringified error.
func errorResponse(err error) *Response {
	resp := bodyResponse([]byte(err.Error()), "text/plain; charset=utf-8")
	resp.Status = http.StatusInternalServerError
	return resp
}

// =============================================================================
// Writing
// =============================================================================

// writeResponse flushes a response to the transport. Responses marked as
// already written (completed upgrade handshakes) are left alone. HEAD
// requests get headers only.
func (r *Router) writeResponse(w http.ResponseWriter, req *http.Request, resp *Response) {
	if resp.written {
		return
	}

	header := w.Header()
	for key, values := range resp.Header {
		header[key] = values
	}

	switch body := resp.Body.(type) {
	case nil:
		w.WriteHeader(resp.status())

	case []byte:
		if resp.Header.Get("Content-Length") == "" {
			header.Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.WriteHeader(resp.status())
		if req.Method != http.MethodHead {
			w.Write(body)
		}

	case Stream:
		w.WriteHeader(resp.status())
		if req.Method == http.MethodHead {
			body.Close()
			return
		}
		r.pumpStream(w, req, body)

	case io.Reader:
		w.WriteHeader(resp.status())
		if req.Method != http.MethodHead {
			io.Copy(w, body)
		}
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
	}
}

// pumpStream pulls chunks from a stream onto the wire, flushing after
// each one. The stream's Close hook is invoked exactly once: on
// exhaustion, on a write error, or on transport cancellation (client
// disconnect), whichever comes first. Cancellation also unblocks a
// pending Next for channel-backed streams.
func (r *Router) pumpStream(w http.ResponseWriter, req *http.Request, s Stream) {
	if r.core.metrics != nil {
		r.core.metrics.activeStreams.Inc()
		defer r.core.metrics.activeStreams.Dec()
	}

	var once sync.Once
	closeStream := func() {
		once.Do(func() {
			if err := s.Close(); err != nil {
				r.core.logger.Error("stream close failed", "error", err)
			}
		})
	}
	defer closeStream()

	stop := context.AfterFunc(req.Context(), closeStream)
	defer stop()

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := s.Next()
		if err != nil {
			if err != io.EOF {
				r.core.logger.Error("stream read failed", "error", err)
			}
			return
		}
		if req.Context().Err() != nil {
			return
		}
		if len(chunk) == 0 {
			continue
		}
		if _, err := w.Write(chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
