package strada

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"reflect"
	"strconv"

	"github.com/strada-dev/strada/pkg/sse"
)

// coerce maps a handler's return value onto a response. The cases form a
// closed set; dispatch order matters because several checks are subsets
// of later ones (fs.File is an io.Reader, json.RawMessage is a []byte).
// A value outside the set is a programming error and panics with a
// *ContractViolationError — deliberately not recovered by the error
// boundary, so a misconfigured handler fails loudly.
func (r *Router) coerce(ctx *Ctx, k kind, v any) (*Response, error) {
	switch val := v.(type) {
	case nil:
		return &Response{Status: http.StatusOK}, nil

	case string:
		return HTML(val), nil

	case *Response:
		return val, nil

	case *Router:
		// Nested delegation: the child router matches the unmatched
		// remainder of the parent's pattern against its own table.
		return val.dispatch(ctx.Writer, ctx.Request, ctx.rest), nil

	case json.RawMessage:
		return bodyResponse(val, "application/json"), nil

	case []byte:
		return bodyResponse(val, "application/octet-stream"), nil

	case url.Values:
		return bodyResponse([]byte(val.Encode()), "application/x-www-form-urlencoded"), nil

	case *multipart.Form:
		return multipartResponse(val)

	case sse.Source:
		return eventStreamResponse(sourceStream{val}), nil

	case Stream:
		if k == kindEvents {
			return eventStreamResponse(dataEventStream{val}), nil
		}
		return streamResponse(val), nil

	case fs.File:
		return fileResponse(val)

	case io.Reader:
		resp := &Response{Status: http.StatusOK, Body: val}
		resp.setHeader("Content-Type", "application/octet-stream")
		return resp, nil

	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			return jsonResponse(v)
		case reflect.Pointer:
			switch rv.Type().Elem().Kind() {
			case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
				return jsonResponse(v)
			}
		}
		panic(&ContractViolationError{Value: v})
	}
}

// jsonResponse serializes a structured value. encoding/json sorts map
// keys, so identical inputs always produce byte-identical bodies.
func jsonResponse(v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("strada: encode json: %w", err)
	}
	return bodyResponse(data, "application/json"), nil
}

// fileResponse streams a file's bytes as an attachment download.
func fileResponse(f fs.File) (*Response, error) {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("strada: stat file: %w", err)
	}

	name := path.Base(info.Name())
	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	resp := &Response{Status: http.StatusOK, Body: f}
	resp.setHeader("Content-Type", ctype)
	resp.setHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	resp.setHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return resp, nil
}

// multipartResponse re-encodes a parsed multipart form as a response body.
func multipartResponse(form *multipart.Form) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, values := range form.Value {
		for _, value := range values {
			if err := w.WriteField(name, value); err != nil {
				return nil, fmt.Errorf("strada: encode multipart: %w", err)
			}
		}
	}
	for name, files := range form.File {
		for _, fh := range files {
			part, err := w.CreateFormFile(name, fh.Filename)
			if err != nil {
				return nil, fmt.Errorf("strada: encode multipart: %w", err)
			}
			src, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("strada: encode multipart: %w", err)
			}
			_, err = io.Copy(part, src)
			src.Close()
			if err != nil {
				return nil, fmt.Errorf("strada: encode multipart: %w", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("strada: encode multipart: %w", err)
	}

	return bodyResponse(buf.Bytes(), w.FormDataContentType()), nil
}

// streamResponse wraps a chunk stream as a response body. The writer pulls
// chunks until exhaustion; transport cancellation closes the stream.
func streamResponse(s Stream) *Response {
	resp := &Response{Status: http.StatusOK, Body: s}
	resp.setHeader("Content-Type", "application/octet-stream")
	return resp
}

// eventStreamResponse wraps an encoded SSE stream.
func eventStreamResponse(s Stream) *Response {
	resp := &Response{Status: http.StatusOK, Body: s}
	resp.setHeader("Content-Type", "text/event-stream")
	resp.setHeader("Cache-Control", "no-cache")
	return resp
}

// sourceStream encodes events from an sse.Source into wire-format chunks.
type sourceStream struct {
	src sse.Source
}

func (s sourceStream) Next() ([]byte, error) {
	e, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	return e.Encode(), nil
}

func (s sourceStream) Close() error { return s.src.Close() }

// dataEventStream treats each chunk of a plain Stream as the data of one
// SSE record. Used when an Events route returns a raw chunk stream.
type dataEventStream struct {
	src Stream
}

func (s dataEventStream) Next() ([]byte, error) {
	chunk, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	return sse.Data(string(chunk)).Encode(), nil
}

func (s dataEventStream) Close() error { return s.src.Close() }
