package strada

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// quiet returns a config whose logger discards everything, for tests
// that deliberately exercise failure paths.
func quiet() Config {
	return Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func do(app *Router, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestGetRoute(t *testing.T) {
	app := New()
	app.Get("/hello", func(c *Ctx) (any, error) {
		return "hi", nil
	})

	rec := do(app, "GET", "/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "hi" {
		t.Errorf("body = %q, want %q", got, "hi")
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html", got)
	}
}

func TestSlashNormalization(t *testing.T) {
	app := New()
	app.Get("hello//world", func(c *Ctx) (any, error) { return "x", nil })

	for _, target := range []string{"/hello/world", "/hello/world/", "//hello//world"} {
		if rec := do(app, "GET", target); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, rec.Code)
		}
	}
}

func TestCaptureAvailableInHandler(t *testing.T) {
	app := New()
	app.Get("/users/:id", func(c *Ctx) (any, error) {
		return Text(c.Param("id")), nil
	})

	rec := do(app, "GET", "/users/7")
	if got := rec.Body.String(); got != "7" {
		t.Errorf("body = %q, want %q", got, "7")
	}
}

func TestCaptureDecodedValue(t *testing.T) {
	app := New()
	app.Get("/:name", func(c *Ctx) (any, error) {
		return Text(c.Param("name")), nil
	})

	rec := do(app, "GET", "/Alice%20B")
	if got := rec.Body.String(); got != "Alice B" {
		t.Errorf("body = %q, want %q", got, "Alice B")
	}
}

func TestMethodIsolation(t *testing.T) {
	app := New()
	app.Get("/thing", func(c *Ctx) (any, error) { return Text("get"), nil })
	app.Post("/thing", func(c *Ctx) (any, error) { return Text("post"), nil })

	if got := do(app, "GET", "/thing").Body.String(); got != "get" {
		t.Errorf("GET body = %q, want %q", got, "get")
	}
	if got := do(app, "POST", "/thing").Body.String(); got != "post" {
		t.Errorf("POST body = %q, want %q", got, "post")
	}
	if rec := do(app, "DELETE", "/thing"); rec.Code != http.StatusNotFound {
		t.Errorf("DELETE status = %d, want 404", rec.Code)
	}
}

func TestPathMatchesAnyMethod(t *testing.T) {
	app := New()
	app.Path("/any", func(c *Ctx) (any, error) { return Text(c.Request.Method), nil })

	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
		if got := do(app, method, "/any").Body.String(); got != method {
			t.Errorf("%s body = %q, want %q", method, got, method)
		}
	}
}

func TestRegistrationOrderPrecedence(t *testing.T) {
	// Both patterns structurally match /users/admin; the one registered
	// first wins regardless of specificity.
	app := New()
	app.Get("/users/:id", func(c *Ctx) (any, error) { return Text("capture"), nil })
	app.Get("/users/admin", func(c *Ctx) (any, error) { return Text("literal"), nil })

	if got := do(app, "GET", "/users/admin").Body.String(); got != "capture" {
		t.Errorf("body = %q, want %q (first registration wins)", got, "capture")
	}
}

func TestMethodMismatchKeepsScanning(t *testing.T) {
	app := New()
	app.Post("/x", func(c *Ctx) (any, error) { return Text("post"), nil })
	app.Get("/x", func(c *Ctx) (any, error) { return Text("get"), nil })

	if got := do(app, "GET", "/x").Body.String(); got != "get" {
		t.Errorf("body = %q, want %q", got, "get")
	}
}

func TestCatchAllWithinMethod(t *testing.T) {
	app := New()
	app.Get("*", func(c *Ctx) (any, error) {
		return Text(joinRest(c.Rest())), nil
	})

	if got := do(app, "GET", "/a/b/c").Body.String(); got != "a/b/c" {
		t.Errorf("body = %q, want %q", got, "a/b/c")
	}
	if rec := do(app, "GET", "/"); rec.Code != http.StatusOK {
		t.Errorf("root status = %d, want 200", rec.Code)
	}
	if rec := do(app, "POST", "/a"); rec.Code != http.StatusNotFound {
		t.Errorf("POST status = %d, want 404 (method isolation)", rec.Code)
	}
}

func TestDefaultHandler(t *testing.T) {
	app := New()
	app.Get("/known", func(c *Ctx) (any, error) { return "k", nil })
	app.Default(func(c *Ctx) (any, error) {
		// The full original path is the remainder.
		return Text(joinRest(c.Rest())), nil
	})

	rec := do(app, "GET", "/a/b")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "a/b" {
		t.Errorf("body = %q, want %q", got, "a/b")
	}
}

func TestNotFoundFallback(t *testing.T) {
	app := New()
	app.Get("/only", func(c *Ctx) (any, error) { return "x", nil })

	rec := do(app, "GET", "/other")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != "Not Found" {
		t.Errorf("body = %q, want %q", got, "Not Found")
	}
}

func TestNotFoundHelper(t *testing.T) {
	app := New()
	app.Get("/users/:id", func(c *Ctx) (any, error) {
		if c.Param("id") != "1" {
			return NotFound(), nil
		}
		return Text("found"), nil
	})

	if rec := do(app, "GET", "/users/1"); rec.Body.String() != "found" {
		t.Errorf("body = %q, want found", rec.Body.String())
	}
	if rec := do(app, "GET", "/users/2"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFluentRegistration(t *testing.T) {
	app := New().
		Get("/a", func(c *Ctx) (any, error) { return "a", nil }).
		Post("/b", func(c *Ctx) (any, error) { return "b", nil }).
		Default(func(c *Ctx) (any, error) { return Text("d"), nil })

	if got := do(app, "GET", "/a").Body.String(); got != "a" {
		t.Errorf("GET /a = %q", got)
	}
	if got := do(app, "POST", "/b").Body.String(); got != "b" {
		t.Errorf("POST /b = %q", got)
	}
	if got := do(app, "GET", "/zzz").Body.String(); got != "d" {
		t.Errorf("default = %q", got)
	}
}

func TestHeadSkipsBody(t *testing.T) {
	app := New()
	app.Path("/page", func(c *Ctx) (any, error) { return "content", nil })

	rec := do(app, "HEAD", "/page")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Length"); got != "7" {
		t.Errorf("Content-Length = %q, want 7", got)
	}
}

func joinRest(rest []string) string {
	out := ""
	for i, seg := range rest {
		if i > 0 {
			out += "/"
		}
		out += seg
	}
	return out
}

var errBoom = errors.New("boom")
