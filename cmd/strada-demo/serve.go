package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/strada-dev/strada"
	"github.com/strada-dev/strada/pkg/sse"
	"github.com/strada-dev/strada/pkg/static"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo server",
		Long: `Start the demo server.

Endpoints:
  GET  /                      greeting
  GET  /users/:id             JSON echo of the capture
  ANY  /users/:id/posts/*     nested router delegation
  GET  /clock                 server-sent-events clock, one tick per second
  GET  /ws/echo/:room         WebSocket echo
  GET  /public/*              static files (with --static)
  GET  /metrics               Prometheus metrics

Examples:
  strada-demo serve
  strada-demo serve --addr=:8080 --static=./public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, staticDir)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVarP(&staticDir, "static", "s", "", "Directory to serve under /public/")

	return cmd
}

func runServe(addr, staticDir string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry := prometheus.NewRegistry()

	app := strada.New(strada.Config{
		Logger:  logger.With("component", "strada"),
		Metrics: registry,
	})

	app.Get("/", func(c *strada.Ctx) (any, error) {
		return "<h1>strada demo</h1><p>try /users/42 or /clock</p>", nil
	})

	app.Get("/users/:id", func(c *strada.Ctx) (any, error) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", c.Param("id"))
		}
		return map[string]any{"id": id, "name": fmt.Sprintf("user-%d", id)}, nil
	})

	app.Path("/users/:id/posts/*", func(c *strada.Ctx) (any, error) {
		return c.Next().
			Get("/", func(c *strada.Ctx) (any, error) {
				return []map[string]any{{"user": c.Value("id"), "post": "first"}}, nil
			}).
			Get("/:post", func(c *strada.Ctx) (any, error) {
				return map[string]any{"user": c.Value("id"), "post": c.Param("post")}, nil
			}), nil
	})

	app.Events("/clock", func(c *strada.Ctx) (any, error) {
		ch := make(chan sse.Event)
		src := sse.Chan(ch)
		go func() {
			defer close(ch)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-src.Done():
					return
				case t := <-ticker.C:
					ch <- sse.Event{Name: "tick", Data: t.Format(time.RFC3339)}
				}
			}
		}()
		return src, nil
	})

	app.Socket("/ws/echo/:room", func(c *strada.Ctx) (any, error) {
		conn := c.Socket()
		room := c.Param("room")
		for {
			kind, msg, err := conn.ReadMessage()
			if err != nil {
				return nil, nil
			}
			reply := fmt.Sprintf("[%s] %s", room, msg)
			if err := conn.WriteMessage(kind, []byte(reply)); err != nil {
				return nil, nil
			}
		}
	})

	if staticDir != "" {
		app.Static("/public/*", static.Dir(staticDir))
	}

	app.Catch(func(c *strada.Ctx) (any, error) {
		logger.Warn("request failed", "path", c.Request.URL.Path, "error", c.Err())
		resp := strada.Text(c.Err().Error())
		resp.Status = http.StatusBadRequest
		return resp, nil
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", app)

	logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
