// Package socket performs WebSocket upgrade handshakes for the router.
//
// The router core only needs two things from this package: a cheap check
// that a request carries a WebSocket upgrade signature, and the handshake
// itself, which converts the in-flight HTTP exchange into a live
// *websocket.Conn.
package socket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Config tunes the upgrade handshake.
type Config struct {
	// ReadBufferSize is the connection read buffer size in bytes.
	ReadBufferSize int

	// WriteBufferSize is the connection write buffer size in bytes.
	WriteBufferSize int

	// CheckOrigin validates the request origin. When nil, same-origin
	// requests and requests without an Origin header are accepted.
	CheckOrigin func(*http.Request) bool
}

// DefaultConfig returns the default upgrade configuration.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
}

// Service upgrades HTTP requests to WebSocket connections.
type Service struct {
	upgrader websocket.Upgrader
}

// NewService creates an upgrade service with the given configuration.
// Zero-valued fields fall back to defaults.
func NewService(cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = defaults.ReadBufferSize
	}
	if cfg.WriteBufferSize == 0 {
		cfg.WriteBufferSize = defaults.WriteBufferSize
	}
	return &Service{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// Upgrade performs the WebSocket handshake. On failure the upgrader has
// already written an error response to w.
func (s *Service) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return s.upgrader.Upgrade(w, r, nil)
}

// IsUpgrade reports whether the request presents a WebSocket upgrade
// signature: a GET request whose Upgrade header requests "websocket",
// case-insensitively. Routes registered for sockets treat requests
// without this signature as non-matching.
func IsUpgrade(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return headerContainsToken(r.Header, "Upgrade", "websocket")
}

// headerContainsToken reports whether any value of the named header
// contains the given token in its comma-separated list.
func headerContainsToken(h http.Header, name, token string) bool {
	for _, value := range h.Values(name) {
		for _, t := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(t), token) {
				return true
			}
		}
	}
	return false
}
