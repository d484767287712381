package strada

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/strada-dev/strada/pkg/socket"
)

// defaultTracerName is the tracer name used when tracing is enabled
// without an explicit name.
const defaultTracerName = "strada"

// Config configures a top-level router. The zero value is usable; nested
// routers created through Ctx.Next inherit the parent's configuration.
type Config struct {
	// Logger receives dispatch-time failures that cannot be surfaced as
	// responses: terminal error-handler failures, socket handler panics,
	// stream teardown errors. Defaults to slog.Default() scoped to the
	// "strada" component.
	Logger *slog.Logger

	// Socket tunes the WebSocket upgrade handshake.
	Socket socket.Config

	// Metrics registers request counters and latency histograms on the
	// given registerer. Nil disables metrics.
	Metrics prometheus.Registerer

	// Tracer enables a per-dispatch span from the given provider. Nil
	// disables tracing.
	Tracer trace.TracerProvider

	// TracerName overrides the tracer name (default "strada").
	TracerName string
}

// DefaultConfig returns the default router configuration.
func DefaultConfig() Config {
	return Config{
		Socket:     socket.DefaultConfig(),
		TracerName: defaultTracerName,
	}
}
