package blit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/blit/internal/gpu"
	"github.com/gogpu/blit/shader"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for blit and its sub-packages.
// By default, blit produces no log output.
//
// Pass nil to restore the default silent behavior.
//
// Log levels used by blit:
//   - [slog.LevelDebug]: per-frame diagnostics (acquire latency, late images)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, swap chain configured)
//   - [slog.LevelWarn]: dropped frames and teardown problems
//
// Example:
//
//	blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
	shader.SetLogger(l)
}

// Logger returns the current logger used by blit.
// Sub-packages (integration/ggcanvas) call this to share the same
// configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
