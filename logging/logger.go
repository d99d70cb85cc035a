// Package logging wires the simulator's host-side diagnostics through
// log/slog. The kernel's bounded ring is the source of truth for userland
// log lines; this package is where the ring's mirror and the CLI's own
// diagnostics end up, so `vkernel run` output and log files see both
// without asking the kernel.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// host is the process-wide logger. Swapped atomically so Configure can run
// while kernel goroutines are mirroring log entries.
var host atomic.Pointer[slog.Logger]

func init() {
	host.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// Options selects where and how host diagnostics are written. The zero
// value means text to stderr at info level.
type Options struct {
	// Level is one of "debug", "info", "warn" (or "warning"), "error",
	// matched case-insensitively with surrounding space ignored. Anything
	// else falls back to info.
	Level string
	// JSON switches the handler from text lines to JSON objects.
	JSON bool
	// Output receives the stream; stderr when nil.
	Output io.Writer
}

// Configure builds a logger from opts, installs it process-wide, and
// returns it for callers that want to derive scoped children right away.
func Configure(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: levelFor(opts.Level)}
	var logger *slog.Logger
	if opts.JSON {
		logger = slog.New(slog.NewJSONHandler(out, hopts))
	} else {
		logger = slog.New(slog.NewTextHandler(out, hopts))
	}
	host.Store(logger)
	return logger
}

// Default returns the installed logger.
func Default() *slog.Logger {
	return host.Load()
}

// SetDefault replaces the installed logger. Tests use it to silence or
// capture output; a nil logger is ignored.
func SetDefault(logger *slog.Logger) {
	if logger != nil {
		host.Store(logger)
	}
}

// levelFor maps an option string onto a slog level.
func levelFor(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithKernel scopes a logger to one kernel instance, so two kernels booted
// in the same host process stay distinguishable.
func WithKernel(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String("kernel_id", id))
}

// Info emits through the installed logger, for call sites that have no
// logger of their own to thread around.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn is Info's warning-level counterpart.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}
