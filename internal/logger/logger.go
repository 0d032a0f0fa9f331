// Package logger provides logging for legis.
//
// Messages are emitted as structured slog records. The console handler
// prints warnings and above by default; the --verbose flag lowers it to
// debug. An optional JSON file sink receives every record regardless of
// verbosity.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	fileSink io.Writer
	level    = new(slog.LevelVar)
	current  *slog.Logger
)

func init() {
	level.Set(slog.LevelWarn)
	rebuild()
}

// rebuild must be called with mu held for writing (or from init).
func rebuild() {
	handlers := []slog.Handler{
		slog.NewTextHandler(output, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: dropTime,
		}),
	}
	if fileSink != nil {
		handlers = append(handlers, slog.NewJSONHandler(fileSink, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	current = slog.New(slogmulti.Fanout(handlers...))
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the console writer.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// Configure adds a JSON file sink at path and installs the resulting
// logger as the slog default. The returned closer detaches and closes the sink.
func Configure(path string) (io.Closer, error) {
	if path == "" {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	fileSink = f
	rebuild()
	slog.SetDefault(current)
	mu.Unlock()

	return closerFunc(func() error {
		mu.Lock()
		fileSink = nil
		rebuild()
		mu.Unlock()
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// Logger returns the current process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

type contextKey struct{}

var loggerKey = contextKey{}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves a logger from the context. If no logger is found,
// it returns the process logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return Logger()
}

func logf(lvl slog.Level, format string, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), lvl) {
		return
	}
	l.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	logf(slog.LevelDebug, "=== %s ===", name)
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}
