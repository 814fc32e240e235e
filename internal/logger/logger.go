// Package logger wraps zerolog with the constructors and context helpers
// used across FixIT. The Logger type embeds zerolog.Logger, so the full
// zerolog API is available on *Logger; request-scoped loggers are obtained
// through FromContext and FromRequest.
package logger

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger to expose its API while leaving room for
// application-level helpers.
type Logger struct {
	zerolog.Logger
}

// configureGlobals applies the process-wide zerolog settings shared by all
// FixIT binaries: the log level from LOG_LEVEL (debug when unset or
// unparsable) and a caller field holding the fully qualified function name
// rather than file:line.
func configureGlobals() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
}

func newLogger(out *os.File, role string) *Logger {
	configureGlobals()

	l := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// NewLogger returns a JSON logger writing to stdout, tagged with the given
// role label (e.g. "fixit-server") so logs from different binaries can be
// told apart.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

// NewAgentLogger returns the logger for the desk-agent binary. Agents may
// run detached from any terminal, so output goes to a "logs" file next to
// the executable, with stdout as the fallback when the file cannot be
// opened.
func NewAgentLogger(role string) *Logger {
	out := os.Stdout
	if execPath, err := os.Executable(); err == nil {
		logPath := filepath.Join(filepath.Dir(execPath), "logs")
		if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			out = f
		}
	}

	return newLogger(out, role)
}

// Nop returns a *Logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting the receiver's fields.
// The child can be enriched without touching the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the request-scoped *Logger attached to r's context
// by the trace-id middleware.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the *Logger stored in ctx. When no logger was
// attached, zerolog hands back its global logger, so the result is never
// nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
