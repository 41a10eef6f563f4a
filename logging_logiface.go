// logging_logiface.go adapts github.com/joeycumines/logiface (backed by its
// stumpy JSON writer) as a Logger. This is the structured-logging path for
// programs that want leveled, field-rich output instead of DefaultLogger's
// plain text; NewLoggingHooks works unchanged against either.

package weave

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// LogifaceLogger adapts a *logiface.Logger[*stumpy.Event] to the Logger
// interface, so logiface's field-structured, leveled output can back every
// Hooks call wired through NewLoggingHooks.
type LogifaceLogger struct {
	logger *logiface.Logger[*stumpy.Event]
}

// NewLogifaceLogger builds a LogifaceLogger writing newline-delimited JSON
// to w (os.Stderr if nil) via stumpy, logiface's bundled allocation-light
// backend.
func NewLogifaceLogger(w io.Writer) *LogifaceLogger {
	if w == nil {
		w = os.Stderr
	}
	return &LogifaceLogger{
		logger: stumpy.L.New(
			stumpy.WithStumpy(stumpy.WithWriter(w)),
			logiface.WithLevel[*stumpy.Event](logiface.LevelTrace),
		),
	}
}

func toLogifaceLevel(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// IsEnabled implements Logger.
func (l *LogifaceLogger) IsEnabled(level LogLevel) bool {
	return l.logger.Level().Enabled() && toLogifaceLevel(level) <= l.logger.Level()
}

// Log implements Logger, rendering entry as a structured logiface record.
func (l *LogifaceLogger) Log(e LogEntry) {
	b := l.logger.Build(toLogifaceLevel(e.Level))
	if b == nil {
		return
	}
	if e.Category != "" {
		b = b.Str("category", e.Category)
	}
	if e.ActorID != "" {
		b = b.Str("actor", e.ActorID)
	}
	if e.Iteration != 0 {
		b = b.Int("iteration", e.Iteration)
	}
	if e.Err != nil {
		b = b.Err(e.Err)
	}
	b.Log(e.Message)
}
