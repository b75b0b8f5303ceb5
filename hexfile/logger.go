package hexfile

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Severity represents log message severity levels.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the logging contract for the reader and writer engines.
// Unrecognized input lines are reported here rather than failing the
// parse.
type Logger interface {
	Logf(severity Severity, format string, args ...any)
}

// StdLogger implements Logger on top of Go's standard logger with a
// minimum severity floor.
type StdLogger struct {
	out      *log.Logger
	minLevel Severity
}

// NewStdLogger creates a logger writing to stderr.
func NewStdLogger(minLevel Severity) *StdLogger {
	return NewStdLoggerWithWriter(os.Stderr, minLevel)
}

// NewStdLoggerWithWriter creates a logger with a custom writer.
func NewStdLoggerWithWriter(w io.Writer, minLevel Severity) *StdLogger {
	return &StdLogger{
		out:      log.New(w, "", log.Ltime),
		minLevel: minLevel,
	}
}

// Logf logs a formatted message with the specified severity.
func (l *StdLogger) Logf(severity Severity, format string, args ...any) {
	if severity < l.minLevel {
		return
	}
	l.out.Output(2, severity.String()+": "+fmt.Sprintf(format, args...))
}

// NopLogger is a Logger that discards everything.
type NopLogger struct{}

// Logf does nothing.
func (NopLogger) Logf(severity Severity, format string, args ...any) {}
