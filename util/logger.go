// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pion/logging"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// Logger writes levelled messages to stderr with optional timestamps
// and level prefixes.  It doubles as a [logging.LoggerFactory] so
// components can take a scoped logger the way pion libraries do.
type Logger struct {
	level      LogLevel
	output     io.Writer
	mu         sync.Mutex
	timestamps bool
}

var _ logging.LoggerFactory = (*Logger)(nil)

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	return &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3,
	}
}

// SetTimestamps enables or disables timestamp prefixes.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) { l.output = w }

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// Info prints when verbosity ≥ 1.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("INF", format, args...)
	}
}

// Warn prints when verbosity ≥ 1.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("WRN", format, args...)
	}
}

// Verbose prints when verbosity ≥ 2.  Prefixed with [VRB].
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write("VRB", format, args...)
	}
}

// Debug prints when verbosity ≥ 3.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogDebug {
		l.write("DBG", format, args...)
	}
}

// Error always prints regardless of verbosity.  Prefixed with [ERR].
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERR", format, args...)
}

// NewLogger returns a logger whose lines are tagged with scope.
func (l *Logger) NewLogger(scope string) logging.LeveledLogger {
	return &scopedLogger{parent: l, prefix: scope + ": "}
}

func (l *Logger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if l.timestamps {
		ts := time.Now().Format("15:04:05.000")
		fmt.Fprintf(l.output, "%s [%s] %s\n", ts, level, msg)
	} else {
		fmt.Fprintf(l.output, "[%s] %s\n", level, msg)
	}
}

// ── scoped logger ────────────────────────────────────────────────────

// scopedLogger maps the pion levels onto the Logger levels:
// Trace → Debug, Debug → Verbose, Info/Warn/Error unchanged.
type scopedLogger struct {
	parent *Logger
	prefix string
}

func (s *scopedLogger) Trace(msg string) { s.parent.Debug("%s", s.prefix+msg) }
func (s *scopedLogger) Tracef(format string, args ...interface{}) {
	s.parent.Debug(s.prefix+format, args...)
}
func (s *scopedLogger) Debug(msg string) { s.parent.Verbose("%s", s.prefix+msg) }
func (s *scopedLogger) Debugf(format string, args ...interface{}) {
	s.parent.Verbose(s.prefix+format, args...)
}
func (s *scopedLogger) Info(msg string) { s.parent.Info("%s", s.prefix+msg) }
func (s *scopedLogger) Infof(format string, args ...interface{}) {
	s.parent.Info(s.prefix+format, args...)
}
func (s *scopedLogger) Warn(msg string) { s.parent.Warn("%s", s.prefix+msg) }
func (s *scopedLogger) Warnf(format string, args ...interface{}) {
	s.parent.Warn(s.prefix+format, args...)
}
func (s *scopedLogger) Error(msg string) { s.parent.Error("%s", s.prefix+msg) }
func (s *scopedLogger) Errorf(format string, args ...interface{}) {
	s.parent.Error(s.prefix+format, args...)
}
