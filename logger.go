package docpatch

import (
	"log/slog"
	"strings"
)

// Logger is the interface that docpatch uses for structured logging.
//
// Attributes are alternating key-value pairs, as in log/slog:
//
//	logger.Warn("type mismatch", "path", "$.count", "want", "Integer", "got", "String")
//
// Merging never branches on logging: every skipped update is also reported
// in the result values returned by the table, override and merge packages.
//
// # Attributes
//
// The merge packages attach these keys through [Logger.With], so a handler
// can filter or group records by them:
//
//   - run: the run ID of a merge, on every record the run emits
//   - column and path: the table column and target path of a field update
//   - directive and path: the index and path of an override directive
//   - object, id and row: the object index, identifier and table row number
//     when matching rows to objects
//
// Skipped updates are logged at warn level with an error attribute; applied
// ones at debug level with a status or operation attribute.
//
// # Usage with log/slog
//
// Use [NewSlogAdapter] to wrap a standard library slog.Logger:
//
//	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	logger := docpatch.NewSlogAdapter(slog.New(handler))
//
//	result, err := merge.RunWithOptions(ctx,
//	    merge.WithDocumentFile("items.json"),
//	    merge.WithLogger(logger),
//	)
type Logger interface {
	// Debug logs at debug level. Use for detailed diagnostic information.
	Debug(msg string, attrs ...any)

	// Info logs at info level. Use for general operational information.
	Info(msg string, attrs ...any)

	// Warn logs at warn level. Use for skipped updates and other recoverable problems.
	Warn(msg string, attrs ...any)

	// Error logs at error level. Use for error conditions.
	Error(msg string, attrs ...any)

	// With returns a new Logger with the given attributes prepended to every log.
	With(attrs ...any) Logger
}

// NopLogger is a no-op logger that discards all output.
// It is the default logger used when no logger is configured.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...any) {}

// With implements Logger.
func (n NopLogger) With(_ ...any) Logger { return n }

// Ensure NopLogger implements Logger at compile time.
var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (s *SlogAdapter) Debug(msg string, attrs ...any) {
	s.logger.Debug(msg, attrs...)
}

// Info implements Logger.
func (s *SlogAdapter) Info(msg string, attrs ...any) {
	s.logger.Info(msg, attrs...)
}

// Warn implements Logger.
func (s *SlogAdapter) Warn(msg string, attrs ...any) {
	s.logger.Warn(msg, attrs...)
}

// Error implements Logger.
func (s *SlogAdapter) Error(msg string, attrs ...any) {
	s.logger.Error(msg, attrs...)
}

// With implements Logger.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

// Ensure SlogAdapter implements Logger at compile time.
var _ Logger = (*SlogAdapter)(nil)

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// ParseLevel converts a level name as accepted on the command line
// (DEBUG, INFO, WARN, WARNING, ERROR; case-insensitive) into a slog.Level.
func ParseLevel(name string) (slog.Level, bool) {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn, true
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, false
	}
	return lvl, true
}
