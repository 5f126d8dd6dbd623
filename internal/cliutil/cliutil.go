// Package cliutil provides output and logging helpers shared by the
// docpatch command-line handlers.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/erraggy/docpatch"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// NewLogger builds a text logger on w at the named level
// (DEBUG, INFO, WARN, WARNING or ERROR, case-insensitive).
func NewLogger(w io.Writer, level string) (docpatch.Logger, error) {
	lvl, ok := docpatch.ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("invalid log level %q: must be one of DEBUG, INFO, WARN, WARNING, ERROR", level)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return docpatch.NewSlogAdapter(slog.New(handler)), nil
}

// Plural returns "1 noun" or "n nouns".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
