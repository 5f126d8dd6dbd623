// Package options provides shared checks for functional option sets.
package options

import (
	"fmt"
	"strings"

	"github.com/erraggy/docpatch/mergeerrors"
)

// Source is one way of supplying an input, such as a file path or an
// already-parsed value.
type Source struct {
	// Option is the option function that sets this source, e.g. "WithDocumentFile".
	Option string
	// Set reports whether the caller used it.
	Set bool
}

// ValidateSingleInputSource ensures exactly one source is set for input.
// The returned error is a *mergeerrors.ConfigError naming the input and
// listing the options that can supply it.
func ValidateSingleInputSource(input string, sources ...Source) error {
	count := 0
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Option)
		if s.Set {
			count++
		}
	}

	if count == 0 {
		return &mergeerrors.ConfigError{
			Option:  input,
			Message: fmt.Sprintf("must specify a %s source (use %s)", input, strings.Join(names, " or ")),
		}
	}
	if count > 1 {
		return &mergeerrors.ConfigError{
			Option:  input,
			Message: fmt.Sprintf("must specify exactly one %s source", input),
		}
	}
	return nil
}
