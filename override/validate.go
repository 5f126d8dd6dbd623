package override

import (
	"fmt"

	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/mergeerrors"
)

// Validate checks one directive and returns a *mergeerrors.MalformedDirectiveError
// describing the first problem found, or nil. index is the directive's
// position, used in the error. Checks:
//   - every key decoded with the right shape
//   - path is present and parses
//   - operation is "update" or "remove" (case-sensitive)
//   - an update carries a value key
func Validate(index int, d Directive) error {
	_, err := compile(index, d)
	return err
}

// ValidateAll validates every directive and returns one error per invalid
// entry, in order. An empty result means the list can be applied without
// validation skips.
func ValidateAll(directives []Directive) []error {
	var errs []error
	for i, d := range directives {
		if err := Validate(i, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// compile validates d and returns its parsed path.
func compile(index int, d Directive) (*jsonpath.Path, error) {
	malformed := func(field, msg string, cause error) error {
		return &mergeerrors.MalformedDirectiveError{Index: index, Field: field, Message: msg, Cause: cause}
	}

	if d.decodeErr != nil {
		return nil, malformed(d.decodeErr.field, d.decodeErr.message, nil)
	}
	if d.Path == "" {
		return nil, malformed("path", "path is required", nil)
	}
	if d.Operation == "" {
		return nil, malformed("operation", "operation is required", nil)
	}
	switch d.Operation {
	case OpUpdate:
		if !d.HasValue {
			return nil, malformed("value", "value is required for update", nil)
		}
	case OpRemove:
	default:
		return nil, malformed("operation", fmt.Sprintf("unsupported operation %q (want %q or %q)", d.Operation, OpUpdate, OpRemove), nil)
	}

	p, err := jsonpath.Parse(d.Path)
	if err != nil {
		return nil, malformed("path", "invalid path", err)
	}
	return p, nil
}
