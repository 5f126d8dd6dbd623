package mergeerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrLoad indicates an input (document, table, mapping, directives) could not be loaded.
	ErrLoad = errors.New("load error")

	// ErrSave indicates the merged document could not be written.
	ErrSave = errors.New("save error")

	// ErrDocumentShape indicates the document is neither an object nor a list of objects.
	ErrDocumentShape = errors.New("invalid document shape")

	// ErrInvalidPath indicates a path expression could not be parsed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathConflict indicates an existing container is shaped incompatibly with a path step.
	ErrPathConflict = errors.New("path conflict")

	// ErrTypeMismatch indicates an update would change the type of an existing value.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMalformedDirective indicates an override directive is missing keys or has an invalid operation.
	ErrMalformedDirective = errors.New("malformed directive")

	// ErrCast indicates raw text could not be converted to the target type.
	ErrCast = errors.New("cast failure")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// LoadError represents a failure to read or decode one of the merge inputs.
type LoadError struct {
	// Source is the file path, DSN, or other source identifier
	Source string
	// Kind names the input: "document", "table", "mapping", or "directives"
	Kind string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Kind != "" {
		msg = e.Kind + " " + msg
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// SaveError represents a failure to write the merged document.
type SaveError struct {
	// Destination is the output path
	Destination string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SaveError) Error() string {
	msg := "save error"
	if e.Destination != "" {
		msg += " for " + e.Destination
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SaveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}

// DocumentShapeError is returned when the top-level document is neither an
// object nor a list whose every element is an object.
type DocumentShapeError struct {
	// Got describes what was found (e.g., "string", "list element 2 is number")
	Got string
}

// Error returns a human-readable error message.
func (e *DocumentShapeError) Error() string {
	msg := "invalid document shape: must be an object or a list of objects"
	if e.Got != "" {
		msg += " (got " + e.Got + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DocumentShapeError) Is(target error) bool {
	return target == ErrDocumentShape
}

// PathConflictError represents a write whose path cannot be followed without
// changing the shape of an existing container.
type PathConflictError struct {
	// Path is the full path expression
	Path string
	// Step is the textual form of the offending step (e.g., ".name", "[3]")
	Step string
	// Container describes what the step met: "map", "list", "string", ...
	Container string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *PathConflictError) Error() string {
	msg := "path conflict"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Step != "" {
		msg += fmt.Sprintf(": step %s", e.Step)
		if e.Container != "" {
			msg += " cannot address " + e.Container
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PathConflictError) Is(target error) bool {
	return target == ErrPathConflict
}

// TypeMismatchError represents an update rejected because the new value's
// type differs from the value already stored at the path.
type TypeMismatchError struct {
	// Path is the path expression being updated
	Path string
	// Want is the type of the existing value
	Want string
	// Got is the type of the proposed value
	Got string
}

// Error returns a human-readable error message.
func (e *TypeMismatchError) Error() string {
	msg := "type mismatch"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg + fmt.Sprintf(": expected %s, got %s", e.Want, e.Got)
}

// Is reports whether target matches this error type.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// MalformedDirectiveError represents an override directive that cannot be applied.
type MalformedDirectiveError struct {
	// Index is the zero-based position of the directive in its list
	Index int
	// Field is the offending directive key: "path", "operation", or "value"
	Field string
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedDirectiveError) Error() string {
	msg := fmt.Sprintf("malformed directive[%d]", e.Index)
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedDirectiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedDirectiveError) Is(target error) bool {
	return target == ErrMalformedDirective
}

// CastError represents raw table text that could not be converted to a target type.
// The caster falls back to the raw string whenever this error is reported.
type CastError struct {
	// Raw is the input text
	Raw string
	// Target is the name of the requested type
	Target string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *CastError) Error() string {
	msg := fmt.Sprintf("cannot cast %q", e.Raw)
	if e.Target != "" {
		msg += " to " + e.Target
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CastError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CastError) Is(target error) bool {
	return target == ErrCast
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// IsFatal reports whether err should stop a merge run.
// Load, save, shape and configuration errors are fatal; everything else is
// recorded against a single field or directive and the run continues.
func IsFatal(err error) bool {
	return errors.Is(err, ErrLoad) ||
		errors.Is(err, ErrSave) ||
		errors.Is(err, ErrDocumentShape) ||
		errors.Is(err, ErrConfig)
}
