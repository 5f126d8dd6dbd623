package override

import (
	"errors"
	"os"

	"github.com/erraggy/docpatch/internal/jsonnode"
	"github.com/erraggy/docpatch/mergeerrors"
	"go.yaml.in/yaml/v4"
)

// ParseDirectives parses a directive list from YAML or JSON bytes.
//
// The top level must be a sequence. Its entries decode leniently (see
// [Directive]); only an unreadable or non-sequence document fails the parse.
func ParseDirectives(data []byte) ([]Directive, error) {
	node, err := jsonnode.ParseNode(data)
	if err != nil {
		return nil, &mergeerrors.LoadError{Kind: "directives", Message: "cannot decode", Cause: err}
	}

	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == 0 {
		// Empty input: no directives.
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, &mergeerrors.LoadError{Kind: "directives", Message: "must be a list of directives"}
	}

	var directives []Directive
	if err := node.Decode(&directives); err != nil {
		return nil, &mergeerrors.LoadError{Kind: "directives", Message: "cannot decode", Cause: err}
	}
	return directives, nil
}

// ParseDirectivesFile parses a directive list from a file path.
func ParseDirectivesFile(path string) ([]Directive, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: directives path is user-provided
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: "directives", Cause: err}
	}

	directives, err := ParseDirectives(data)
	if err != nil {
		var le *mergeerrors.LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return directives, nil
}

// MarshalDirectives serializes directives to YAML bytes.
func MarshalDirectives(directives []Directive) ([]byte, error) {
	return yaml.Marshal(directives)
}
