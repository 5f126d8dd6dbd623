package mcpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/docpatch/merge"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
	"github.com/erraggy/docpatch/table"
)

// sourceInput represents the two ways an input can be provided to a tool.
// Exactly one of File or Content must be set.
type sourceInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to the file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline content"`
}

// read returns the raw bytes of the input. kind names it in errors.
func (s sourceInput) read(kind string) ([]byte, error) {
	switch {
	case s.File != "" && s.Content != "":
		return nil, fmt.Errorf("exactly one of file or content must be provided for %s (got 2)", kind)
	case s.Content != "":
		if int64(len(s.Content)) > cfg.MaxInputSize {
			return nil, fmt.Errorf("inline %s size %d bytes exceeds maximum %d bytes; use file input instead, or set DOCPATCH_MAX_INPUT_SIZE to increase",
				kind, len(s.Content), cfg.MaxInputSize)
		}
		return []byte(s.Content), nil
	case s.File != "":
		return readLimited(s.File, kind)
	default:
		return nil, fmt.Errorf("exactly one of file or content must be provided for %s (got 0)", kind)
	}
}

func readLimited(path, kind string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: kind, Cause: err}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, cfg.MaxInputSize+1))
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: kind, Cause: err}
	}
	if int64(len(data)) > cfg.MaxInputSize {
		return nil, fmt.Errorf("%s file exceeds maximum %d bytes; set DOCPATCH_MAX_INPUT_SIZE to increase", kind, cfg.MaxInputSize)
	}
	return data, nil
}

// withSource fills in the Source of a LoadError from a file input.
func (s sourceInput) withSource(err error) error {
	var le *mergeerrors.LoadError
	if s.File != "" && errors.As(err, &le) && le.Source == "" {
		le.Source = s.File
	}
	return err
}

func (s sourceInput) document() (*merge.Document, error) {
	data, err := s.read("document")
	if err != nil {
		return nil, err
	}
	doc, err := merge.ParseDocument(data, merge.FormatFromPath(s.File))
	if err != nil {
		return nil, s.withSource(err)
	}
	doc.Source = s.File
	return doc, nil
}

// isEmpty reports whether neither file nor content was given.
func (s sourceInput) isEmpty() bool {
	return s.File == "" && s.Content == ""
}

// rows treats an absent input as an empty table.
func (s sourceInput) rows() ([]table.Row, error) {
	if s.isEmpty() {
		return nil, nil
	}
	data, err := s.read("table")
	if err != nil {
		return nil, err
	}
	rows, err := table.LoadCSV(bytes.NewReader(data))
	return rows, s.withSource(err)
}

// mapping treats an absent input as an empty mapping.
func (s sourceInput) mapping() (table.Mapping, error) {
	if s.isEmpty() {
		return nil, nil
	}
	data, err := s.read("mapping")
	if err != nil {
		return nil, err
	}
	m, err := table.LoadMapping(data)
	return m, s.withSource(err)
}

// directives treats an absent input as an empty list.
func (s sourceInput) directives() ([]override.Directive, error) {
	if s.isEmpty() {
		return nil, nil
	}
	data, err := s.read("directives")
	if err != nil {
		return nil, err
	}
	d, err := override.ParseDirectives(data)
	return d, s.withSource(err)
}
