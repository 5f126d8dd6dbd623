package merge

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/erraggy/docpatch/internal/fileutil"
	"github.com/erraggy/docpatch/internal/jsonnode"
	"github.com/erraggy/docpatch/mergeerrors"
	"go.yaml.in/yaml/v4"
)

// SourceFormat represents the format of a document file.
type SourceFormat string

const (
	// SourceFormatJSON indicates a JSON document.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML indicates a YAML document.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatUnknown indicates the format could not be determined.
	SourceFormatUnknown SourceFormat = "unknown"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a decoded document together with what is needed to write it
// back in the same shape it was read.
type Document struct {
	// Value is the decoded tree: map[string]any, []any, or a scalar.
	// Merging mutates it in place.
	Value any
	// Format is the format the document was read in and will be written in.
	Format SourceFormat
	// Source is the path the document was loaded from, if any.
	Source string

	// node keeps the source key order for output.
	node *yaml.Node
}

// NewDocument wraps an already-decoded value. Output uses sorted keys.
func NewDocument(value any, format SourceFormat) *Document {
	if format == "" || format == SourceFormatUnknown {
		format = SourceFormatJSON
	}
	return &Document{Value: value, Format: format}
}

// ParseDocument decodes data as JSON or YAML. When format is unknown it is
// detected from the content.
//
// Content starting with '{' or '[' is decoded as JSON whatever the format,
// falling back to YAML only on a JSON syntax error. JSON follows the usual
// decoder rules: a repeated key keeps its last value, and a number too large
// for a float64 is a load error.
func ParseDocument(data []byte, format SourceFormat) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if format == "" || format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	if format == SourceFormatUnknown {
		return nil, &mergeerrors.LoadError{Kind: "document", Message: "empty document"}
	}

	value, node, err := jsonnode.Parse(data)
	if err != nil {
		return nil, &mergeerrors.LoadError{Kind: "document", Message: "cannot decode " + string(format), Cause: err}
	}
	if node.Kind == 0 {
		return nil, &mergeerrors.LoadError{Kind: "document", Message: "empty document"}
	}

	return &Document{Value: value, Format: format, node: node}, nil
}

// LoadDocument reads and decodes the document at path. The format comes
// from the file extension, falling back to the content.
func LoadDocument(path string) (*Document, error) {
	cleaned := filepath.Clean(path)
	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: "document", Cause: err}
	}

	doc, err := ParseDocument(data, FormatFromPath(cleaned))
	if err != nil {
		var le *mergeerrors.LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// Marshal encodes the document in its own format. Keys keep their source
// order; keys added by a merge follow in sorted order.
func (d *Document) Marshal() ([]byte, error) {
	return marshalOrdered(d.node, d.Value, d.Format)
}

// MarshalDocument encodes value in format with sorted keys.
func MarshalDocument(value any, format SourceFormat) ([]byte, error) {
	return marshalOrdered(nil, value, format)
}

// SaveDocument writes doc to path with owner-only permissions. It refuses
// to write through a symlink.
func SaveDocument(doc *Document, path string) error {
	data, err := doc.Marshal()
	if err != nil {
		return &mergeerrors.SaveError{Destination: path, Cause: err}
	}
	if err := fileutil.WriteOutput(path, data); err != nil {
		return &mergeerrors.SaveError{Destination: path, Cause: err}
	}
	return nil
}

// FormatFromPath returns the format implied by a file extension, or
// SourceFormatUnknown.
func FormatFromPath(path string) SourceFormat {
	switch filepath.Ext(path) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent treats content starting with '{' or '[' as JSON
// and anything else non-empty as YAML.
func detectFormatFromContent(data []byte) SourceFormat {
	if jsonnode.LooksLikeJSON(data) {
		return SourceFormatJSON
	}
	if len(bytes.TrimLeft(data, " \t\n\r")) == 0 {
		return SourceFormatUnknown
	}
	return SourceFormatYAML
}
