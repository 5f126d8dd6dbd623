package override

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Operation names what a directive does at its path.
type Operation string

const (
	// OpUpdate writes the directive's value at the path.
	OpUpdate Operation = "update"
	// OpRemove deletes the path from its parent.
	OpRemove Operation = "remove"
)

// Directive is one explicit update or remove instruction.
//
// Directives decode leniently: a directive whose keys have the wrong shape
// still decodes, and the problem is reported by [Validate] when the batch is
// applied, so one bad entry never prevents the rest from loading.
type Directive struct {
	// Path is the path expression addressing the target location.
	Path string `yaml:"path" json:"path"`

	// Operation is "update" or "remove".
	Operation Operation `yaml:"operation" json:"operation"`

	// Value is the structured value written by an update.
	// A null value is meaningful; see HasValue.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// HasValue reports whether the source carried a value key at all,
	// which distinguishes "value: null" from a missing value.
	HasValue bool `yaml:"-" json:"-"`

	// decodeErr records a key of the wrong shape seen while decoding.
	decodeErr *fieldProblem
}

type fieldProblem struct {
	field   string
	message string
}

// Update returns an update directive for path.
func Update(path string, value any) Directive {
	return Directive{Path: path, Operation: OpUpdate, Value: value, HasValue: true}
}

// Remove returns a remove directive for path.
func Remove(path string) Directive {
	return Directive{Path: path, Operation: OpRemove}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Directive) UnmarshalYAML(node *yaml.Node) error {
	*d = Directive{}
	if node.Kind != yaml.MappingNode {
		d.decodeErr = &fieldProblem{message: fmt.Sprintf("must be an object, got %s", nodeKind(node))}
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "path":
			if !isString(val) {
				d.setProblem("path", "must be a string")
				continue
			}
			d.Path = val.Value
		case "operation":
			if !isString(val) {
				d.setProblem("operation", "must be a string")
				continue
			}
			d.Operation = Operation(val.Value)
		case "value":
			var v any
			if err := val.Decode(&v); err != nil {
				d.setProblem("value", err.Error())
				continue
			}
			d.Value = v
			d.HasValue = true
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler. The value key is written whenever
// HasValue is set, even when the value is null.
func (d Directive) MarshalYAML() (any, error) {
	return d.fields(), nil
}

// MarshalJSON implements json.Marshaler with the same value-key rule as
// MarshalYAML.
func (d Directive) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

func (d Directive) fields() map[string]any {
	out := map[string]any{
		"path":      d.Path,
		"operation": string(d.Operation),
	}
	if d.HasValue {
		out["value"] = d.Value
	}
	return out
}

func (d *Directive) setProblem(field, message string) {
	if d.decodeErr == nil {
		d.decodeErr = &fieldProblem{field: field, message: message}
	}
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}
		return "scalar"
	default:
		return "unknown"
	}
}

// Outcome records what one directive did to one document object.
type Outcome struct {
	// Index is the zero-based position of the directive.
	Index int
	// Path is the directive's path expression.
	Path string
	// Operation is the directive's operation as written.
	Operation Operation
	// Applied is true when the directive ran without a skip.
	// A remove whose path was already absent counts as applied.
	Applied bool
	// Changed is true when the document was modified.
	Changed bool
	// Err explains a skip. Nil when Applied.
	Err error
}

// Result summarizes applying a directive batch to one document object.
type Result struct {
	// Applied is the number of directives that ran without a skip.
	Applied int
	// Skipped is the number of directives that were skipped.
	Skipped int
	// Outcomes has one entry per directive, in order.
	Outcomes []Outcome
	// Warnings describes every skip.
	Warnings Warnings
}

// HasChanges returns true if any directive modified the document.
func (r *Result) HasChanges() bool {
	for _, o := range r.Outcomes {
		if o.Changed {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any directive was skipped.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningCategory identifies why a directive was skipped.
type WarningCategory string

const (
	// WarnMalformed indicates a directive failed validation.
	WarnMalformed WarningCategory = "malformed_directive"
	// WarnTypeMismatch indicates an update whose value type differs from the current value.
	WarnTypeMismatch WarningCategory = "type_mismatch"
	// WarnPathConflict indicates a path whose existing prefix cannot hold the write or removal.
	WarnPathConflict WarningCategory = "path_conflict"
)

// Warning is a structured, non-fatal problem with one directive.
type Warning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// Index is the zero-based index of the directive.
	Index int
	// Path is the directive's path expression.
	Path string
	// Message describes the warning.
	Message string
	// Cause is the underlying error, if applicable.
	Cause error
}

// String returns a formatted warning message.
func (w *Warning) String() string {
	if w.Cause != nil {
		return fmt.Sprintf("directive[%d] path %q: %v", w.Index, w.Path, w.Cause)
	}
	if w.Message != "" {
		return fmt.Sprintf("directive[%d] path %q: %s", w.Index, w.Path, w.Message)
	}
	return fmt.Sprintf("directive[%d] path %q: %s", w.Index, w.Path, w.Category)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (w *Warning) Unwrap() error {
	return w.Cause
}

// Location returns the directive location.
func (w *Warning) Location() string {
	return fmt.Sprintf("directive[%d]", w.Index)
}

// Warnings is a collection of Warning.
type Warnings []*Warning

// Strings returns the formatted warning messages.
func (ws Warnings) Strings() []string {
	result := make([]string, len(ws))
	for i, w := range ws {
		if w == nil {
			continue
		}
		result[i] = w.String()
	}
	return result
}

// ByCategory filters warnings by category.
func (ws Warnings) ByCategory(cat WarningCategory) Warnings {
	var result Warnings
	for _, w := range ws {
		if w != nil && w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}
