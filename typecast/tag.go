package typecast

import (
	"encoding/json"
	"strings"
)

//go:generate go tool stringer -type=Tag -trimprefix=Tag -output=tag_string.go

// Tag is the closed set of value kinds a document can hold.
// Casting and type validation switch over Tag rather than inspecting Go types
// at each call site.
type Tag int

const (
	// TagInvalid marks a Go value that cannot appear in a decoded document.
	TagInvalid Tag = iota
	TagNull
	TagString
	TagInteger
	TagFloat
	TagBoolean
	TagList
	TagMap
)

// IsContainer reports whether t is List or Map.
func (t Tag) IsContainer() bool {
	return t == TagList || t == TagMap
}

// Of returns the Tag describing the runtime shape of value.
//
// Values are expected to come from a YAML or JSON decoder: nil, string, bool,
// any Go integer or float kind, []any, and map[string]any (map[any]any is
// accepted for YAML documents with non-string keys). A json.Number is
// classified as Integer or Float from its literal form.
func Of(value any) Tag {
	switch v := value.(type) {
	case nil:
		return TagNull
	case string:
		return TagString
	case bool:
		return TagBoolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return TagInteger
	case float32, float64:
		return TagFloat
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return TagFloat
		}
		return TagInteger
	case []any:
		return TagList
	case map[string]any, map[any]any:
		return TagMap
	default:
		return TagInvalid
	}
}
