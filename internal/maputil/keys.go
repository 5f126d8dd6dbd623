// Package maputil provides helpers for decoded document maps.
package maputil

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
// A nil or empty map yields an empty, non-nil slice.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DeepCopy returns a copy of a decoded document value that shares no maps
// or slices with v. Scalars are returned as-is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, child := range val {
			result[k] = DeepCopy(child)
		}
		return result

	case map[any]any:
		result := make(map[any]any, len(val))
		for k, child := range val {
			result[k] = DeepCopy(child)
		}
		return result

	case []any:
		result := make([]any, len(val))
		for i, child := range val {
			result[i] = DeepCopy(child)
		}
		return result

	default:
		return val
	}
}
