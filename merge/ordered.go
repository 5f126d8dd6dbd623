package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// marshalOrdered encodes value in format, taking key order from source
// where it has a matching mapping node. JSON is indented two spaces and
// ends with a newline.
func marshalOrdered(source *yaml.Node, value any, format SourceFormat) ([]byte, error) {
	if format == SourceFormatYAML {
		node, err := buildOrderedNode(source, value)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var compact bytes.Buffer
	if err := marshalNodeAsJSON(&compact, source, value); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalNodeAsJSON writes data as compact JSON, using node (which may be
// nil) only for key order.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node, data any) error {
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) > 0 {
			return marshalNodeAsJSON(buf, node.Content[0], data)
		}
		node = nil
	}

	switch val := data.(type) {
	case map[string]any:
		return writeJSONObject(buf, node, val)

	case map[any]any:
		return writeJSONObject(buf, node, stringKeys(val))

	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalNodeAsJSON(buf, childAt(node, i), item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		return writeJSONScalar(buf, data)
	}
}

func writeJSONObject(buf *bytes.Buffer, node *yaml.Node, m map[string]any) error {
	idx := buildNodeIndex(node)
	buf.WriteByte('{')
	first := true
	for _, key := range keyOrder(node, m) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeJSONScalar(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := marshalNodeAsJSON(buf, idx[key], m[key]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeJSONScalar writes a leaf value. Strings are not HTML-escaped and
// floats always carry a fraction or exponent so they read back as floats.
func writeJSONScalar(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float64:
		s, err := formatFloat(val)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	default:
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return err
		}
		// Encode appends a newline.
		buf.Truncate(buf.Len() - 1)
	}
	return nil
}

// formatFloat renders f the way encoding/json does, adding ".0" to
// integral values.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("unsupported float value: %v", f)
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	s := string(b)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

// buildOrderedNode creates a yaml.Node tree with content ordered according
// to sourceNode but with values from data.
func buildOrderedNode(sourceNode *yaml.Node, data any) (*yaml.Node, error) {
	if sourceNode != nil && sourceNode.Kind == yaml.DocumentNode {
		var inner *yaml.Node
		if len(sourceNode.Content) > 0 {
			inner = sourceNode.Content[0]
		}
		child, err := buildOrderedNode(inner, data)
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{child}}, nil
	}

	switch val := data.(type) {
	case map[string]any:
		return orderedMappingNode(sourceNode, val)

	case map[any]any:
		return orderedMappingNode(sourceNode, stringKeys(val))

	case []any:
		result := &yaml.Node{
			Kind:    yaml.SequenceNode,
			Content: make([]*yaml.Node, 0, len(val)),
		}
		for i, item := range val {
			itemNode, err := buildOrderedNode(childAt(sourceNode, i), item)
			if err != nil {
				return nil, err
			}
			result.Content = append(result.Content, itemNode)
		}
		return result, nil

	default:
		return scalarValueNode(data)
	}
}

func orderedMappingNode(sourceNode *yaml.Node, m map[string]any) (*yaml.Node, error) {
	idx := buildNodeIndex(sourceNode)
	result := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, 2*len(m)),
	}
	for _, key := range keyOrder(sourceNode, m) {
		valNode, err := buildOrderedNode(idx[key], m[key])
		if err != nil {
			return nil, err
		}
		result.Content = append(result.Content, scalarNode("!!str", key), valNode)
	}
	return result, nil
}

// keyOrder returns the keys of m in source order, followed by keys the
// source does not have, sorted.
func keyOrder(node *yaml.Node, m map[string]any) []string {
	sourceKeys := extractKeyOrder(node)
	seen := make(map[string]bool, len(sourceKeys))
	keys := make([]string, 0, len(m))
	for _, k := range sourceKeys {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
		}
		seen[k] = true
	}

	var extra []string
	for k := range m {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

// extractKeyOrder returns the keys from a MappingNode in their original order.
func extractKeyOrder(node *yaml.Node) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode {
			keys = append(keys, node.Content[i].Value)
		}
	}
	return keys
}

// nodeIndex maps mapping keys to their value nodes.
type nodeIndex map[string]*yaml.Node

func buildNodeIndex(node *yaml.Node) nodeIndex {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	idx := make(nodeIndex, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode {
			idx[node.Content[i].Value] = node.Content[i+1]
		}
	}
	return idx
}

// childAt returns the i-th element of a sequence node, or nil.
func childAt(node *yaml.Node, i int) *yaml.Node {
	if node == nil || node.Kind != yaml.SequenceNode || i >= len(node.Content) {
		return nil
	}
	return node.Content[i]
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func scalarValueNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val)), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		switch {
		case math.IsNaN(val):
			return scalarNode("!!float", ".nan"), nil
		case math.IsInf(val, 1):
			return scalarNode("!!float", ".inf"), nil
		case math.IsInf(val, -1):
			return scalarNode("!!float", "-.inf"), nil
		}
		s, err := formatFloat(val)
		if err != nil {
			return nil, err
		}
		return scalarNode("!!float", s), nil
	case string:
		return scalarNode("!!str", val), nil
	case time.Time:
		return scalarNode("!!timestamp", val.Format(time.RFC3339Nano)), nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("cannot convert %T to yaml.Node: %w", v, err)
		}
		return node, nil
	}
}
