// Package jsonnode decodes JSON into plain Go values together with a
// yaml.Node tree of the same shape, so JSON and YAML inputs share one
// key-order and line-number representation.
package jsonnode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// ErrNumberRange is returned for a JSON number that does not fit a float64.
var ErrNumberRange = errors.New("number out of range")

// LooksLikeJSON reports whether data starts, after whitespace, with '{' or '['.
func LooksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// Decode parses data as a single JSON value.
//
// Objects decode to map[string]any and arrays to []any. Numbers written
// without a fraction or exponent become int, others float64. When an object
// repeats a key, the last value wins and the key keeps its first position.
//
// The returned node is a yaml.DocumentNode mirroring the value, with
// source key order and line/column positions.
func Decode(data []byte) (any, *yaml.Node, error) {
	d := &decoder{dec: json.NewDecoder(bytes.NewReader(data)), data: data}
	d.dec.UseNumber()

	value, node, err := d.value()
	if err != nil {
		return nil, nil, err
	}
	tok, err := d.dec.Token()
	if err != io.EOF {
		if err == nil {
			line, _ := d.pos()
			err = fmt.Errorf("unexpected %v after top-level value (line %d)", tok, line)
		}
		return nil, nil, err
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Line: node.Line, Column: node.Column, Content: []*yaml.Node{node}}
	return value, doc, nil
}

// Parse decodes JSON or YAML. Content that looks like JSON is decoded with
// [Decode]; if that fails on syntax, the content is retried as YAML so flow
// style YAML still loads, and the JSON error is reported when both fail.
// An empty document yields a nil value and a node of Kind 0.
func Parse(data []byte) (any, *yaml.Node, error) {
	if !LooksLikeJSON(data) {
		return parseYAML(data)
	}
	value, node, err := Decode(data)
	if err == nil || errors.Is(err, ErrNumberRange) {
		return value, node, err
	}
	if value, node, yamlErr := parseYAML(data); yamlErr == nil {
		return value, node, nil
	}
	return nil, nil, err
}

// ParseNode is [Parse] without the decoded value.
func ParseNode(data []byte) (*yaml.Node, error) {
	if !LooksLikeJSON(data) {
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, err
		}
		return &root, nil
	}
	_, node, err := Parse(data)
	return node, err
}

func parseYAML(data []byte) (any, *yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	if root.Kind == 0 {
		return nil, &root, nil
	}
	var value any
	if err := root.Decode(&value); err != nil {
		return nil, nil, err
	}
	return value, &root, nil
}

type decoder struct {
	dec  *json.Decoder
	data []byte

	// scanned, line and lineStart track line numbers incrementally;
	// token offsets only grow.
	scanned   int
	line      int
	lineStart int
}

// pos returns the 1-based line and column of the next token.
func (d *decoder) pos() (line, col int) {
	off := int(d.dec.InputOffset())
	for off < len(d.data) && strings.IndexByte(" \t\r\n:,", d.data[off]) >= 0 {
		off++
	}
	for ; d.scanned < off; d.scanned++ {
		if d.data[d.scanned] == '\n' {
			d.line++
			d.lineStart = d.scanned + 1
		}
	}
	return d.line + 1, off - d.lineStart + 1
}

func (d *decoder) value() (any, *yaml.Node, error) {
	line, col := d.pos()
	tok, err := d.dec.Token()
	if err != nil {
		return nil, nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object(line, col)
		case '[':
			return d.array(line, col)
		}
		return nil, nil, fmt.Errorf("unexpected %q (line %d)", t, line)
	case string:
		return t, scalar("!!str", t, line, col), nil
	case json.Number:
		return number(t, line, col)
	case bool:
		return t, scalar("!!bool", strconv.FormatBool(t), line, col), nil
	case nil:
		return nil, scalar("!!null", "null", line, col), nil
	}
	return nil, nil, fmt.Errorf("unexpected token %v (line %d)", tok, line)
}

func (d *decoder) object(line, col int) (any, *yaml.Node, error) {
	m := make(map[string]any)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line, Column: col}
	keyAt := make(map[string]int)

	for d.dec.More() {
		keyLine, keyCol := d.pos()
		tok, err := d.dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("object key must be a string (line %d)", keyLine)
		}
		val, valNode, err := d.value()
		if err != nil {
			return nil, nil, err
		}

		if i, dup := keyAt[key]; dup {
			node.Content[i+1] = valNode
		} else {
			keyAt[key] = len(node.Content)
			node.Content = append(node.Content, scalar("!!str", key, keyLine, keyCol), valNode)
		}
		m[key] = val
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, nil, err
	}
	return m, node, nil
}

func (d *decoder) array(line, col int) (any, *yaml.Node, error) {
	list := []any{}
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line, Column: col}

	for d.dec.More() {
		val, valNode, err := d.value()
		if err != nil {
			return nil, nil, err
		}
		list = append(list, val)
		node.Content = append(node.Content, valNode)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, nil, err
	}
	return list, node, nil
}

// number keeps integer literals as int and everything else as float64.
// Integers too large for int fall back to float64.
func number(n json.Number, line, col int) (any, *yaml.Node, error) {
	lit := n.String()
	integral := !strings.ContainsAny(lit, ".eE")
	if integral {
		if i, err := strconv.ParseInt(lit, 10, 0); err == nil {
			return int(i), scalar("!!int", lit, line, col), nil
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s (line %d)", ErrNumberRange, lit, line)
	}
	if integral {
		lit = strconv.FormatFloat(f, 'e', -1, 64)
	}
	return f, scalar("!!float", lit, line, col), nil
}

func scalar(tag, value string, line, col int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: line, Column: col}
}
