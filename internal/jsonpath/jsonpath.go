// Package jsonpath provides the minimal path language docpatch uses to address
// a single location inside a decoded JSON or YAML document.
//
// Supported syntax:
//   - $ (root)
//   - .field or ['field'] / ["field"] (map key)
//   - [0] (sequence index; negative indices count from the end)
//
// Rejected at parse time:
//   - .* and [*] (wildcards)
//   - .. (recursive descent)
//   - [?...] (filters)
//   - [start:end] (slices)
//
// Every accepted path addresses at most one location, so Get, Upsert and
// Remove never have to choose between multiple matches.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/erraggy/docpatch/mergeerrors"
)

// Path represents a parsed path expression.
type Path struct {
	raw      string
	segments []Segment
}

// String returns the original path expression.
func (p *Path) String() string {
	return p.raw
}

// Segments returns the parsed segments, starting with the root.
func (p *Path) Segments() []Segment {
	return p.segments
}

// IsRoot reports whether the path addresses the whole document.
func (p *Path) IsRoot() bool {
	return len(p.segments) == 1
}

// Parent returns the path of the container holding p's target.
// The parent of the root is the root.
func (p *Path) Parent() *Path {
	if p.IsRoot() {
		return p
	}
	segs := p.segments[:len(p.segments)-1]
	return &Path{raw: render(segs), segments: segs}
}

// Last returns the final segment of the path.
func (p *Path) Last() Segment {
	return p.segments[len(p.segments)-1]
}

// Segment represents a single step in a path expression.
type Segment interface {
	// String renders the segment in path syntax.
	String() string

	segmentType() string
}

// RootSegment represents the root selector ($).
type RootSegment struct{}

func (s RootSegment) segmentType() string { return "root" }

// String implements Segment.
func (s RootSegment) String() string { return "$" }

// ChildSegment represents a map key selector (.field or ['field']).
type ChildSegment struct {
	Key string
}

func (s ChildSegment) segmentType() string { return "child" }

// String implements Segment.
func (s ChildSegment) String() string {
	if s.Key != "" && strings.IndexFunc(s.Key, func(r rune) bool { return r > unicode.MaxASCII || !isIdentChar(byte(r)) }) < 0 {
		return "." + s.Key
	}
	return "['" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s.Key) + "']"
}

// IndexSegment represents a sequence index selector ([n]).
type IndexSegment struct {
	Index int
}

func (s IndexSegment) segmentType() string { return "index" }

// String implements Segment.
func (s IndexSegment) String() string { return "[" + strconv.Itoa(s.Index) + "]" }

func render(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return b.String()
}

// syntaxError reports an unparsable expression. It matches
// mergeerrors.ErrInvalidPath with errors.Is.
type syntaxError struct {
	expr string
	msg  string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("jsonpath: %s in %q", e.msg, e.expr)
}

func (e *syntaxError) Is(target error) bool {
	return target == mergeerrors.ErrInvalidPath
}

// Parse parses a path expression string into a Path.
//
// Examples:
//
//	Parse("$.count")                 // top-level field
//	Parse("$.meta['display name']")  // key with a space
//	Parse("$.variants[0].sku")       // field of the first sequence element
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, &syntaxError{expr: expr, msg: "empty expression"}
	}

	p := &parser{
		input: expr,
		pos:   0,
	}

	segments, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Path{
		raw:      expr,
		segments: segments,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(expr string) *Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// parser is the internal path parser.
type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return &syntaxError{expr: p.input, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() ([]Segment, error) {
	// Must start with $
	if !p.consume('$') {
		return nil, p.errorf("expression must start with '$'")
	}
	segments := []Segment{RootSegment{}}

	for p.pos < len(p.input) {
		ch := p.peek()

		switch ch {
		case '.':
			p.advance()
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		case '[':
			p.advance()
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		default:
			return nil, p.errorf("unexpected character %q at position %d", ch, p.pos)
		}
	}

	return segments, nil
}

func (p *parser) parseDotSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end after '.'")
	}

	switch p.peek() {
	case '*':
		return nil, p.errorf("wildcards are not supported")
	case '.':
		return nil, p.errorf("recursive descent is not supported")
	}

	key := p.parseIdentifier()
	if key == "" {
		return nil, p.errorf("expected identifier after '.' at position %d", p.pos)
	}

	return ChildSegment{Key: key}, nil
}

func (p *parser) parseBracketSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end after '['")
	}

	ch := p.peek()

	switch {
	case ch == '?':
		return nil, p.errorf("filter expressions are not supported")

	case ch == '*':
		return nil, p.errorf("wildcards are not supported")

	// Quoted key: ['key'] or ["key"]
	case ch == '\'' || ch == '"':
		p.advance()
		key, err := p.parseQuotedString(ch)
		if err != nil {
			return nil, err
		}
		if !p.consume(']') {
			return nil, p.errorf("expected ']' after quoted key")
		}
		return ChildSegment{Key: key}, nil

	case unicode.IsDigit(rune(ch)) || ch == '-':
		numStr := p.parseInteger()
		if p.peek() == ':' {
			return nil, p.errorf("slices are not supported")
		}
		if !p.consume(']') {
			return nil, p.errorf("expected ']' after index")
		}
		idx, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, p.errorf("invalid index %q", numStr)
		}
		return IndexSegment{Index: idx}, nil
	}

	return nil, p.errorf("unexpected character %q in bracket at position %d", ch, p.pos)
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	var result strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return result.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			escaped := p.input[p.pos]
			switch escaped {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			default:
				result.WriteByte(escaped)
			}
			p.pos++
			continue
		}
		result.WriteByte(ch)
		p.pos++
	}
	return "", p.errorf("unterminated string at position %d", p.pos)
}

func (p *parser) parseInteger() string {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *parser) consume(ch byte) bool {
	if p.peek() == ch {
		p.advance()
		return true
	}
	return false
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-'
}
