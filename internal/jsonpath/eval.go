package jsonpath

import (
	"slices"

	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/typecast"
)

// stepState is the outcome of applying one segment to one node.
type stepState int

const (
	stepFound stepState = iota
	stepMissing
	stepConflict
)

// Get evaluates the path against the document and returns the addressed value.
//
// The document should be a map[string]any or []any structure (typically from
// JSON/YAML unmarshaling). The boolean is false when the location does not
// exist; a null value that exists is returned as (nil, true).
func (p *Path) Get(doc any) (any, bool) {
	current := doc
	for _, seg := range p.segments[1:] {
		next, state := lookup(current, seg)
		if state != stepFound {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Upsert writes value at the addressed location, creating missing
// intermediate maps along the way.
//
// The document is modified in place and returned. Upsert fails with a
// *mergeerrors.PathConflictError, without modifying the document, when:
//   - a field step meets a sequence or a scalar
//   - an index step meets a map or a scalar, or is out of range
//   - a missing intermediate would have to be followed by an index step
//     (only maps are ever created)
//   - the path is the root
func (p *Path) Upsert(doc any, value any) (any, error) {
	if p.IsRoot() {
		return doc, p.conflict(p.segments[0], doc, "cannot replace the document root")
	}

	last := len(p.segments) - 1
	current := doc

	// Walk the existing prefix read-only so a conflict never leaves
	// half-built structure behind.
	i := 1
	for ; i < last; i++ {
		next, state := lookup(current, p.segments[i])
		if state == stepConflict {
			return doc, p.stepConflict(p.segments[i], current)
		}
		if state == stepMissing {
			break
		}
		current = next
	}

	if i < last {
		// current is a map missing segments[i]; everything from here on is created.
		for _, seg := range p.segments[i:] {
			if _, ok := seg.(IndexSegment); ok {
				return doc, p.conflict(seg, map[string]any(nil), "cannot create a list for an index step")
			}
		}
		m := current.(map[string]any)
		for _, seg := range p.segments[i:last] {
			child := make(map[string]any)
			m[seg.(ChildSegment).Key] = child
			m = child
		}
		m[p.segments[last].(ChildSegment).Key] = value
		return doc, nil
	}

	if err := p.setIn(current, p.segments[last], value); err != nil {
		return doc, err
	}
	return doc, nil
}

// Remove deletes the addressed location from its parent container.
//
// A path that does not resolve is a silent no-op: (doc, false, nil). Map
// entries are deleted by key; sequence elements are deleted by index and
// later elements shift down. The returned document differs from doc only when
// an element is removed from a top-level sequence.
//
// Removing the root, or a location whose parent does not match the final
// step's kind, returns a *mergeerrors.PathConflictError and leaves the
// document unchanged.
func (p *Path) Remove(doc any) (any, bool, error) {
	if _, ok := p.Get(doc); !ok {
		return doc, false, nil
	}
	if p.IsRoot() {
		return doc, false, p.conflict(p.segments[0], doc, "cannot remove the document root")
	}

	parentPath := p.Parent()
	parent, _ := parentPath.Get(doc)

	switch s := p.Last().(type) {
	case ChildSegment:
		m, ok := parent.(map[string]any)
		if !ok {
			return doc, false, p.stepConflict(s, parent)
		}
		delete(m, s.Key)
		return doc, true, nil

	case IndexSegment:
		arr, ok := parent.([]any)
		if !ok {
			return doc, false, p.stepConflict(s, parent)
		}
		idx, _ := normalizeIndex(s.Index, len(arr))
		shortened := slices.Delete(arr, idx, idx+1)
		if parentPath.IsRoot() {
			return shortened, true, nil
		}
		if _, err := parentPath.Upsert(doc, shortened); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}

	return doc, false, p.stepConflict(p.Last(), parent)
}

// lookup applies a segment to a single node.
func lookup(node any, seg Segment) (any, stepState) {
	switch s := seg.(type) {
	case ChildSegment:
		m, ok := node.(map[string]any)
		if !ok {
			return nil, stepConflict
		}
		val, exists := m[s.Key]
		if !exists {
			return nil, stepMissing
		}
		return val, stepFound

	case IndexSegment:
		arr, ok := node.([]any)
		if !ok {
			return nil, stepConflict
		}
		idx, ok := normalizeIndex(s.Index, len(arr))
		if !ok {
			return nil, stepConflict
		}
		return arr[idx], stepFound
	}
	return nil, stepConflict
}

// setIn sets a value in the parent at the location specified by the segment.
func (p *Path) setIn(parent any, seg Segment, value any) error {
	switch s := seg.(type) {
	case ChildSegment:
		m, ok := parent.(map[string]any)
		if !ok {
			return p.stepConflict(s, parent)
		}
		m[s.Key] = value
		return nil

	case IndexSegment:
		arr, ok := parent.([]any)
		if !ok {
			return p.stepConflict(s, parent)
		}
		idx, ok := normalizeIndex(s.Index, len(arr))
		if !ok {
			return p.conflict(s, parent, "index out of range")
		}
		arr[idx] = value
		return nil
	}
	return p.stepConflict(seg, parent)
}

// normalizeIndex resolves negative indices and checks bounds.
func normalizeIndex(idx, length int) (int, bool) {
	if idx < 0 {
		idx += length
	}
	return idx, idx >= 0 && idx < length
}

func (p *Path) stepConflict(seg Segment, node any) error {
	if arr, ok := node.([]any); ok {
		if s, isIndex := seg.(IndexSegment); isIndex {
			if _, inRange := normalizeIndex(s.Index, len(arr)); !inRange {
				return p.conflict(seg, node, "index out of range")
			}
		}
	}
	return p.conflict(seg, node, "")
}

func (p *Path) conflict(seg Segment, node any, msg string) error {
	return &mergeerrors.PathConflictError{
		Path:      p.raw,
		Step:      seg.String(),
		Container: typecast.Of(node).String(),
		Message:   msg,
	}
}
