// Package typecast converts untyped table text into document values.
//
// Table sources carry no native types, so every cell arrives as a string.
// Before a cell is merged into a document it is cast to the [Tag] of the value
// already stored at the target path:
//
//	current, _ := path.Get(doc)         // 5
//	v, err := typecast.Cast("9", typecast.Of(current))
//	// v == 9 (int), err == nil
//
// Casting is fail-soft: when the text cannot be converted, Cast returns the
// raw string together with a *mergeerrors.CastError describing why. The caller
// decides whether the fallback is acceptable (it never is for a typed field,
// because the fallback's Tag differs from the target).
package typecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/erraggy/docpatch/internal/jsonnode"
	"github.com/erraggy/docpatch/mergeerrors"
)

// truthy holds the lower-cased tokens that cast to true. Everything else is false.
var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
}

// Cast converts raw to the value kind named by target.
//
//   - String and Null return raw unchanged.
//   - Integer and Float parse the trimmed token; NaN and infinities are rejected.
//   - Boolean is true iff the lower-cased token is "true", "1", or "yes".
//   - List and Map decode raw as a JSON or YAML fragment; an empty token
//     yields an empty container. A fragment of another kind is returned
//     as decoded so the caller can report the mismatch.
//
// The returned value is always usable. When err is non-nil it wraps
// mergeerrors.ErrCast and the value is raw.
func Cast(raw string, target Tag) (any, error) {
	switch target {
	case TagString, TagNull:
		return raw, nil

	case TagInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return raw, castError(raw, target, unwrapNumError(err))
		}
		return n, nil

	case TagFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return raw, castError(raw, target, unwrapNumError(err))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return raw, castError(raw, target, errors.New("not a finite number"))
		}
		return f, nil

	case TagBoolean:
		return truthy[strings.ToLower(raw)], nil

	case TagList:
		if raw == "" {
			return []any{}, nil
		}
		return decodeFragment(raw, target)

	case TagMap:
		if raw == "" {
			return map[string]any{}, nil
		}
		return decodeFragment(raw, target)

	default:
		return raw, castError(raw, target, errors.New("unsupported target type"))
	}
}

// Infer returns the value stored for a table cell when the target path has
// no existing value. New fields are always strings; no numeric or boolean
// sniffing is applied.
func Infer(raw string) any {
	return raw
}

// Canonical returns the canonical text form of a document value, such that
// Cast(Canonical(v), Of(v)) reproduces v for scalars.
func Canonical(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

func decodeFragment(raw string, target Tag) (any, error) {
	v, _, err := jsonnode.Parse([]byte(raw))
	if err != nil {
		return raw, castError(raw, target, err)
	}
	return v, nil
}

func castError(raw string, target Tag, cause error) error {
	return &mergeerrors.CastError{Raw: raw, Target: target.String(), Cause: cause}
}

// unwrapNumError drops strconv's function/input prefix, which would repeat
// the raw text already carried by CastError.
func unwrapNumError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}
