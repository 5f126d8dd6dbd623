package override

import (
	"errors"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/internal/maputil"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/typecast"
)

// Option configures an Applier.
type Option func(*Applier)

// WithLogger sets the logger used for skipped directives.
func WithLogger(l docpatch.Logger) Option {
	return func(a *Applier) {
		a.logger = docpatch.OrNop(l)
	}
}

// Applier applies directive lists to document objects.
type Applier struct {
	logger docpatch.Logger
}

// NewApplier creates a new Applier with default settings.
func NewApplier(opts ...Option) *Applier {
	a := &Applier{logger: docpatch.NopLogger{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply runs directives against obj sequentially; later directives see the
// effects of earlier ones. obj is modified in place.
//
// A directive that fails validation, would change the type of an existing
// non-null value, or conflicts with the existing structure is skipped and
// recorded as a Warning. Apply never stops early.
func (a *Applier) Apply(obj map[string]any, directives []Directive) *Result {
	result := &Result{Outcomes: make([]Outcome, 0, len(directives))}

	for i, d := range directives {
		outcome := Outcome{Index: i, Path: d.Path, Operation: d.Operation}
		log := a.logger.With("directive", i, "path", d.Path)

		path, err := compile(i, d)
		if err == nil {
			switch d.Operation {
			case OpUpdate:
				outcome.Changed, err = update(obj, path, d.Value)
			case OpRemove:
				outcome.Changed, err = remove(obj, path)
			}
		}

		if err != nil {
			w := &Warning{
				Category: categorize(err),
				Index:    i,
				Path:     d.Path,
				Cause:    err,
			}
			log.Warn("skipping directive", "category", string(w.Category), "error", err)
			outcome.Err = err
			result.Warnings = append(result.Warnings, w)
			result.Outcomes = append(result.Outcomes, outcome)
			result.Skipped++
			continue
		}

		log.Debug("directive applied", "operation", string(d.Operation), "changed", outcome.Changed)
		outcome.Applied = true
		result.Outcomes = append(result.Outcomes, outcome)
		result.Applied++
	}

	return result
}

// update writes a copy of value at path. An existing non-null value must
// have the same Tag as value; a missing or null value is replaced as-is.
func update(obj map[string]any, path *jsonpath.Path, value any) (bool, error) {
	if current, found := path.Get(obj); found && current != nil {
		want, got := typecast.Of(current), typecast.Of(value)
		if want != got {
			return false, &mergeerrors.TypeMismatchError{Path: path.String(), Want: want.String(), Got: got.String()}
		}
	}
	if _, err := path.Upsert(obj, maputil.DeepCopy(value)); err != nil {
		return false, err
	}
	return true, nil
}

// remove deletes path. An absent path is a successful no-op.
func remove(obj map[string]any, path *jsonpath.Path) (bool, error) {
	_, removed, err := path.Remove(obj)
	return removed, err
}

func categorize(err error) WarningCategory {
	switch {
	case errors.Is(err, mergeerrors.ErrTypeMismatch):
		return WarnTypeMismatch
	case errors.Is(err, mergeerrors.ErrPathConflict):
		return WarnPathConflict
	default:
		return WarnMalformed
	}
}
