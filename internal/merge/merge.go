// Package merge folds a flat list of path assignments into a single value
// tree.
//
// Assignments are applied in list order. Re-declaring an equal value at the
// same path is accepted. Unequal re-declarations, and paths that need an object
// or array where something else already lives, are conflicts: a strict Merger
// rejects the document, a lenient one keeps the later assignment and logs a
// warning.
package merge

import (
	"fmt"
	"log/slog"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/log"
	"github.com/mcncl/cuebasic/internal/models"
	"github.com/mcncl/cuebasic/internal/parser"
)

// ConflictKind tells which rule an assignment broke.
type ConflictKind int

const (
	// ValueConflict is two unequal values assigned to one terminal path.
	ValueConflict ConflictKind = iota
	// StructuralConflict is a path that walks through a value that is not the
	// object or array its next segment needs.
	StructuralConflict
)

func (k ConflictKind) String() string {
	if k == StructuralConflict {
		return "structural conflict"
	}
	return "value conflict"
}

// ConflictError describes a rejected assignment. For a StructuralConflict,
// New is an empty container of the kind the path required.
type ConflictError struct {
	Kind ConflictKind
	Path models.Path
	Old  *models.Value
	New  *models.Value
}

func (e *ConflictError) Error() string {
	if e.Kind == StructuralConflict {
		return fmt.Sprintf("%s at %s: expected %s, found %s", e.Kind, e.Path.Display(), e.New.Kind, e.Old)
	}
	return fmt.Sprintf("%s at %s: existing %s, new %s", e.Kind, e.Path.Display(), e.Old, e.New)
}

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *ConflictError) Unwrap() error {
	if e.Kind == StructuralConflict {
		return errors.ErrStructuralConflict
	}
	return errors.ErrValueConflict
}

// Merger applies assignments under one conflict policy.
type Merger struct {
	strict bool
	logger log.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithStrict selects the conflict policy. Strict is the default.
func WithStrict(strict bool) Option {
	return func(m *Merger) {
		m.strict = strict
	}
}

// WithLastWriteWins is WithStrict(false).
func WithLastWriteWins() Option {
	return WithStrict(false)
}

// WithLogger sets where lenient overwrites and dropped references are
// reported. Without it the process-wide default logger is used.
func WithLogger(logger log.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// New creates a strict Merger unless opts say otherwise.
func New(opts ...Option) *Merger {
	m := &Merger{strict: true, logger: log.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Strict reports whether conflicts are fatal.
func (m *Merger) Strict() bool {
	return m.strict
}

// Merge builds the value described by assignments. The root starts out as
// null and takes the shape of the first path applied to it.
func (m *Merger) Merge(assignments []models.Assignment) (*models.Value, error) {
	root := models.Null()
	trace := m.logger.Level() <= log.LevelTrace
	for _, a := range assignments {
		if trace {
			m.logger.Trace("applying assignment", slog.String("assignment", a.String()))
		}
		var err error
		if root, err = m.apply(root, a); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Merge is New(WithStrict(strict)).Merge(assignments).
func Merge(assignments []models.Assignment, strict bool) (*models.Value, error) {
	return New(WithStrict(strict)).Merge(assignments)
}

// FromString lexes, flattens and merges src in one call.
func FromString(src string, strict bool) (*models.Value, error) {
	assignments, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return Merge(assignments, strict)
}

func (m *Merger) apply(root *models.Value, a models.Assignment) (*models.Value, error) {
	value, ok := a.Target.ToValue()
	if !ok {
		m.logger.Warn("dropping unresolved reference",
			slog.String("path", a.Path.Display()),
			slog.String("ref", a.Target.Ref.String()),
		)
		return root, nil
	}

	if len(a.Path) == 0 {
		if root.Kind == models.NullKind {
			return value, nil
		}
		return m.resolve(a.Path, root, value)
	}

	var err error
	if root.Kind == models.NullKind {
		root = containerFor(a.Path[0])
	} else if root, err = m.coerce(models.Path{}, root, a.Path[0]); err != nil {
		return nil, err
	}

	node := root
	last := len(a.Path) - 1
	for i, seg := range a.Path[:last] {
		if err := checkIndex(a.Path[:i+1], node, seg); err != nil {
			return nil, err
		}
		next := child(node, seg)
		if next == nil {
			next = containerFor(a.Path[i+1])
		} else if next, err = m.coerce(a.Path[:i+1], next, a.Path[i+1]); err != nil {
			return nil, err
		}
		put(node, seg, next)
		node = next
	}

	seg := a.Path[last]
	if err := checkIndex(a.Path, node, seg); err != nil {
		return nil, err
	}
	merged := value
	if existing := child(node, seg); existing != nil {
		if merged, err = m.resolve(a.Path, existing, value); err != nil {
			return nil, err
		}
	}
	put(node, seg, merged)
	return root, nil
}

// coerce returns v if it can be indexed by next, otherwise resolves the
// structural conflict according to the policy.
func (m *Merger) coerce(at models.Path, v *models.Value, next models.PathSegment) (*models.Value, error) {
	want := containerFor(next)
	if v.Kind == want.Kind {
		return v, nil
	}
	conflict := &ConflictError{Kind: StructuralConflict, Path: at, Old: v, New: want}
	if m.strict {
		return nil, errors.NewMergeError("strict merge failed", conflict)
	}
	m.logger.Warn("discarding old value",
		slog.String("path", at.Display()),
		slog.String("old", v.String()),
		slog.String("expected", want.Kind.String()),
	)
	return want, nil
}

// resolve decides what ends up at path when value is assigned over existing.
func (m *Merger) resolve(path models.Path, existing, value *models.Value) (*models.Value, error) {
	if existing.Equal(value) {
		return existing, nil
	}
	// "{}" and "[]" only assert the kind of what is there.
	if isEmptyContainer(value) && existing.Kind == value.Kind {
		return existing, nil
	}
	conflict := &ConflictError{Kind: ValueConflict, Path: path, Old: existing, New: value}
	if m.strict {
		return nil, errors.NewMergeError("strict merge failed", conflict)
	}
	m.logger.Warn("discarding old value",
		slog.String("path", path.Display()),
		slog.String("old", existing.String()),
		slog.String("new", value.String()),
	)
	return value, nil
}

// checkIndex rejects array indices that would leave a hole. The parser only
// produces contiguous indices, so this fires for hand-built assignment lists.
func checkIndex(at models.Path, node *models.Value, seg models.PathSegment) error {
	if !seg.IsIndex() || seg.Index <= len(node.Array) {
		return nil
	}
	return errors.NewMergeError(
		fmt.Sprintf("index %d at %s is past the end of an array of length %d", seg.Index, at.Display(), len(node.Array)),
		errors.ErrIndexGap,
	)
}

func containerFor(seg models.PathSegment) *models.Value {
	if seg.IsIndex() {
		return models.NewArray()
	}
	return models.NewObject()
}

func isEmptyContainer(v *models.Value) bool {
	switch v.Kind {
	case models.ArrayKind:
		return len(v.Array) == 0
	case models.ObjectKind:
		return len(v.Object) == 0
	}
	return false
}

// child returns what node holds under seg, or nil.
func child(node *models.Value, seg models.PathSegment) *models.Value {
	if seg.IsIndex() {
		if seg.Index < len(node.Array) {
			return node.Array[seg.Index]
		}
		return nil
	}
	return node.Object[seg.Key]
}

// put stores v under seg, appending when seg indexes one past the end.
func put(node *models.Value, seg models.PathSegment, v *models.Value) {
	if !seg.IsIndex() {
		node.Set(seg.Key, v)
		return
	}
	if seg.Index == len(node.Array) {
		node.Array = append(node.Array, v)
		return
	}
	node.Array[seg.Index] = v
}
