// Package parser flattens a token stream into an ordered list of
// (path, target) assignments without building any tree.
//
// A value does not end its statement on its own. A newline only arms a
// deferred commit: if the next meaningful token is ':' the pending token
// becomes a key on the same line, otherwise the pending token is committed as
// a value before that next token is handled.
package parser

import (
	"fmt"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/lexer"
	"github.com/mcncl/cuebasic/internal/models"
)

type frameKind int

const (
	objectFrame frameKind = iota
	arrayFrame
)

// frame is one open '{' or '['. prefix holds the segments this scope adds to
// every path below it; for arrays the last segment is the current index.
// filled reports whether anything was emitted since the last ','.
type frame struct {
	kind   frameKind
	prefix models.Path
	empty  bool
	filled bool
	open   lexer.Token
}

type flattener struct {
	out       []models.Assignment
	scope     []*frame
	path      models.Path
	pending   *lexer.Token
	deferred  bool
	rootEmpty bool
	reference models.Path
}

// Flatten consumes tokens once, left to right, and returns one assignment
// per literal or empty-container occurrence in source order. Array indices
// start at 0 and advance by one per ',' so they are always contiguous.
func Flatten(tokens []lexer.Token) ([]models.Assignment, error) {
	f := &flattener{rootEmpty: true}
	for _, tok := range tokens {
		if err := f.step(tok); err != nil {
			return nil, err
		}
	}
	if err := f.finish(); err != nil {
		return nil, err
	}
	return f.out, nil
}

func (f *flattener) step(tok lexer.Token) error {
	if f.deferred && tok.Type != lexer.TColon && tok.Type != lexer.TNewline {
		if err := f.commitPending(); err != nil {
			return err
		}
	}
	f.deferred = false

	switch tok.Type {
	case lexer.TNewline:
		f.deferred = true
	case lexer.TIdent, lexer.TNull, lexer.TBool, lexer.TInt, lexer.TFloat, lexer.TString:
		if f.pending != nil {
			return unexpected(tok, fmt.Sprintf("after %s without a separator", f.pending.Describe()))
		}
		f.pending = &tok
	case lexer.TColon:
		return f.commitKey(tok)
	case lexer.TPeriod:
		if f.pending == nil || f.pending.Type != lexer.TString {
			return unexpected(tok, "a reference segment must be a quoted string")
		}
		f.reference = append(f.reference, models.Key(f.pending.Str))
		f.pending = nil
	case lexer.TComma:
		if err := f.terminate(tok); err != nil {
			return err
		}
		if n := len(f.scope); n > 0 {
			top := f.scope[n-1]
			if top.kind == arrayFrame && !top.filled {
				return unexpected(tok, "expected a value before ','")
			}
			top.filled = false
			if last := len(top.prefix) - 1; last >= 0 && top.prefix[last].IsIndex() {
				top.prefix[last].Index++
			}
		}
	case lexer.TLCurl:
		if f.pending != nil {
			return unexpected(tok, fmt.Sprintf("expected ':' after %s", f.pending.Describe()))
		}
		f.scope = append(f.scope, &frame{kind: objectFrame, prefix: f.path, empty: true, open: tok})
		f.path = nil
	case lexer.TLSquare:
		if f.pending != nil {
			return unexpected(tok, fmt.Sprintf("expected ':' after %s", f.pending.Describe()))
		}
		prefix := models.Concat(f.path, models.Path{models.Index(0)})
		f.scope = append(f.scope, &frame{kind: arrayFrame, prefix: prefix, empty: true, open: tok})
		f.path = nil
	case lexer.TRCurl:
		if err := f.terminate(tok); err != nil {
			return err
		}
		return f.close(tok, objectFrame)
	case lexer.TRSquare:
		if err := f.terminate(tok); err != nil {
			return err
		}
		return f.close(tok, arrayFrame)
	default:
		return unexpected(tok, "")
	}
	return nil
}

// commitKey turns the pending identifier or string into an object-key
// segment of the in-progress path.
func (f *flattener) commitKey(colon lexer.Token) error {
	key := f.pending
	f.pending = nil
	if key == nil {
		return unexpected(colon, "expected a key before ':'")
	}
	if key.Type != lexer.TIdent && key.Type != lexer.TString {
		return errors.NewParsingError(
			fmt.Sprintf("%s at %s cannot be used as a key", key.Describe(), key.Pos),
			errors.ErrUnexpectedToken,
		)
	}
	if len(f.reference) > 0 {
		return errors.NewParsingError(
			fmt.Sprintf("reference ending in %s at %s cannot be used as a key", key.Describe(), key.Pos),
			errors.ErrUnexpectedToken,
		)
	}
	f.path = append(f.path, models.Key(key.Str))
	return nil
}

// terminate ends the current statement at a ',', a closing bracket or the
// end of input.
func (f *flattener) terminate(at lexer.Token) error {
	if f.pending == nil {
		if len(f.reference) > 0 {
			return unexpected(at, fmt.Sprintf("reference %s is incomplete", f.reference))
		}
		if len(f.path) > 0 {
			return errors.NewParsingError(
				fmt.Sprintf("key %q has no value before %s", f.path.String(), describeAt(at)),
				errors.ErrMissingValue,
			)
		}
		return nil
	}
	return f.commitPending()
}

// commitPending emits the pending token as the value of the current path.
func (f *flattener) commitPending() error {
	tok := f.pending
	if tok == nil {
		return nil
	}
	f.pending = nil

	var target models.PathTarget
	switch {
	case tok.Type == lexer.TIdent, tok.Type == lexer.TString && len(f.reference) > 0:
		target = models.ReferenceTarget(models.Concat(f.reference, models.Path{models.Key(tok.Str)}))
	case len(f.reference) > 0:
		return errors.NewParsingError(
			fmt.Sprintf("reference cannot end in %s at %s", tok.Describe(), tok.Pos),
			errors.ErrUnexpectedToken,
		)
	default:
		v, _ := tok.Value()
		target = models.ScalarTarget(v)
	}

	f.emit(f.fullPath(), target)
	f.path = nil
	f.reference = nil
	return nil
}

func (f *flattener) close(tok lexer.Token, kind frameKind) error {
	n := len(f.scope)
	if n == 0 {
		return errors.NewParsingError(
			fmt.Sprintf("%s at %s has no matching opener", tok.Describe(), tok.Pos),
			errors.ErrUnbalanced,
		)
	}
	top := f.scope[n-1]
	if top.kind != kind {
		return errors.NewParsingError(
			fmt.Sprintf("%s at %s does not close %s opened at %s", tok.Describe(), tok.Pos, top.open.Describe(), top.open.Pos),
			errors.ErrUnbalanced,
		)
	}

	if !top.empty {
		f.scope = f.scope[:n-1]
		return nil
	}

	at := f.fullPath()
	target := models.EmptyObjectTarget()
	if kind == arrayFrame {
		at = at[:len(at)-1]
		target = models.EmptyArrayTarget()
	}
	f.scope = f.scope[:n-1]
	f.emit(at, target)
	return nil
}

func (f *flattener) finish() error {
	if err := f.terminate(lexer.Token{Type: lexer.TEOF}); err != nil {
		return err
	}
	if n := len(f.scope); n > 0 {
		open := f.scope[n-1].open
		return errors.NewParsingError(
			fmt.Sprintf("%s opened at %s is never closed", open.Describe(), open.Pos),
			errors.ErrUnbalanced,
		)
	}
	if f.rootEmpty {
		f.emit(models.Path{}, models.EmptyObjectTarget())
	}
	return nil
}

// emit records an assignment; every enclosing scope and its current element
// are now non-empty.
func (f *flattener) emit(path models.Path, target models.PathTarget) {
	f.out = append(f.out, models.Assignment{Path: path, Target: target})
	for _, fr := range f.scope {
		fr.empty = false
		fr.filled = true
	}
	f.rootEmpty = false
}

// fullPath is every scope prefix followed by the in-progress path, copied so
// later index updates do not leak into emitted paths.
func (f *flattener) fullPath() models.Path {
	parts := make([]models.Path, 0, len(f.scope)+1)
	for _, fr := range f.scope {
		parts = append(parts, fr.prefix)
	}
	return models.Concat(append(parts, f.path)...)
}

func describeAt(tok lexer.Token) string {
	if tok.Type == lexer.TEOF {
		return tok.Describe()
	}
	return fmt.Sprintf("%s at %s", tok.Describe(), tok.Pos)
}

func unexpected(tok lexer.Token, detail string) error {
	msg := "unexpected " + describeAt(tok)
	if detail != "" {
		msg += ": " + detail
	}
	return errors.NewParsingError(msg, errors.ErrUnexpectedToken)
}
