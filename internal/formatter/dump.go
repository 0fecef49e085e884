package formatter

import (
	"fmt"
	"io"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/lexer"
	"github.com/mcncl/cuebasic/internal/models"
)

// DumpTokens writes one token per line with its kind, decoded literal and
// position.
func DumpTokens(w io.Writer, tokens []lexer.Token) error {
	for _, tok := range tokens {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return errors.NewOutputError("failed to write tokens", err)
		}
	}
	return nil
}

// DumpAssignments writes one "path: target" line per assignment in source
// order. The root path is written as ".".
func DumpAssignments(w io.Writer, assignments []models.Assignment) error {
	for _, a := range assignments {
		if _, err := fmt.Fprintln(w, a); err != nil {
			return errors.NewOutputError("failed to write assignments", err)
		}
	}
	return nil
}
