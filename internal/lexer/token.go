package lexer

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mcncl/cuebasic/internal/models"
)

// TokenType identifies the kind of a Token.
type TokenType int

const (
	TColon TokenType = iota
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TComma
	TPeriod
	TNull
	TBool
	TInt
	TFloat
	TString
	TIdent
	// TNewline covers line breaks and "//" comments alike.
	TNewline
	TEOF
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TColon:   "Colon",
		TLCurl:   "OpenBrace",
		TRCurl:   "CloseBrace",
		TLSquare: "OpenBracket",
		TRSquare: "CloseBracket",
		TComma:   "Comma",
		TPeriod:  "Period",
		TNull:    "Null",
		TBool:    "Bool",
		TInt:     "Int",
		TFloat:   "Float",
		TString:  "String",
		TIdent:   "Ident",
		TNewline: "Newline",
		TEOF:     "EOF",
	}[t]
}

// Pos is a source position. Line and Col are 1-based; Col counts bytes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is one lexeme. Text is the exact source slice; the decoded literal
// lives in the field matching Type (Str holds both string contents and
// identifier names).
type Token struct {
	Type  TokenType
	Text  string
	Pos   Pos
	Bool  bool
	Int   *big.Int
	Float decimal.Decimal
	Str   string
}

// IsValue reports whether the token can stand as a key or a value.
func (t Token) IsValue() bool {
	switch t.Type {
	case TNull, TBool, TInt, TFloat, TString, TIdent:
		return true
	}
	return false
}

// Value converts a literal token into a scalar. Identifiers have no scalar
// form and report false.
func (t Token) Value() (*models.Value, bool) {
	switch t.Type {
	case TNull:
		return models.Null(), true
	case TBool:
		return models.FromBool(t.Bool), true
	case TInt:
		return models.FromInt(t.Int), true
	case TFloat:
		return models.FromFloat(t.Float), true
	case TString:
		return models.FromString(t.Str), true
	}
	return nil, false
}

func (t Token) String() string {
	switch t.Type {
	case TBool:
		return fmt.Sprintf("%s(%t) @%s", t.Type, t.Bool, t.Pos)
	case TInt:
		return fmt.Sprintf("%s(%s) @%s", t.Type, t.Int, t.Pos)
	case TFloat:
		return fmt.Sprintf("%s(%s) @%s", t.Type, models.FormatFloat(t.Float), t.Pos)
	case TString, TIdent:
		return fmt.Sprintf("%s(%q) @%s", t.Type, t.Str, t.Pos)
	}
	return fmt.Sprintf("%s @%s", t.Type, t.Pos)
}

// Describe names the token for error messages.
func (t Token) Describe() string {
	switch t.Type {
	case TEOF:
		return "end of input"
	case TNewline:
		return "newline"
	}
	return fmt.Sprintf("%q", t.Text)
}
