package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/cuebasic/internal/errors"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_Punctuation(t *testing.T) {
	tokens, err := Tokenize(`: { } [ ] , .`)
	require.NoError(t, err)
	assert.Equal(t, []TokenType{TColon, TLCurl, TRCurl, TLSquare, TRSquare, TComma, TPeriod}, types(tokens))
}

func TestTokenize_Statements(t *testing.T) {
	src := "name: \"cuebasic\"\n" +
		"size: 4Ki // bytes\n" +
		"ratio: 0.5\n" +
		"tags: ['a', 'b']\n"

	tokens, err := Tokenize(src)
	require.NoError(t, err)

	expected := []TokenType{
		TIdent, TColon, TString, TNewline,
		TIdent, TColon, TInt, TNewline,
		TIdent, TColon, TFloat, TNewline,
		TIdent, TColon, TLSquare, TString, TComma, TString, TRSquare, TNewline,
	}
	assert.Equal(t, expected, types(tokens))

	assert.Equal(t, "name", tokens[0].Str)
	assert.Equal(t, "cuebasic", tokens[2].Str)
	assert.Equal(t, `"cuebasic"`, tokens[2].Text)
	assert.Equal(t, "4096", tokens[6].Int.String())
	assert.Equal(t, "// bytes\n", tokens[7].Text)
	assert.Equal(t, "0.5", tokens[10].Float.String())
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := Tokenize("null true false nullable _#def #hidden $x")
	require.NoError(t, err)
	require.Len(t, tokens, 7)

	assert.Equal(t, TNull, tokens[0].Type)
	assert.Equal(t, TBool, tokens[1].Type)
	assert.True(t, tokens[1].Bool)
	assert.Equal(t, TBool, tokens[2].Type)
	assert.False(t, tokens[2].Bool)
	for i, name := range []string{"nullable", "_#def", "#hidden", "$x"} {
		assert.Equal(t, TIdent, tokens[3+i].Type)
		assert.Equal(t, name, tokens[3+i].Str)
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		typ      TokenType
		expected string
	}{
		{"0", TInt, "0"},
		{"-42", TInt, "-42"},
		{"1_000", TInt, "1000"},
		{"1Ki", TInt, "1024"},
		{"1.5K", TInt, "1500"},
		{"0xFF", TInt, "255"},
		{"0o17", TInt, "15"},
		{"0b11", TInt, "3"},
		{"1.25", TFloat, "1.25"},
		{"-1e-2", TFloat, "-0.01"},
		{"5.", TFloat, "5"},
		{".5", TFloat, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.typ, tokens[0].Type)
			if tt.typ == TInt {
				assert.Equal(t, tt.expected, tokens[0].Int.String())
			} else {
				assert.Equal(t, tt.expected, tokens[0].Float.String())
			}
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestTokenize_StringsAreVerbatim(t *testing.T) {
	tokens, err := Tokenize(`"a\b" 'say "hi"' "it's" "line
break"`)
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, `a\b`, tokens[0].Str)
	assert.Equal(t, `say "hi"`, tokens[1].Str)
	assert.Equal(t, "it's", tokens[2].Str)
	assert.Equal(t, "line\nbreak", tokens[3].Str)
}

func TestTokenize_CommentsFoldIntoNewlines(t *testing.T) {
	tokens, err := Tokenize("a: 1 // trailing\n// whole line\r\nb: 2 // at eof")
	require.NoError(t, err)

	expected := []TokenType{
		TIdent, TColon, TInt, TNewline,
		TNewline,
		TIdent, TColon, TInt, TNewline,
	}
	assert.Equal(t, expected, types(tokens))
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("a: 1\n  b: 'x'")
	require.NoError(t, err)
	require.Len(t, tokens, 7)

	assert.Equal(t, Pos{Offset: 0, Line: 1, Col: 1}, tokens[0].Pos)
	assert.Equal(t, Pos{Offset: 3, Line: 1, Col: 4}, tokens[2].Pos)
	assert.Equal(t, Pos{Offset: 7, Line: 2, Col: 3}, tokens[4].Pos)
	assert.Equal(t, Pos{Offset: 10, Line: 2, Col: 6}, tokens[6].Pos)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		err     error
		message string
	}{
		{"non-integral SI", "a: 1.1Ki", errors.ErrNonIntegral, `invalid literal "1.1Ki" at 1:4`},
		{"bad binary digit", "0b12", errors.ErrInvalidNumber, `invalid literal "0b12" at 1:1`},
		{"bad hex digit", "x: 0xZZ", errors.ErrInvalidNumber, `invalid literal "0xZZ" at 1:4`},
		{"leading zero", "01", errors.ErrInvalidNumber, `invalid literal "01" at 1:1`},
		{"unterminated string", "a: 'open", errors.ErrUnterminatedString, "string starting at 1:4 is never closed"},
		{"stray character", "a = 1", errors.ErrUnexpectedCharacter, `unexpected '=' at 1:3`},
		{"single slash", "a: /", errors.ErrUnexpectedCharacter, `unexpected '/' at 1:4`},
		{"bare hash", "#1", errors.ErrUnexpectedCharacter, `invalid identifier "#" at 1:1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeLex})

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestLexer_AllStopsAtFirstError(t *testing.T) {
	var seen []TokenType
	var failed error
	for tok, err := range New("a: 1 b: 0b9 c: 2").All() {
		if err != nil {
			failed = err
			continue
		}
		seen = append(seen, tok.Type)
	}

	assert.Equal(t, []TokenType{TIdent, TColon, TInt, TIdent, TColon}, seen)
	assert.ErrorIs(t, failed, errors.ErrInvalidNumber)
}

func TestLexer_NextReturnsEOF(t *testing.T) {
	l := New("  \t")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, TEOF, tok.Type)
	assert.Equal(t, "end of input", tok.Describe())
}

func TestToken_String(t *testing.T) {
	tokens, err := Tokenize(`x: 2Ki "s" 1.0 true`)
	require.NoError(t, err)

	assert.Equal(t, `Ident("x") @1:1`, tokens[0].String())
	assert.Equal(t, "Colon @1:2", tokens[1].String())
	assert.Equal(t, "Int(2048) @1:4", tokens[2].String())
	assert.Equal(t, `String("s") @1:8`, tokens[3].String())
	assert.Equal(t, "Float(1.0) @1:12", tokens[4].String())
	assert.Equal(t, "Bool(true) @1:16", tokens[5].String())
}
