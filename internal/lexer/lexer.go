// Package lexer turns source text into a stream of typed tokens and owns
// every literal decode: decimal, SI-suffixed, radix-prefixed and
// arbitrary-precision float numbers, quoted strings and identifiers.
package lexer

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/cuebasic/internal/errors"
)

// Lexer scans one source document. The zero value is not usable; call New.
type Lexer struct {
	src       string
	off       int
	line      int
	lineStart int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize lexes the whole of src. The trailing EOF token is not included.
// The first failing literal aborts the pass.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	for tok, err := range New(src).All() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// All yields every token up to, but not including, EOF. Iteration stops
// after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if tok.Type == TEOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token, or a TEOF token once the input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipBlanks()
	start := l.pos()
	if l.off >= len(l.src) {
		return Token{Type: TEOF, Pos: start}, nil
	}

	c := l.src[l.off]
	switch {
	case c == '\n' || c == '\r':
		return l.emit(TNewline, start, l.off+l.newlineRun(l.off)), nil
	case c == '/' && l.peek(1) == '/':
		end := strings.IndexAny(l.src[l.off:], "\r\n")
		if end < 0 {
			end = len(l.src) - l.off
		}
		end += l.off
		return l.emit(TNewline, start, end+l.newlineRun(end)), nil
	case c == '"' || c == '\'':
		return l.scanString(start, c)
	case isDigit(c),
		c == '.' && isDigit(l.peek(1)),
		c == '-' && (isDigit(l.peek(1)) || l.peek(1) == '.' && isDigit(l.peek(2))):
		return l.scanNumber(start)
	case c == '#', c == '_' && l.peek(1) == '#', isIdentStart(c):
		return l.scanIdent(start)
	}

	if t, ok := punctuation[c]; ok {
		return l.emit(t, start, l.off+1), nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return Token{}, errors.NewLexError(
		fmt.Sprintf("unexpected %q at %s", r, start),
		errors.ErrUnexpectedCharacter,
	)
}

var punctuation = map[byte]TokenType{
	':': TColon,
	'{': TLCurl,
	'}': TRCurl,
	'[': TLSquare,
	']': TRSquare,
	',': TComma,
	'.': TPeriod,
}

func (l *Lexer) scanString(start Pos, quote byte) (Token, error) {
	n := strings.IndexByte(l.src[l.off+1:], quote)
	if n < 0 {
		return Token{}, errors.NewLexError(
			fmt.Sprintf("string starting at %s is never closed", start),
			errors.ErrUnterminatedString,
		)
	}
	tok := l.emit(TString, start, l.off+n+2)
	tok.Str = DecodeString(tok.Text)
	return tok, nil
}

func (l *Lexer) scanNumber(start Pos) (Token, error) {
	i := l.off
	if l.src[i] == '-' {
		i++
	}
	rest := l.src[i:]
	hex := strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X")
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case isDigit(c), isLetter(c), c == '_', c == '.':
			i++
			continue
		case (c == '+' || c == '-') && !hex && (l.src[i-1] == 'e' || l.src[i-1] == 'E'):
			i++
			continue
		}
		break
	}

	text := l.src[l.off:i]
	typ, integer, float, err := DecodeNumber(text)
	if err != nil {
		return Token{}, errors.NewLexError(
			fmt.Sprintf("invalid literal %q at %s", text, start),
			err,
		)
	}
	tok := l.emit(typ, start, i)
	tok.Int = integer
	tok.Float = float
	return tok, nil
}

func (l *Lexer) scanIdent(start Pos) (Token, error) {
	i := l.off
	if l.src[i] == '_' && l.peek(1) == '#' {
		i += 2
	} else if l.src[i] == '#' {
		i++
	}
	if i >= len(l.src) || !isIdentStart(l.src[i]) {
		return Token{}, errors.NewLexError(
			fmt.Sprintf("invalid identifier %q at %s", l.src[l.off:i], start),
			errors.ErrUnexpectedCharacter,
		)
	}
	for i < len(l.src) && isIdentPart(l.src[i]) {
		i++
	}

	text := l.src[l.off:i]
	switch text {
	case "null":
		return l.emit(TNull, start, i), nil
	case "true", "false":
		tok := l.emit(TBool, start, i)
		tok.Bool = text == "true"
		return tok, nil
	}
	tok := l.emit(TIdent, start, i)
	tok.Str = text
	return tok, nil
}

// emit builds a token spanning [start.Offset, end) and advances past it.
func (l *Lexer) emit(t TokenType, start Pos, end int) Token {
	tok := Token{Type: t, Text: l.src[start.Offset:end], Pos: start}
	l.advance(end)
	return tok
}

func (l *Lexer) advance(end int) {
	for ; l.off < end; l.off++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.lineStart = l.off + 1
		}
	}
}

func (l *Lexer) skipBlanks() {
	for l.off < len(l.src) && (l.src[l.off] == ' ' || l.src[l.off] == '\t') {
		l.off++
	}
}

func (l *Lexer) newlineRun(from int) int {
	n := 0
	for from+n < len(l.src) && (l.src[from+n] == '\n' || l.src[from+n] == '\r') {
		n++
	}
	return n
}

func (l *Lexer) peek(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}
	return 0
}

func (l *Lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Col: l.off - l.lineStart + 1}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
