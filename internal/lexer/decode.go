package lexer

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mcncl/cuebasic/internal/errors"
)

// Literal grammars. Underscores are digit separators everywhere.
var (
	decimalPattern = regexp.MustCompile(`^-?(0|[1-9][0-9_]*)$`)
	siPattern      = regexp.MustCompile(`^(-?(?:[0-9][0-9_]*(?:\.[0-9][0-9_]*)?|\.[0-9][0-9_]*))([KMGTP]i?)$`)
	binaryPattern  = regexp.MustCompile(`^0b[01][01_]*$`)
	octalPattern   = regexp.MustCompile(`^0o[0-7][0-7_]*$`)
	hexPattern     = regexp.MustCompile(`^0[xX][0-9a-fA-F][0-9a-fA-F_]*$`)
	floatPattern   = regexp.MustCompile(`^-?(?:` +
		`[0-9][0-9_]*\.(?:[0-9][0-9_]*)?(?:[eE][+-]?[0-9][0-9_]*)?` +
		`|[0-9][0-9_]*[eE][+-]?[0-9][0-9_]*` +
		`|\.[0-9][0-9_]*(?:[eE][+-]?[0-9][0-9_]*)?` +
		`)$`)
)

var siScales = map[string]decimal.Decimal{
	"K":  decimal.New(1, 3),
	"M":  decimal.New(1, 6),
	"G":  decimal.New(1, 9),
	"T":  decimal.New(1, 12),
	"P":  decimal.New(1, 15),
	"Ki": binaryScale(10),
	"Mi": binaryScale(20),
	"Gi": binaryScale(30),
	"Ti": binaryScale(40),
	"Pi": binaryScale(50),
}

func binaryScale(shift uint) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), shift), 0)
}

func stripSeparators(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// DecodeNumber classifies a numeric literal and decodes it with the matching
// decoder. It returns TInt or TFloat; exactly one of the two results is set.
func DecodeNumber(s string) (TokenType, *big.Int, decimal.Decimal, error) {
	switch {
	case decimalPattern.MatchString(s):
		i, err := DecodeDecimal(s)
		return TInt, i, decimal.Decimal{}, err
	case binaryPattern.MatchString(s), octalPattern.MatchString(s), hexPattern.MatchString(s):
		i, err := DecodeRadix(s)
		return TInt, i, decimal.Decimal{}, err
	case siPattern.MatchString(s):
		i, err := DecodeSI(s)
		return TInt, i, decimal.Decimal{}, err
	case floatPattern.MatchString(s):
		d, err := DecodeFloat(s)
		return TFloat, nil, d, err
	}
	return TInt, nil, decimal.Decimal{}, errors.ErrInvalidNumber
}

// DecodeDecimal decodes -?(0|[1-9][0-9_]*).
func DecodeDecimal(s string) (*big.Int, error) {
	if !decimalPattern.MatchString(s) {
		return nil, errors.ErrInvalidNumber
	}
	i, ok := new(big.Int).SetString(stripSeparators(s), 10)
	if !ok {
		return nil, errors.ErrInvalidNumber
	}
	return i, nil
}

// DecodeSI decodes a decimal mantissa followed by K/M/G/T/P (powers of
// 1000) or Ki/Mi/Gi/Ti/Pi (powers of 1024). The product must be integral.
func DecodeSI(s string) (*big.Int, error) {
	m := siPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.ErrInvalidNumber
	}
	mantissa, err := decimal.NewFromString(stripSeparators(m[1]))
	if err != nil {
		return nil, errors.ErrInvalidNumber
	}
	product := mantissa.Mul(siScales[m[2]])
	if !product.IsInteger() {
		return nil, errors.ErrNonIntegral
	}
	return product.BigInt(), nil
}

// DecodeRadix decodes 0b, 0o and 0x/0X prefixed literals as unsigned
// magnitudes.
func DecodeRadix(s string) (*big.Int, error) {
	var base int
	switch {
	case binaryPattern.MatchString(s):
		base = 2
	case octalPattern.MatchString(s):
		base = 8
	case hexPattern.MatchString(s):
		base = 16
	default:
		return nil, errors.ErrInvalidNumber
	}
	i, ok := new(big.Int).SetString(stripSeparators(s[2:]), base)
	if !ok {
		return nil, errors.ErrInvalidNumber
	}
	return i, nil
}

// DecodeFloat decodes a literal with a fractional part and/or an exponent.
// The result keeps the literal's scale.
func DecodeFloat(s string) (decimal.Decimal, error) {
	if !floatPattern.MatchString(s) {
		return decimal.Decimal{}, errors.ErrInvalidNumber
	}
	d, err := decimal.NewFromString(stripSeparators(s))
	if err != nil {
		return decimal.Decimal{}, errors.ErrInvalidNumber
	}
	return d, nil
}

// DecodeString returns the text between the quotes of a quoted literal.
// Escape sequences are kept verbatim.
func DecodeString(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	return raw[1 : len(raw)-1]
}
