package lexer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/models"
)

func bigInt(t *testing.T, s string) *big.Int {
	t.Helper()
	i, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad test integer %q", s)
	return i
}

func TestDecodeDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"0", "0", false},
		{"42", "42", false},
		{"-17", "-17", false},
		{"1_000_000", "1000000", false},
		{"123456789012345678901234567890", "123456789012345678901234567890", false},
		{"007", "", true},
		{"12a", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeDecimal(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, bigInt(t, tt.expected).Cmp(got), "got %s", got)
		})
	}
}

func TestDecodeSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		err      error
	}{
		{"1K", "1000", nil},
		{"1Ki", "1024", nil},
		{"1.5K", "1500", nil},
		{"1.5Ki", "1536", nil},
		{"4Gi", "4294967296", nil},
		{"2P", "2000000000000000", nil},
		{"1Pi", "1125899906842624", nil},
		{".5M", "500000", nil},
		{"-3M", "-3000000", nil},
		{"1_0K", "10000", nil},
		{"1.1Ki", "", errors.ErrNonIntegral},
		{"1.0001K", "", errors.ErrNonIntegral},
		{"1X", "", errors.ErrInvalidNumber},
		{"K", "", errors.ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeSI(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestDecodeRadix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"0b1010", "10", false},
		{"0b1111_0000", "240", false},
		{"0o755", "493", false},
		{"0xff", "255", false},
		{"0XDEAD_BEEF", "3735928559", false},
		{"0xffffffffffffffffffff", "1208925819614629174706175", false},
		{"0b102", "", true},
		{"0o8", "", true},
		{"0xg", "", true},
		{"-0x1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeRadix(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestDecodeFloat(t *testing.T) {
	tests := []struct {
		input    string
		display  string
		exponent int32
		wantErr  bool
	}{
		{"3.14", "3.14", -2, false},
		{"5.", "5.0", 0, false},
		{"5e0", "5.0", 0, false},
		{"5.00", "5.0", -2, false},
		{".25", "0.25", -2, false},
		{"-1.5e3", "-1500.0", 2, false},
		{"1E+2", "100.0", 2, false},
		{"2.5e-3", "0.0025", -4, false},
		{"1_000.5", "1000.5", -1, false},
		{"1.2.3", "", 0, true},
		{"1e", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeFloat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.display, models.FormatFloat(got))
			assert.Equal(t, tt.exponent, got.Exponent())
		})
	}
}

func TestDecodeNumber_Classification(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"0", TInt},
		{"-12", TInt},
		{"2Mi", TInt},
		{"0x1E", TInt},
		{"0b1", TInt},
		{"1e5", TFloat},
		{"1.0", TFloat},
		{"-.5", TFloat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, _, _, err := DecodeNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, typ)
		})
	}
}

func TestDecodeString(t *testing.T) {
	assert.Equal(t, "hello", DecodeString(`"hello"`))
	assert.Equal(t, "it", DecodeString(`'it'`))
	assert.Equal(t, `a\nb`, DecodeString(`"a\nb"`))
	assert.Equal(t, "", DecodeString(`""`))
}
