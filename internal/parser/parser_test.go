package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/models"
)

// render turns assignments into "path: target" lines for readable diffs.
func render(assignments []models.Assignment) []string {
	out := make([]string, len(assignments))
	for i, a := range assignments {
		out[i] = a.String()
	}
	return out
}

func TestParseString_Assignments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "identifier key",
			input:    "a: 1",
			expected: []string{"a: 1"},
		},
		{
			name:     "quoted key addresses the same field",
			input:    `"a": 1`,
			expected: []string{"a: 1"},
		},
		{
			name:     "array elements get contiguous indices",
			input:    "a: [1, 2, 3]",
			expected: []string{"a.0: 1", "a.1: 2", "a.2: 3"},
		},
		{
			name:     "trailing comma in array",
			input:    "a: [1, 2,]",
			expected: []string{"a.0: 1", "a.1: 2"},
		},
		{
			name:     "empty object",
			input:    "a: {}",
			expected: []string{"a: {}"},
		},
		{
			name:     "empty array",
			input:    "a: []",
			expected: []string{"a: []"},
		},
		{
			name:     "empty document is an empty root object",
			input:    "",
			expected: []string{".: {}"},
		},
		{
			name:     "comments only",
			input:    "// nothing here\n",
			expected: []string{".: {}"},
		},
		{
			name:     "empty key on its own line",
			input:    "''\n:2\n",
			expected: []string{": 2"},
		},
		{
			name:     "empty key and empty value",
			input:    "'':''",
			expected: []string{`: ""`},
		},
		{
			name:     "value on the next line",
			input:    "a:\n1",
			expected: []string{"a: 1"},
		},
		{
			name:     "colon on the next line",
			input:    "a\n: 1",
			expected: []string{"a: 1"},
		},
		{
			name:     "chained keys across lines",
			input:    "a:\n  b: 1",
			expected: []string{"a.b: 1"},
		},
		{
			name:     "chained keys on one line",
			input:    "a: b: c: true",
			expected: []string{"a.b.c: true"},
		},
		{
			name:     "newline separated statements",
			input:    "a: 1\nb: 'two'\nc: null",
			expected: []string{"a: 1", `b: "two"`, "c: null"},
		},
		{
			name:     "comma separated statements",
			input:    "a: 1, b: 2.50",
			expected: []string{"a: 1", "b: 2.5"},
		},
		{
			name:  "object body on several lines",
			input: "server: {\n  host: 'localhost'\n  port: 8080 // http\n}\n",
			expected: []string{
				`server.host: "localhost"`,
				"server.port: 8080",
			},
		},
		{
			name:     "nested arrays",
			input:    "m: [[1], [2, 3]]",
			expected: []string{"m.0.0: 1", "m.1.0: 2", "m.1.1: 3"},
		},
		{
			name:     "empty containers inside an array",
			input:    "a: [[], {}]",
			expected: []string{"a.0: []", "a.1: {}"},
		},
		{
			name:     "objects inside an array",
			input:    "a: [{x: 1}, {x: 2, y: [true]}]",
			expected: []string{"a.0.x: 1", "a.1.x: 2", "a.1.y.0: true"},
		},
		{
			name:     "top-level braces",
			input:    `{"a": {"b": [null]}}`,
			expected: []string{"a.b.0: null"},
		},
		{
			name:     "empty objects separated by a comma",
			input:    "[{},{}]",
			expected: []string{"0: {}", "1: {}"},
		},
		{
			name:     "single element with trailing comma",
			input:    "a: [1,]",
			expected: []string{"a.0: 1"},
		},
		{
			name:     "elements on separate lines",
			input:    "a: [\n  1,\n  2,\n]",
			expected: []string{"a.0: 1", "a.1: 2"},
		},
		{
			name:     "root array",
			input:    "[1, 'x']",
			expected: []string{"0: 1", `1: "x"`},
		},
		{
			name:     "SI and radix literals",
			input:    "mem: 2Gi\nmask: 0xff",
			expected: []string{"mem: 2147483648", "mask: 255"},
		},
		{
			name:     "identifier value is a reference",
			input:    "a: b",
			expected: []string{"a: ref(b)"},
		},
		{
			name:     "quoted segments build a reference",
			input:    `a: "x".y`,
			expected: []string{"a: ref(x.y)"},
		},
		{
			name:     "all quoted reference",
			input:    `a: "x"."y"."z"`,
			expected: []string{"a: ref(x.y.z)"},
		},
		{
			name:     "duplicate declarations are all emitted",
			input:    "a: 1\na: 1",
			expected: []string{"a: 1", "a: 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, render(got))
		})
	}
}

func TestParseString_PathsAreIndependent(t *testing.T) {
	got, err := ParseString("a: [1, 2]")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Path{models.Key("a"), models.Index(0)}, got[0].Path)
	assert.Equal(t, models.Path{models.Key("a"), models.Index(1)}, got[1].Path)
}

func TestParseString_ScalarTargets(t *testing.T) {
	got, err := ParseString("f: 1.0\ni: 1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, models.TargetScalar, got[0].Target.Kind)
	assert.Equal(t, models.FloatKind, got[0].Target.Scalar.Kind)
	require.Equal(t, models.TargetScalar, got[1].Target.Kind)
	assert.Equal(t, models.IntKind, got[1].Target.Scalar.Kind)
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		err     error
		message string
	}{
		{
			name:    "two values without separator",
			input:   "a: 1 2",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "2" at 1:6: after "1" without a separator`,
		},
		{
			name:    "number as key",
			input:   "1: x",
			err:     errors.ErrUnexpectedToken,
			message: `"1" at 1:1 cannot be used as a key`,
		},
		{
			name:    "colon without key",
			input:   ": 1",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected ":" at 1:1: expected a key before ':'`,
		},
		{
			name:    "value before brace",
			input:   "a {}",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "{" at 1:3: expected ':' after "a"`,
		},
		{
			name:    "mismatched brackets",
			input:   "a: [1}",
			err:     errors.ErrUnbalanced,
			message: `"}" at 1:6 does not close "[" opened at 1:4`,
		},
		{
			name:    "unclosed bracket",
			input:   "a: [1",
			err:     errors.ErrUnbalanced,
			message: `"[" opened at 1:4 is never closed`,
		},
		{
			name:    "unopened bracket",
			input:   "a: 1}",
			err:     errors.ErrUnbalanced,
			message: `"}" at 1:5 has no matching opener`,
		},
		{
			name:    "dangling key at end of input",
			input:   "a:",
			err:     errors.ErrMissingValue,
			message: `key "a" has no value before end of input`,
		},
		{
			name:    "dangling key before comma",
			input:   "a: b:, c: 1",
			err:     errors.ErrMissingValue,
			message: `key "a.b" has no value before "," at 1:6`,
		},
		{
			name:    "period after identifier",
			input:   "a: b.c",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "." at 1:5: a reference segment must be a quoted string`,
		},
		{
			name:    "incomplete reference",
			input:   "a: 'x'.",
			err:     errors.ErrUnexpectedToken,
			message: "unexpected end of input: reference x is incomplete",
		},
		{
			name:    "reference used as key",
			input:   "'x'.y: 1",
			err:     errors.ErrUnexpectedToken,
			message: `reference ending in "y" at 1:5 cannot be used as a key`,
		},
		{
			name:    "reference ending in a literal",
			input:   "a: 'x'.true",
			err:     errors.ErrUnexpectedToken,
			message: `reference cannot end in "true" at 1:8`,
		},
		{
			name:    "consecutive commas in an array",
			input:   "a: [1,,2]",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "," at 1:7: expected a value before ','`,
		},
		{
			name:    "leading comma in an array",
			input:   "a: [,1]",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "," at 1:5: expected a value before ','`,
		},
		{
			name:    "comma alone on a line in an array",
			input:   "a: [1,\n,2]",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "," at 2:1: expected a value before ','`,
		},
		{
			name:    "empty slot between nested arrays",
			input:   "[[1],,[2]]",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "," at 1:6: expected a value before ','`,
		},
		{
			name:    "comma alone in an array",
			input:   "[,]",
			err:     errors.ErrUnexpectedToken,
			message: `unexpected "," at 1:2: expected a value before ','`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestParseString_LexErrorPassesThrough(t *testing.T) {
	_, err := ParseString("a: 1.1Ki")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNonIntegral)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeLex})
}

func TestParse_Reader(t *testing.T) {
	got, err := Parse(strings.NewReader("name: 'cuebasic'\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{`name: "cuebasic"`}, render(got))
}

func TestParseFile(t *testing.T) {
	t.Run("reads and parses", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.cue")
		require.NoError(t, os.WriteFile(path, []byte("a: [1]\n"), 0o644))

		got, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.0: 1"}, render(got))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.cue"))
		assert.ErrorIs(t, err, errors.ErrFileNotFound)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeInput})
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := ParseFile("  ")
		assert.ErrorIs(t, err, errors.ErrInvalidFilePath)
	})
}
