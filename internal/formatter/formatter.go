// Package formatter renders merged values for output.
//
// The text format is the canonical single-line form. JSON and YAML are
// provided for tooling and keep integers and decimals exact; env flattens the
// tree into KEY=value lines.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/models"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatEnv  Format = "env"
)

// Formats lists every supported output encoding.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatEnv)}
}

// ParseFormat maps a case-insensitive name to a Format. An empty name is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatEnv:
		return f, nil
	}
	return "", errors.NewFormatError(
		fmt.Sprintf("%q is not one of %s", s, strings.Join(Formats(), ", ")),
		errors.ErrUnknownFormat,
	)
}

// DefaultIndent is the indentation width for JSON and YAML.
const DefaultIndent = 2

// Formatter renders values in one Format.
type Formatter struct {
	format    Format
	indent    int
	envPrefix string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndent sets the JSON and YAML indentation width. JSON is written on a
// single line when width is 0; YAML never indents by less than 2.
func WithIndent(width int) Option {
	return func(f *Formatter) {
		f.indent = max(width, 0)
	}
}

// WithEnvPrefix prepends prefix to every env key.
func WithEnvPrefix(prefix string) Option {
	return func(f *Formatter) {
		f.envPrefix = prefix
	}
}

// NewFormatter creates a Formatter for format.
func NewFormatter(format Format, opts ...Option) *Formatter {
	f := &Formatter{format: format, indent: DefaultIndent}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders v without a trailing newline.
func (f *Formatter) Format(v *models.Value) (string, error) {
	switch f.format {
	case FormatText, "":
		return v.String(), nil
	case FormatJSON:
		return f.renderJSON(v)
	case FormatYAML:
		return f.renderYAML(v)
	case FormatEnv:
		return f.renderEnv(v)
	}
	return "", errors.NewFormatError(fmt.Sprintf("cannot render %q", f.format), errors.ErrUnknownFormat)
}

// Write renders v to w followed by a newline.
func (f *Formatter) Write(w io.Writer, v *models.Value) error {
	out, err := f.Format(v)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

func (f *Formatter) renderJSON(v *models.Value) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", f.indent))
	}
	if err := enc.Encode(toJSON(v)); err != nil {
		return "", errors.NewFormatError("failed to encode JSON", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// toJSON converts v for encoding/json. Numbers pass through as json.Number so
// big integers and decimals are written exactly.
func toJSON(v *models.Value) any {
	switch v.Kind {
	case models.BoolKind:
		return v.Bool
	case models.IntKind:
		return json.Number(v.Int.String())
	case models.FloatKind:
		return json.Number(models.FormatFloat(v.Float))
	case models.StringKind:
		return v.Str
	case models.ArrayKind:
		out := make([]any, len(v.Array))
		for i, child := range v.Array {
			out[i] = toJSON(child)
		}
		return out
	case models.ObjectKind:
		out := make(map[string]any, len(v.Object))
		for k, child := range v.Object {
			out[k] = toJSON(child)
		}
		return out
	}
	return nil
}
