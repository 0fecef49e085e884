package formatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/models"
)

func (f *Formatter) renderYAML(v *models.Value) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(max(f.indent, 2))
	if err := enc.Encode(toYAML(v)); err != nil {
		return "", errors.NewFormatError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewFormatError("failed to encode YAML", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// toYAML builds an explicitly tagged node tree. Tags keep "1.0" a float and
// force quoting of strings such as "true" that would otherwise resolve to
// another type.
func toYAML(v *models.Value) *yaml.Node {
	switch v.Kind {
	case models.BoolKind:
		text := "false"
		if v.Bool {
			text = "true"
		}
		return scalar("!!bool", text)
	case models.IntKind:
		return scalar("!!int", v.Int.String())
	case models.FloatKind:
		return scalar("!!float", models.FormatFloat(v.Float))
	case models.StringKind:
		return scalar("!!str", v.Str)
	case models.ArrayKind:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v.Array) == 0 {
			node.Style = yaml.FlowStyle
		}
		for _, child := range v.Array {
			node.Content = append(node.Content, toYAML(child))
		}
		return node
	case models.ObjectKind:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if len(v.Object) == 0 {
			node.Style = yaml.FlowStyle
		}
		for _, k := range v.Keys() {
			node.Content = append(node.Content, scalar("!!str", k), toYAML(v.Object[k]))
		}
		return node
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
