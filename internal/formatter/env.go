package formatter

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/models"
)

// renderEnv writes one KEY=value line per leaf in path order. Keys are the
// path segments in SCREAMING_SNAKE case joined by "_", so server.httpPort
// becomes SERVER_HTTP_PORT. Empty containers are leaves written as {} or [].
func (f *Formatter) renderEnv(v *models.Value) (string, error) {
	if !v.IsContainer() {
		return "", errors.NewFormatError("env output needs an object or array at the root", nil)
	}

	var prefix []string
	if f.envPrefix != "" {
		prefix = append(prefix, strcase.ToScreamingSnake(f.envPrefix))
	}

	var lines []string
	walkLeaves(v, prefix, func(key []string, leaf *models.Value) {
		// an empty root has no key to name
		if len(key) == 0 {
			return
		}
		lines = append(lines, strings.Join(key, "_")+"="+envValue(leaf))
	})
	return strings.Join(lines, "\n"), nil
}

func walkLeaves(v *models.Value, key []string, visit func([]string, *models.Value)) {
	switch {
	case v.Kind == models.ObjectKind && len(v.Object) > 0:
		for _, k := range v.Keys() {
			walkLeaves(v.Object[k], append(key[:len(key):len(key)], strcase.ToScreamingSnake(k)), visit)
		}
	case v.Kind == models.ArrayKind && len(v.Array) > 0:
		for i, child := range v.Array {
			walkLeaves(child, append(key[:len(key):len(key)], strconv.Itoa(i)), visit)
		}
	default:
		visit(key, v)
	}
}

// envValue renders a leaf, quoting strings a shell would split or expand.
func envValue(v *models.Value) string {
	switch v.Kind {
	case models.NullKind:
		return ""
	case models.StringKind:
		if v.Str == "" || strings.ContainsAny(v.Str, " \t\r\n\"'$`\\#=") {
			return strconv.Quote(v.Str)
		}
		return v.Str
	}
	return v.String()
}
