// Package formatter pretty-prints a document in its own format.
package formatter

import (
	"strings"

	"fjacquet/format-converter/internal/codec"

	"github.com/go-xmlfmt/xmlfmt"
)

// Format returns text re-indented for format f. The input is parsed first so
// that malformed documents are reported with the codec's ParseError.
//
// XML keeps its declaration, comments and element layout and is only
// re-indented. JSON and YAML are rewritten from their tree, which keeps key
// order. CSV is validated and written back with normalized line endings.
func Format(r *codec.Registry, text string, f codec.Format, opts codec.Options) (string, error) {
	n, err := r.Parse(text, f, opts)
	if err != nil {
		return "", err
	}

	switch f {
	case codec.XML:
		out := xmlfmt.FormatXML(text, "", "  ")
		out = strings.ReplaceAll(out, "\r\n", "\n")
		return strings.TrimSpace(out), nil
	case codec.CSV:
		out := strings.ReplaceAll(text, "\r\n", "\n")
		out = strings.TrimPrefix(out, "\ufeff")
		return strings.TrimRight(out, "\n"), nil
	default:
		return r.Serialize(n, f, opts)
	}
}
