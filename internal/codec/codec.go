// Package codec defines the contract shared by the format codecs: turning
// text into a document tree and back.
package codec

import (
	"path/filepath"
	"strings"

	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"
)

// Format names a supported text format.
type Format string

const (
	XML  Format = "xml"
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{XML, JSON, YAML, CSV}

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return XML, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	default:
		return "", &parsererror.UnsupportedFormatError{Format: s}
	}
}

// DetectFormat infers the format from a file name's extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "xsd":
		return XML, nil
	case "":
		return "", &parsererror.UnsupportedFormatError{Format: filename}
	default:
		return ParseFormat(ext)
	}
}

// Extension returns the file extension used when writing the format.
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string { return string(f) }

// CSVOptions controls CSV reading and writing.
type CSVOptions struct {
	// Delimiter separates fields.
	Delimiter rune
	// IncludeHeaders treats the first row as column names when parsing and
	// writes a header row when serializing.
	IncludeHeaders bool
}

// XMLOptions controls XML writing, and root handling when reading.
type XMLOptions struct {
	// RootElement names the document element written around the tree.
	RootElement string
	// ItemElement names the elements written for the items of a root sequence.
	ItemElement string
	// UseAttributes writes @attributes entries as XML attributes. When false
	// they are dropped.
	UseAttributes bool
	// PreserveRoot keeps the document element as the single key of the
	// parsed tree.
	PreserveRoot bool
}

// Options carries the per-format options. Each codec reads its own part.
type Options struct {
	CSV CSVOptions
	XML XMLOptions
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		CSV: CSVOptions{
			Delimiter:      ',',
			IncludeHeaders: true,
		},
		XML: XMLOptions{
			RootElement:   "root",
			ItemElement:   "item",
			UseAttributes: true,
		},
	}
}

// Codec converts between text in one format and a document tree.
type Codec interface {
	// Format returns the format handled by the codec.
	Format() Format
	// ContentType returns the MIME type of the format.
	ContentType() string
	// Parse reads text into a tree. Malformed input yields a
	// *parsererror.ParseError and no tree.
	Parse(text string, opts Options) (tree.Node, error)
	// Serialize renders a tree as text. Failures yield a
	// *parsererror.SerializeError.
	Serialize(n tree.Node, opts Options) (string, error)
}
