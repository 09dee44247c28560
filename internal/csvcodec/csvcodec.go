// Package csvcodec reads and writes delimited text. Rows become a sequence
// of mappings when the first row holds column names, or a sequence of
// sequences otherwise.
package csvcodec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"

	"github.com/gocarina/gocsv"
)

// Codec is the CSV codec.
type Codec struct {
	codec.BaseCodec
}

// New returns a CSV codec.
func New(logger logging.Logger) *Codec {
	return &Codec{BaseCodec: codec.NewBaseCodec(logger)}
}

// Format returns codec.CSV.
func (c *Codec) Format() codec.Format { return codec.CSV }

// ContentType returns the CSV MIME type.
func (c *Codec) ContentType() string { return "text/csv" }

// Parse reads every non-empty line of text. All cells are strings.
//
// With headers, a row shorter than the header gets empty strings for the
// missing columns, and cells beyond the header are keyed "_<column>".
// Repeated column names get a numeric suffix: name, name_1, name_2.
func (c *Codec) Parse(text string, opts codec.Options) (tree.Node, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	records, err := newReader(text, delimiter(opts)).ReadAll()
	if err != nil {
		return nil, &parsererror.ParseError{Format: string(codec.CSV), Message: err.Error(), Err: err}
	}

	rows := tree.NewSequence()
	if !opts.CSV.IncludeHeaders {
		for _, record := range records {
			row := tree.NewSequence()
			for _, cell := range record {
				row.Append(tree.NewString(cell))
			}
			rows.Append(row)
		}
		return rows, nil
	}

	if len(records) == 0 {
		return rows, nil
	}
	headers := uniqueHeaders(records[0])
	for _, record := range records[1:] {
		row := tree.NewMapping()
		for i, h := range headers {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row.Set(h, tree.NewString(value))
		}
		for i := len(headers); i < len(record); i++ {
			row.Set("_"+strconv.Itoa(i+1), tree.NewString(record[i]))
		}
		rows.Append(row)
	}

	c.GetLogger().Debug("Parsed CSV document",
		logging.F(logging.FieldCount, rows.Len()),
		logging.F(logging.FieldDelimiter, string(delimiter(opts))))
	return rows, nil
}

// Serialize writes n as delimited text without a trailing newline.
//
// A mapping is written as a single row. When the first row is a mapping,
// the header is the union of the keys of all rows in first-seen order and
// rows that are not mappings are written empty. When the first row is a
// sequence, rows are written as they are. Otherwise every row is written as
// a single cell. Nested containers inside a cell are written as compact
// JSON. Fields are quoted when they contain the delimiter, a quote, a line
// break or start with a space.
func (c *Codec) Serialize(n tree.Node, opts codec.Options) (string, error) {
	var items []tree.Node
	if s, ok := n.(*tree.Sequence); ok {
		items = s.Items
	} else {
		items = []tree.Node{n}
	}

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = delimiter(opts)
	writer := gocsv.NewSafeCSVWriter(csvWriter)

	var records [][]string
	if len(items) > 0 {
		switch items[0].(type) {
		case *tree.Mapping:
			records = mappingRecords(items, opts.CSV.IncludeHeaders)
		case *tree.Sequence:
			records = sequenceRecords(items)
		default:
			for _, item := range items {
				records = append(records, []string{cellText(item)})
			}
		}
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", &parsererror.SerializeError{Format: string(codec.CSV), Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.CSV), Err: err}
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func mappingRecords(items []tree.Node, includeHeaders bool) [][]string {
	var headers []string
	seen := make(map[string]bool)
	for _, item := range items {
		m, ok := item.(*tree.Mapping)
		if !ok {
			continue
		}
		for _, k := range m.Keys() {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	records := make([][]string, 0, len(items)+1)
	if includeHeaders {
		records = append(records, headers)
	}
	for _, item := range items {
		record := make([]string, len(headers))
		if m, ok := item.(*tree.Mapping); ok {
			for i, h := range headers {
				v, _ := m.Get(h)
				record[i] = cellText(v)
			}
		}
		records = append(records, record)
	}
	return records
}

func sequenceRecords(items []tree.Node) [][]string {
	records := make([][]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(*tree.Sequence)
		if !ok {
			records = append(records, []string{cellText(item)})
			continue
		}
		record := make([]string, len(s.Items))
		for i, cell := range s.Items {
			record[i] = cellText(cell)
		}
		records = append(records, record)
	}
	return records
}

func cellText(n tree.Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case tree.Scalar:
		return v.Text()
	default:
		return tree.CompactJSON(n)
	}
}

func uniqueHeaders(record []string) []string {
	headers := make([]string, len(record))
	counts := make(map[string]int, len(record))
	for i, h := range record {
		name := h
		for counts[name] > 0 {
			name = h + "_" + strconv.Itoa(counts[h])
			counts[h]++
		}
		counts[name]++
		headers[i] = name
	}
	return headers
}

func newReader(text string, comma rune) gocsv.CSVReader {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	return reader
}

func delimiter(opts codec.Options) rune {
	if opts.CSV.Delimiter == 0 {
		return ','
	}
	return opts.CSV.Delimiter
}

// ErrInvalidDelimiter is returned by ValidateDelimiter.
var ErrInvalidDelimiter = errors.New("delimiter must be a single character other than a quote, carriage return or line feed")

// ValidateDelimiter checks that d can separate CSV fields.
func ValidateDelimiter(d rune) error {
	if d == 0 || d == '"' || d == '\r' || d == '\n' || !utf8.ValidRune(d) || d == utf8.RuneError {
		return ErrInvalidDelimiter
	}
	return nil
}
