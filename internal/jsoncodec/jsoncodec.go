// Package jsoncodec reads and writes JSON documents, keeping object key
// order and number literals.
package jsoncodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"
)

// Codec is the JSON codec.
type Codec struct {
	codec.BaseCodec
}

// New returns a JSON codec.
func New(logger logging.Logger) *Codec {
	return &Codec{BaseCodec: codec.NewBaseCodec(logger)}
}

// Format returns codec.JSON.
func (c *Codec) Format() codec.Format { return codec.JSON }

// ContentType returns the JSON MIME type.
func (c *Codec) ContentType() string { return "application/json" }

// Parse reads a single JSON value. Trailing data after it is an error.
// Duplicate object keys keep their first position and their last value.
func (c *Codec) Parse(text string, _ codec.Options) (tree.Node, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	n, err := decodeValue(dec)
	if err != nil {
		return nil, parseError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
		}
		return nil, parseError(err)
	}

	c.GetLogger().Debug("Parsed JSON document", logging.F(logging.FieldFormat, codec.JSON))
	return n, nil
}

// Serialize renders n with two-space indentation and without HTML escaping.
func (c *Codec) Serialize(n tree.Node, _ codec.Options) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	var v interface{} = n
	if n == nil {
		v = tree.Null()
	}
	if err := enc.Encode(v); err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.JSON), Err: err}
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func decodeValue(dec *json.Decoder) (tree.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := tree.NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			s := tree.NewSequence()
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				s.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return tree.NewString(t), nil
	case json.Number:
		return tree.ParseNumber(t.String())
	case bool:
		return tree.NewBool(t), nil
	case nil:
		return tree.Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &parsererror.ParseError{Format: string(codec.JSON), Message: "unexpected end of JSON input", Err: err}
	}
	return &parsererror.ParseError{Format: string(codec.JSON), Message: err.Error(), Err: err}
}
