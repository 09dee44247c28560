package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "message from the underlying parser",
			err: &ParseError{
				Format:  "xml",
				Message: "XML syntax error on line 1: unexpected EOF",
			},
			expected: "invalid xml: XML syntax error on line 1: unexpected EOF",
		},
		{
			name: "falls back to wrapped error",
			err: &ParseError{
				Format: "json",
				Err:    errors.New("unexpected end of JSON input"),
			},
			expected: "invalid json: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Format: "yaml", Message: "bad indent", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestUnsupportedFormatError(t *testing.T) {
	err := &UnsupportedFormatError{Format: "toml"}
	assert.Equal(t, `unsupported format: "toml" (expected xml, json, yaml or csv)`, err.Error())
}

func TestSerializeError(t *testing.T) {
	cause := errors.New("invalid element name")
	err := &SerializeError{Format: "xml", Err: cause}

	assert.Equal(t, "failed to serialize xml: invalid element name", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestUnsupportedPathError(t *testing.T) {
	err := &UnsupportedPathError{Path: "a..b", Reason: "empty key at offset 2"}
	assert.Equal(t, `unsupported path "a..b": empty key at offset 2`, err.Error())
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "not an ISO 20022 message",
			err:      &ValidationError{FilePath: "/path/to/file.xml", Reason: "no ISO 20022 message root found"},
			expected: "validation failed for /path/to/file.xml: no ISO 20022 message root found",
		},
		{
			name:     "empty file",
			err:      &ValidationError{FilePath: "empty.json", Reason: "file is empty"},
			expected: "validation failed for empty.json: file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestTemplateNotFoundError(t *testing.T) {
	err := &TemplateNotFoundError{ID: "missing"}
	assert.Equal(t, "template not found: missing", err.Error())
}

func TestErrorWrappingPatterns(t *testing.T) {
	t.Run("ParseError through fmt.Errorf", func(t *testing.T) {
		parseErr := &ParseError{Format: "csv", Message: "bare \" in non-quoted field"}
		wrapped := fmt.Errorf("convert failed: %w", parseErr)

		var target *ParseError
		assert.True(t, errors.As(wrapped, &target))
		assert.Equal(t, "csv", target.Format)
	})

	t.Run("UnsupportedPathError through fmt.Errorf", func(t *testing.T) {
		pathErr := &UnsupportedPathError{Path: "a[", Reason: "unterminated bracket"}
		wrapped := fmt.Errorf("rule 3: %w", pathErr)

		var target *UnsupportedPathError
		assert.True(t, errors.As(wrapped, &target))
		assert.Equal(t, "a[", target.Path)
	})
}
