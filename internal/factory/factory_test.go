package factory_test

import (
	"errors"
	"testing"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/factory"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCodec(t *testing.T) {
	tests := []struct {
		name        string
		format      codec.Format
		contentType string
		expectError bool
	}{
		{name: "XML codec", format: codec.XML, contentType: "application/xml"},
		{name: "JSON codec", format: codec.JSON, contentType: "application/json"},
		{name: "YAML codec", format: codec.YAML, contentType: "application/yaml"},
		{name: "CSV codec", format: codec.CSV, contentType: "text/csv"},
		{name: "Unknown format", format: "toml", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewMockLogger()
			c, err := factory.GetCodec(tt.format, logger)

			if tt.expectError {
				assert.Nil(t, c)
				var unsupported *parsererror.UnsupportedFormatError
				require.True(t, errors.As(err, &unsupported))
				assert.Equal(t, "toml", unsupported.Format)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, c.Format())
			assert.Equal(t, tt.contentType, c.ContentType())
		})
	}
}

func TestNewRegistry(t *testing.T) {
	r := factory.NewRegistry(logging.NewMockLogger())
	assert.ElementsMatch(t, codec.Formats, r.Formats())

	n, err := r.Parse(`{"a":[1,2]}`, codec.JSON, codec.DefaultOptions())
	require.NoError(t, err)

	out, err := r.Serialize(n, codec.YAML, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "a:\n  - 1\n  - 2\n", out)
}
