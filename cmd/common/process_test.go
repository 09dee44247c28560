package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockConverter implements common.Converter for testing
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Validate(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *MockConverter) Convert(text string) (string, error) {
	args := m.Called(text)
	return args.String(0), args.Error(1)
}

var _ common.Converter = (*MockConverter)(nil)

func TestResolveFormats(t *testing.T) {
	tests := []struct {
		name           string
		input, output  string
		from, to       string
		expectedSource codec.Format
		expectedTarget codec.Format
		expectError    string
	}{
		{name: "from extensions", input: "in.xml", output: "out.yml", expectedSource: codec.XML, expectedTarget: codec.YAML},
		{name: "flags win", input: "data.txt", output: "out.json", from: "CSV", to: "xml", expectedSource: codec.CSV, expectedTarget: codec.XML},
		{name: "stdin needs from", input: "", output: "out.json", expectError: "source format"},
		{name: "stdout needs to", input: "in.json", output: "-", expectError: "target format"},
		{name: "unknown extension", input: "in.toml", output: "out.json", expectError: "unsupported format"},
		{name: "unknown flag", input: "in.json", output: "", to: "pdf", expectError: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target, err := common.ResolveFormats(tt.input, tt.output, tt.from, tt.to)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSource, source)
			assert.Equal(t, tt.expectedTarget, target)
		})
	}
}

func TestReadInput(t *testing.T) {
	text, err := common.ReadInput("-", strings.NewReader("\ufeff{\"a\":1}"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	file := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(file, []byte(`[1]`), 0600))
	text, err = common.ReadInput(file, nil)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, text)

	_, err = common.ReadInput(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, common.WriteOutput("", "a: 1\n", &stdout))
	require.NoError(t, common.WriteOutput("-", `{"a":1}`, &stdout))
	assert.Equal(t, "a: 1\n{\"a\":1}\n", stdout.String())

	file := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, common.WriteOutput(file, `{}`, nil))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestProcessFileWithError_Success(t *testing.T) {
	conv := new(MockConverter)
	conv.On("Validate", "id\n1").Return(nil)
	conv.On("Convert", "id\n1").Return(`[{"id":"1"}]`, nil)

	logger := logging.NewMockLogger()
	var stdout bytes.Buffer
	err := common.ProcessFileWithError(conv, "-", "", true, strings.NewReader("id\n1"), &stdout, logger)

	require.NoError(t, err)
	assert.Equal(t, "[{\"id\":\"1\"}]\n", stdout.String())
	assert.True(t, logger.HasEntry("INFO", "Validation successful."))
	assert.True(t, logger.HasEntry("INFO", "Conversion completed successfully!"))
	conv.AssertExpectations(t)
}

func TestProcessFileWithError_SkipsValidation(t *testing.T) {
	conv := new(MockConverter)
	conv.On("Convert", "x").Return("y", nil)

	err := common.ProcessFileWithError(conv, "-", "-", false, strings.NewReader("x"), &bytes.Buffer{}, logging.NewMockLogger())

	require.NoError(t, err)
	conv.AssertNotCalled(t, "Validate", mock.Anything)
}

func TestProcessFileWithError_ValidationError(t *testing.T) {
	conv := new(MockConverter)
	conv.On("Validate", "bad").Return(&parsererror.ParseError{Format: "json", Message: "unexpected end of input"})

	err := common.ProcessFileWithError(conv, "-", "", true, strings.NewReader("bad"), &bytes.Buffer{}, logging.NewMockLogger())

	var validationErr *parsererror.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "<stdio>", validationErr.FilePath)
	assert.Contains(t, validationErr.Reason, "unexpected end of input")
	conv.AssertNotCalled(t, "Convert", mock.Anything)
}

func TestProcessFileWithError_ConvertError(t *testing.T) {
	conv := new(MockConverter)
	cause := &parsererror.SerializeError{Format: "xml", Err: errors.New("invalid element name")}
	conv.On("Convert", "x").Return("", cause)

	var stdout bytes.Buffer
	err := common.ProcessFileWithError(conv, "-", "", false, strings.NewReader("x"), &stdout, logging.NewMockLogger())

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "error converting <stdio>")
	assert.Empty(t, stdout.String())
}
