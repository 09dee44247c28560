package paths_test

import (
	"bytes"
	"strings"
	"testing"

	"fjacquet/format-converter/cmd/paths"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/session"
	"fjacquet/format-converter/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin, from string) (string, error) {
	t.Helper()
	c := container.NewContainerWith(nil, logging.NewMockLogger(), store.NewMockTemplateStore())
	cmd := &cobra.Command{}
	var stdout bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	err := paths.Run(cmd, c, "-", from)
	return stdout.String(), err
}

func TestPathsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "paths", paths.Cmd.Use)
	assert.NotNil(t, paths.Cmd.Flags().Lookup("from"))
	assert.NotNil(t, paths.Cmd.Run)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		from     string
		expected string
	}{
		{
			name:     "json nested",
			input:    `{"a":{"b":1},"c":[{"d":2}]}`,
			from:     "json",
			expected: "a\na.b\nc[*]\nc[*].d\n",
		},
		{
			name:     "csv rows",
			input:    "id,name\n1,Jan\n",
			from:     "csv",
			expected: "[*]\n[*].id\n[*].name\n",
		},
		{
			name:     "xml attributes are not listed",
			input:    `<r><p currency="CHF">1</p></r>`,
			from:     "xml",
			expected: "p\np.#text\n",
		},
		{
			name:     "scalar has no paths",
			input:    `42`,
			from:     "json",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	_, err := run(t, `{}`, "")
	assert.ErrorContains(t, err, "source format")

	_, err = run(t, "  ", "json")
	assert.ErrorIs(t, err, session.ErrEmptySource)

	cmd := &cobra.Command{}
	assert.ErrorContains(t, paths.Run(cmd, nil, "-", "json"), "container not initialized")
}
