package converter

import (
	"testing"

	"fjacquet/format-converter/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from     string
		to       string
		expected string
	}{
		{name: "csv to json", text: "id,name\n1,Jan", from: "csv", to: "json", expected: `[{"id":"1","name":"Jan"}]`},
		{name: "yaml to json", text: "a: 1\nb: [x, y]\n", from: "YML", to: "json", expected: `{"a":1,"b":["x","y"]}`},
		{name: "xml to json", text: `<r><a>1</a><a>2</a></r>`, from: "xml", to: "json", expected: `{"a":["1","2"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert(tt.text, tt.from, tt.to)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, out)
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("toml", "json")
	assert.ErrorContains(t, err, "source format")

	_, err = New("json", "ini")
	assert.ErrorContains(t, err, "target format")
}

func TestConverter_KeepsMapping(t *testing.T) {
	c, err := New("json", "yaml", WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.Empty(t, c.Rules())

	_, err = c.Convert(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, []Rule{{Source: "a", Target: "a", Enabled: true}}, c.Rules())

	out, err := c.Convert(`{"a":2,"b":3}`)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", out)
}

func TestConverter_WithRules(t *testing.T) {
	rules := []Rule{{Source: "name", Target: "person.label", Enabled: true}}
	c, err := New("json", "json", WithRules(rules), WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	out, err := c.Convert(`{"name":"Jan","age":40}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"person":{"label":"Jan"}}`, out)
}

func TestConverter_WithOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.CSV.Delimiter = ';'
	c, err := New("csv", "json", WithOptions(opts), WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	out, err := c.Convert("a;b\n1;2")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"1","b":"2"}]`, out)
}

func TestConverter_Paths(t *testing.T) {
	c, err := New("json", "xml", WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	paths, err := c.Paths(`{"user":{"tags":["a"]}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "user.tags[*]"}, paths)
}
