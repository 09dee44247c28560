package batch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/format-converter/cmd/batch"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/config"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(cfg *config.Config) *container.Container {
	return container.NewContainerWith(cfg, logging.NewMockLogger(), store.NewMockTemplateStore())
}

func newCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return cmd, &stdout
}

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "Batch process")
	assert.NotNil(t, batch.Cmd.Run)
	for _, name := range []string{"from", "to", "mapping"} {
		assert.NotNil(t, batch.Cmd.Flags().Lookup(name), name)
	}
}

func TestBatchCommand_LongDescription(t *testing.T) {
	assert.Contains(t, batch.Cmd.Long, "Batch process files")
	assert.Contains(t, batch.Cmd.Long, "input directory")
	assert.Contains(t, batch.Cmd.Long, "Example")
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.yaml"), []byte("name: Jan\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.yml"), []byte("name: Anna\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "rules.csv"), []byte("source,target,enabled\nname,who,true\n"), 0600))

	cfg := &config.Config{}
	cfg.Batch.Workers = 2
	cfg.CSV.Delimiter = ","

	cmd, stdout := newCommand()
	err := batch.Run(context.Background(), cmd, newContainer(cfg),
		root.CommonFlags{Input: in, Output: out},
		batch.Options{From: "yaml", To: "json", Mapping: filepath.Join(in, "rules.csv")})
	require.NoError(t, err)
	assert.Equal(t, "Converted 2 of 2 files\n  "+out+": 2\n", stdout.String())

	data, err := os.ReadFile(filepath.Join(out, "b.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"who":"Anna"}`, string(data))
}

func TestRun_ReportsFailures(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "ok.json"), []byte(`{"a":1}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.json"), []byte(`{"a":`), 0600))

	cmd, stdout := newCommand()
	err := batch.Run(context.Background(), cmd, newContainer(nil),
		root.CommonFlags{Input: in}, batch.Options{From: "json", To: "yaml"})

	assert.EqualError(t, err, "1 of 2 files failed")
	assert.Contains(t, stdout.String(), "Converted 1 of 2 files")
	assert.Contains(t, stdout.String(), "broken.json")
	assert.FileExists(t, filepath.Join(in, "ok.yaml"))
}

func TestRun_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		shared root.CommonFlags
		opts   batch.Options
		err    string
	}{
		{name: "no input", opts: batch.Options{From: "json", To: "xml"}, err: "input directory"},
		{name: "no formats", shared: root.CommonFlags{Input: "."}, err: "--from and --to"},
		{name: "unknown format", shared: root.CommonFlags{Input: "."}, opts: batch.Options{From: "json", To: "toml"}, err: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := newCommand()
			err := batch.Run(context.Background(), cmd, newContainer(nil), tt.shared, tt.opts)
			assert.ErrorContains(t, err, tt.err)
		})
	}

	cmd, _ := newCommand()
	assert.ErrorContains(t, batch.Run(context.Background(), cmd, nil, root.CommonFlags{}, batch.Options{}), "container not initialized")
}
