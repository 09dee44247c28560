// Package format handles the pretty-print command
package format

import (
	"fmt"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/formatter"

	"github.com/spf13/cobra"
)

// From is the source format flag
var From string

// Cmd represents the format command
var Cmd = &cobra.Command{
	Use:   "format",
	Short: "Pretty-print a document in its own format",
	Long: `Pretty-print a document without converting it. XML is re-indented as it is,
JSON and YAML are rewritten with two-space indentation and CSV line endings are normalized.

Example:
  format-converter format -i compact.json -o pretty.json`,
	Run: formatFunc,
}

func init() {
	Cmd.Flags().StringVar(&From, "from", "", "Document format (xml, json, yaml, csv)")
}

func formatFunc(cmd *cobra.Command, args []string) {
	if err := Run(cmd, root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, From); err != nil {
		root.GetLogrusAdapter().Fatalf("Error formatting document: %v", err)
	}
}

// Run pretty-prints input to output, or to stdout.
func Run(cmd *cobra.Command, c *container.Container, input, output, from string) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	f, err := common.ResolveSource(input, from)
	if err != nil {
		return err
	}
	text, err := common.ReadInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := formatter.Format(c.GetRegistry(), text, f, c.Options())
	if err != nil {
		return err
	}
	return common.WriteOutput(output, out, cmd.OutOrStdout())
}
