// Package paths handles the path discovery command
package paths

import (
	"fmt"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"

	"github.com/spf13/cobra"
)

// From is the source format flag
var From string

// Cmd represents the paths command
var Cmd = &cobra.Command{
	Use:   "paths",
	Short: "List the paths found in a document",
	Long: `List every path found in a document, one per line, in discovery order.
Sequences are shown with the [*] wildcard and only their first item is walked.

Example:
  format-converter paths -i invoice.json`,
	Run: pathsFunc,
}

func init() {
	Cmd.Flags().StringVar(&From, "from", "", "Source format (xml, json, yaml, csv)")
}

func pathsFunc(cmd *cobra.Command, args []string) {
	if err := Run(cmd, root.GetContainer(), root.SharedFlags.Input, From); err != nil {
		root.GetLogrusAdapter().Fatalf("Error discovering paths: %v", err)
	}
}

// Run prints the paths of input.
func Run(cmd *cobra.Command, c *container.Container, input, from string) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	source, err := common.ResolveSource(input, from)
	if err != nil {
		return err
	}
	text, err := common.ReadInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	// The target format plays no part in discovery.
	found, err := c.NewSession(source, source).Discover(text)
	if err != nil {
		return err
	}
	c.GetLogger().Debug("Discovered paths", logging.F(logging.FieldPaths, len(found)))
	return common.WriteLines(cmd.OutOrStdout(), found)
}
