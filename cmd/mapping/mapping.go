// Package mapping handles the command that writes the default mapping table
package mapping

import (
	"fmt"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	rules "fjacquet/format-converter/internal/mapping"

	"github.com/spf13/cobra"
)

// From is the source format flag
var From string

// Cmd represents the mapping command
var Cmd = &cobra.Command{
	Use:   "mapping",
	Short: "Write the default mapping table of a document",
	Long: `Write one enabled rule per discovered path, with the target equal to the source.
The file can be edited and passed back to convert with --mapping.
Rules are written as YAML unless the output file ends in .csv.

Example:
  format-converter mapping -i invoice.json -o rules.yaml`,
	Run: mappingFunc,
}

func init() {
	Cmd.Flags().StringVar(&From, "from", "", "Source format (xml, json, yaml, csv)")
}

func mappingFunc(cmd *cobra.Command, args []string) {
	if err := Run(cmd, root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, From); err != nil {
		root.GetLogrusAdapter().Fatalf("Error building mapping: %v", err)
	}
}

// Run writes the identity rule table of input to output, or to stdout.
func Run(cmd *cobra.Command, c *container.Container, input, output, from string) error {
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

	s := c.NewSession(source, source)
	found, err := s.Discover(text)
	if err != nil {
		return err
	}
	table := rules.Build(found)

	if output == "" || output == common.StdStream {
		return rules.WriteYAML(cmd.OutOrStdout(), table)
	}
	if err := rules.SaveFile(output, table, s.Options().CSV.Delimiter); err != nil {
		return err
	}
	c.GetLogger().Info("Mapping written",
		logging.F(logging.FieldOutputFile, output),
		logging.F(logging.FieldRules, len(table)))
	return nil
}
