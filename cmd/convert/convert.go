// Package convert handles the document conversion command
package convert

import (
	"fmt"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"

	"github.com/spf13/cobra"
)

// Options are the flags of the convert command.
type Options struct {
	From        string
	To          string
	Mapping     string
	SaveMapping string
}

// Flags holds the values bound to the command flags
var Flags = Options{}

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a document to another format",
	Long: `Convert a document between XML, JSON, YAML and CSV.

Formats are inferred from the file extensions unless --from and --to are given.
Without --mapping every discovered path is copied to the same path in the output.
The result is written to standard output when no output file is given.

Example:
  format-converter convert -i contact.xml -o contact.json
  format-converter convert -i users.csv --to yaml --mapping rules.yaml`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&Flags.From, "from", "", "Source format (xml, json, yaml, csv)")
	Cmd.Flags().StringVar(&Flags.To, "to", "", "Target format (xml, json, yaml, csv)")
	Cmd.Flags().StringVar(&Flags.Mapping, "mapping", "", "Mapping rules file (.yaml or .csv)")
	Cmd.Flags().StringVar(&Flags.SaveMapping, "save-mapping", "", "Write the mapping used for the conversion to this file (.yaml or .csv)")
}

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	if err := Run(cmd, root.GetContainer(), root.SharedFlags, Flags); err != nil {
		logger.Fatalf("Error converting document: %v", err)
	}
}

// Run converts shared.Input to shared.Output.
func Run(cmd *cobra.Command, c *container.Container, shared root.CommonFlags, opts Options) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	logger := c.GetLogger()

	source, target, err := common.ResolveFormats(shared.Input, shared.Output, opts.From, opts.To)
	if err != nil {
		return err
	}
	logger.Debug("Convert command called",
		logging.F(logging.FieldInputFile, shared.Input),
		logging.F(logging.FieldSourceFormat, source),
		logging.F(logging.FieldTargetFormat, target))

	s := c.NewSession(source, target)
	delimiter := s.Options().CSV.Delimiter

	if opts.Mapping != "" {
		rules, err := mapping.LoadFile(opts.Mapping, delimiter)
		if err != nil {
			return err
		}
		if err := s.LoadRules(rules); err != nil {
			return err
		}
		logger.Info("Loaded mapping", logging.F(logging.FieldFile, opts.Mapping), logging.F(logging.FieldRules, len(rules)))
	}

	if err := common.ProcessFileWithError(s, shared.Input, shared.Output, shared.Validate, cmd.InOrStdin(), cmd.OutOrStdout(), logger); err != nil {
		return err
	}

	if opts.SaveMapping != "" {
		if err := mapping.SaveFile(opts.SaveMapping, s.Mapping(), delimiter); err != nil {
			return err
		}
		logger.Info("Saved mapping", logging.F(logging.FieldFile, opts.SaveMapping))
	}
	return nil
}
