// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"

	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/batch"
	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"

	"github.com/spf13/cobra"
)

// Options are the flags of the batch command.
type Options struct {
	From    string
	To      string
	Mapping string
}

// Flags holds the values bound to the command flags
var Flags = Options{}

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process files from an input directory and write them to another directory.

Every file of the input directory whose extension matches --from is converted to --to.
Files are converted concurrently and independently: a file that fails is reported and
the others are still written. Without --mapping each file gets the mapping of its own
paths.

Example:
  format-converter batch -i exports/ -o converted/ --from xml --to json`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&Flags.From, "from", "", "Source format of the files to convert (required)")
	Cmd.Flags().StringVar(&Flags.To, "to", "", "Target format (required)")
	Cmd.Flags().StringVar(&Flags.Mapping, "mapping", "", "Mapping rules file applied to every file")
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	if err := Run(cmd.Context(), cmd, root.GetContainer(), root.SharedFlags, Flags); err != nil {
		logger.Fatalf("Error during batch conversion: %v", err)
	}
}

// Run converts the directory shared.Input into shared.Output and prints a
// summary. It fails when any file could not be converted.
func Run(ctx context.Context, cmd *cobra.Command, c *container.Container, shared root.CommonFlags, opts Options) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	if shared.Input == "" {
		return fmt.Errorf("input directory must be specified")
	}
	if opts.From == "" || opts.To == "" {
		return fmt.Errorf("both --from and --to must be specified")
	}
	source, err := codec.ParseFormat(opts.From)
	if err != nil {
		return err
	}
	target, err := codec.ParseFormat(opts.To)
	if err != nil {
		return err
	}

	req := batch.Request{
		InputDir:  shared.Input,
		OutputDir: shared.Output,
		Source:    source,
		Target:    target,
		Options:   c.Options(),
	}
	workers := 0
	if cfg := c.GetConfig(); cfg != nil {
		workers = cfg.Batch.Workers
		req.MaxFiles = cfg.Batch.MaxFiles
	}
	if opts.Mapping != "" {
		rules, err := mapping.LoadFile(opts.Mapping, req.Options.CSV.Delimiter)
		if err != nil {
			return err
		}
		req.Rules = rules
	}

	logger.Info("Batch command called",
		logging.F("input_dir", shared.Input),
		logging.F("output_dir", shared.Output),
		logging.F(logging.FieldSourceFormat, source),
		logging.F(logging.FieldTargetFormat, target))

	results, err := batch.NewProcessor(c.GetRegistry(), logger, workers).Run(ctx, req)
	if err != nil {
		return err
	}

	summary := batch.Summarize(results, logger)
	if _, err := fmt.Fprint(cmd.OutOrStdout(), summary.String()); err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d files failed", len(summary.Failed), summary.Total)
	}
	return nil
}
