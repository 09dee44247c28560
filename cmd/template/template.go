// Package template handles the stored template commands
package template

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"
	"fjacquet/format-converter/internal/store"

	"github.com/spf13/cobra"
)

// SaveOptions are the flags of the save subcommand.
type SaveOptions struct {
	ID      string
	From    string
	To      string
	Mapping string
}

// SaveFlags holds the values bound to the save flags
var SaveFlags = SaveOptions{}

// Cmd represents the template command
var Cmd = &cobra.Command{
	Use:   "template",
	Short: "Manage conversion templates",
	Long: `Manage conversion templates. A template stores a source document with its source
and target formats and, optionally, the mapping rules to apply. Built-in templates are
always available and cannot be changed.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := List(cmd, root.GetContainer()); err != nil {
			root.GetLogrusAdapter().Fatalf("Error listing templates: %v", err)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Show(cmd, root.GetContainer(), args[0]); err != nil {
			root.GetLogrusAdapter().Fatalf("Error showing template: %v", err)
		}
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the input document as a template",
	Long: `Save the input document as a template. The id is derived from the name unless --id
is given. Formats are inferred from the input file extension and --to.

Example:
  format-converter template save "Monthly report" -i report.csv --to json --mapping rules.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Save(cmd, root.GetContainer(), args[0], root.SharedFlags.Input, SaveFlags); err != nil {
			root.GetLogrusAdapter().Fatalf("Error saving template: %v", err)
		}
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Convert a template's document, or the input, with its settings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Apply(cmd, root.GetContainer(), args[0], root.SharedFlags.Input, root.SharedFlags.Output); err != nil {
			root.GetLogrusAdapter().Fatalf("Error applying template: %v", err)
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Delete(cmd, root.GetContainer(), args[0]); err != nil {
			root.GetLogrusAdapter().Fatalf("Error deleting template: %v", err)
		}
	},
}

func init() {
	saveCmd.Flags().StringVar(&SaveFlags.ID, "id", "", "Template id (default derived from the name)")
	saveCmd.Flags().StringVar(&SaveFlags.From, "from", "", "Source format (xml, json, yaml, csv)")
	saveCmd.Flags().StringVar(&SaveFlags.To, "to", "", "Target format (xml, json, yaml, csv)")
	saveCmd.Flags().StringVar(&SaveFlags.Mapping, "mapping", "", "Mapping rules file to store with the template")

	Cmd.AddCommand(listCmd, showCmd, saveCmd, applyCmd, deleteCmd)
}

func templates(c *container.Container) (store.Templates, error) {
	if c == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return c.GetTemplates(), nil
}

// List prints one line per template.
func List(cmd *cobra.Command, c *container.Container) error {
	s, err := templates(c)
	if err != nil {
		return err
	}
	all, err := s.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONVERSION\tORIGIN")
	for _, t := range all {
		origin := "user"
		if t.BuiltIn {
			origin = "built-in"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s -> %s\t%s\n", t.ID, t.Name, t.SourceFormat, t.TargetFormat, origin)
	}
	return tw.Flush()
}

// Show prints a template with its document and rules.
func Show(cmd *cobra.Command, c *container.Container, id string) error {
	s, err := templates(c)
	if err != nil {
		return err
	}
	t, err := s.Load(id)
	if err != nil {
		return err
	}
	return printTemplate(cmd.OutOrStdout(), t)
}

func printTemplate(w io.Writer, t store.Template) error {
	fmt.Fprintf(w, "ID:         %s\n", t.ID)
	fmt.Fprintf(w, "Name:       %s\n", t.Name)
	fmt.Fprintf(w, "Conversion: %s -> %s\n", t.SourceFormat, t.TargetFormat)
	if len(t.Rules) > 0 {
		fmt.Fprintf(w, "Rules:\n")
		for _, r := range t.Rules {
			state := "on"
			if !r.Enabled {
				state = "off"
			}
			fmt.Fprintf(w, "  %s -> %s (%s)\n", r.Source, r.Target, state)
		}
	}
	fmt.Fprintf(w, "Document:\n")
	return common.WriteOutput("", t.SourceText, w)
}

// Save stores the input document as a template named name.
func Save(cmd *cobra.Command, c *container.Container, name, input string, opts SaveOptions) error {
	s, err := templates(c)
	if err != nil {
		return err
	}

	source, err := common.ResolveSource(input, opts.From)
	if err != nil {
		return err
	}
	if opts.To == "" {
		return fmt.Errorf("target format: use --to")
	}
	target, err := codec.ParseFormat(opts.To)
	if err != nil {
		return err
	}

	text, err := common.ReadInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if err := c.NewSession(source, target).Validate(text); err != nil {
		return err
	}

	t := store.Template{
		ID:           opts.ID,
		Name:         name,
		SourceFormat: source,
		TargetFormat: target,
		SourceText:   text,
	}
	if t.ID == "" {
		t.ID = store.Slugify(name)
	}
	if opts.Mapping != "" {
		rules, err := mapping.LoadFile(opts.Mapping, c.Options().CSV.Delimiter)
		if err != nil {
			return err
		}
		t.Rules = rules
	}

	if err := s.Save(t); err != nil {
		return err
	}
	c.GetLogger().Info("Template saved", logging.F(logging.FieldTemplate, t.ID))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s\n", t.ID)
	return err
}

// Apply converts the template's document, or input when given, with the
// template's formats and rules.
func Apply(cmd *cobra.Command, c *container.Container, id, input, output string) error {
	s, err := templates(c)
	if err != nil {
		return err
	}
	t, err := s.Load(id)
	if err != nil {
		return err
	}

	text := t.SourceText
	if input != "" {
		if text, err = common.ReadInput(input, cmd.InOrStdin()); err != nil {
			return err
		}
	}

	sess := c.NewSession(t.SourceFormat, t.TargetFormat)
	if len(t.Rules) > 0 {
		if err := sess.LoadRules(t.Rules); err != nil {
			return err
		}
	}
	out, err := sess.Convert(text)
	if err != nil {
		return err
	}
	c.GetLogger().Info("Template applied", logging.F(logging.FieldTemplate, t.ID))
	return common.WriteOutput(output, out, cmd.OutOrStdout())
}

// Delete removes a user template.
func Delete(cmd *cobra.Command, c *container.Container, id string) error {
	s, err := templates(c)
	if err != nil {
		return err
	}
	if err := s.Delete(id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", id)
	return err
}
