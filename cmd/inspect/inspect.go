// Package inspect handles the ISO 20022 inspection command
package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/format-converter/cmd/common"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/xmlutils"

	"github.com/spf13/cobra"
	"gopkg.in/xmlpath.v2"
)

// XPath is the expression evaluated instead of message detection
var XPath string

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect",
	Short: "Identify an ISO 20022 XML message",
	Long: `Identify the ISO 20022 message type of an XML document (pacs, pain, camt) and print
its group header. With --xpath the expression is evaluated instead and every match is
printed on its own line. Namespaces are ignored when matching element names.

Example:
  format-converter inspect -i payment.xml
  format-converter inspect -i statement.xml --xpath /Document/BkToCstmrStmt/Stmt/Acct/Id/IBAN`,
	Run: inspectFunc,
}

func init() {
	Cmd.Flags().StringVar(&XPath, "xpath", "", "XPath expression to evaluate")
}

func inspectFunc(cmd *cobra.Command, args []string) {
	if err := Run(cmd, root.GetLogrusAdapter(), root.SharedFlags.Input, XPath); err != nil {
		root.GetLogrusAdapter().Fatalf("Error inspecting document: %v", err)
	}
}

// Run prints the message information of input, or the values of xpath.
func Run(cmd *cobra.Command, logger logging.Logger, input, xpath string) error {
	text, err := common.ReadInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if xpath != "" {
		node, err := xmlpath.Parse(strings.NewReader(text))
		if err != nil {
			return fmt.Errorf("failed to parse XML: %w", err)
		}
		values, err := xmlutils.ExtractFromXML(node, xpath)
		if err != nil {
			return err
		}
		for i := range values {
			values[i] = xmlutils.CleanText(values[i])
		}
		return common.WriteLines(cmd.OutOrStdout(), values)
	}

	info, err := xmlutils.Inspect(strings.NewReader(text), logger)
	if errors.Is(err, xmlutils.ErrUnknownMessage) {
		_, werr := fmt.Fprintln(cmd.OutOrStdout(), "Not an ISO 20022 message")
		return werr
	}
	if err != nil {
		return err
	}
	return printInfo(cmd.OutOrStdout(), info)
}

func printInfo(w io.Writer, info xmlutils.MessageInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Type", info.Type},
		{"Description", info.Description},
		{"Version", info.Version},
		{"Message ID", info.MessageID},
		{"Created", info.CreationDateTime},
		{"Transactions", info.NumberOfTransactions},
		{"Settlement", info.SettlementMethod},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}
