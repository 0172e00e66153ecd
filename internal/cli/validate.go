package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cybrain/reportbuilder/internal/aggregator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report>",
	Short: "Check that a report decodes and list data-quality warnings",
	Long: `Validate checks that a JSON or YAML report can be decoded and prints the
data-quality warnings for its report type.

Returns exit 0 if the report decodes (warnings do not fail validation),
exit 2 if it does not, with details on stderr.

Example:
  cybrain validate report.json
  cat report.yaml | cybrain validate -`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	report, err := loadReport(args[0])
	if err != nil {
		if HandleError(err) == ExitInvalidInput {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		}
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "VALID: %d targets, %d findings\n", len(report.Targets), len(report.Findings))

	if reportType := report.Meta.NormalizedReportType(); reportType != "" {
		logVerbose("Report type: %s", reportType)
	}
	if report.Meta.PrimaryTargetID != "" {
		if _, ok := report.PrimaryTarget(); !ok {
			fmt.Fprintf(w, "WARNING: primary target %q does not match any target\n", report.Meta.PrimaryTargetID)
		}
	}
	for _, warning := range aggregator.NewWarningGenerator().Generate(report) {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
	return nil
}
