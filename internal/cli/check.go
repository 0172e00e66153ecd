package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/policy"
)

var (
	checkPolicyFile string
	checkFormat     string
)

var checkCmd = &cobra.Command{
	Use:   "check <report>",
	Short: "Evaluate a report against a policy file",
	Long: `Check summarizes a report and evaluates it against a policy such as:

  version: "1"
  rules:
    max_critical: 0
    max_risk: Medium
    forbid_warnings: true
    require_primary_target: true

The policy is taken from --policy, then the policy_file config key, then the
nearest .cybrain-policy.yaml in the current or a parent directory.

Returns exit 0 when the report passes and exit 1 on violations.

Example:
  cybrain check report.json
  cybrain check report.json --policy ci/policy.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPolicyFile, "policy", "",
		"policy file (default: policy_file config or discovered .cybrain-policy.yaml)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "",
		"output format: text or json (default from config)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format := checkFormat
	if format == "" {
		format = cfg.Format
	}
	if format != "text" && format != "json" {
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s", format)}
	}

	policyPath := resolvePolicyPath()
	if policyPath == "" {
		return &ValidationError{Message: "no policy file found (use --policy or create .cybrain-policy.yaml)"}
	}
	logVerbose("Using policy file: %s", policyPath)

	pol, err := policy.LoadFromFile(policyPath)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("failed to load policy: %v", err)}
	}
	if pol == nil {
		return &ValidationError{Message: fmt.Sprintf("policy file not found: %s", policyPath)}
	}

	report, err := loadReport(args[0])
	if err != nil {
		return err
	}

	summary := aggregator.Summarize(report)
	result := pol.Evaluate(summary, report)

	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else if result.Pass {
		fmt.Fprintln(w, "PASS: report satisfies policy")
	} else {
		fmt.Fprintln(w, "FAIL: report violates policy")
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  [%s] %s\n", v.Rule, v.Message)
		}
	}

	if !result.Pass {
		return &PolicyViolationError{Violations: len(result.Violations), PolicyPath: policyPath}
	}
	return nil
}

func resolvePolicyPath() string {
	if checkPolicyFile != "" {
		return checkPolicyFile
	}
	if cfg.PolicyFile != "" {
		return cfg.PolicyFile
	}
	return policy.FindPolicyFile()
}
