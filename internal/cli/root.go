package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cybrain/reportbuilder/internal/config"
	"github.com/cybrain/reportbuilder/internal/logging"
)

const (
	ExitOK           = 0 // Success
	ExitPolicyFail   = 1 // Report violates the policy
	ExitInvalidInput = 2 // Undecodable report or bad arguments
	ExitRuntimeError = 3 // I/O, permissions, or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// buildVersion is set by SetVersion from main.
	buildVersion = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cybrain",
	Short: "CyBrain - security assessment report builder",
	Long: `CyBrain turns structured security assessment reports (bug bounty, OSINT,
pentest, training and exam write-ups) into a risk summary and a paginated PDF.

It provides:
- Severity counts, overall risk and top findings
- Data-quality warnings per report type
- Deterministic A4 PDF export
- An HTTP API for the web front end
- A policy gate for CI with exit codes

Quick start:
  cybrain summarize report.json
  cybrain render report.json -o report.pdf
  cybrain serve

Other commands:
  cybrain validate report.yaml
  cybrain check report.json --policy .cybrain-policy.yaml
  cybrain render ./reports -o ./out`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		logging.Init(os.Stderr, logging.LevelFromFlags(cfg.Verbose, cfg.Debug))
		logDebug("Loaded config (format=%s, listen=%s)", cfg.Format, cfg.Server.ListenAddr)
		return nil
	},
}

// Execute runs the root command and exits with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(HandleError(err))
	}
}

// SetVersion records the build version shown by the version command.
func SetVersion(v string) {
	buildVersion = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./cybrain.yaml, ~/cybrain.yaml or $XDG_CONFIG_HOME/cybrain/cybrain.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "CyBrain Report Builder %s\n", buildVersion)
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var validationErr *ValidationError
	var policyErr *PolicyViolationError
	switch {
	case errors.As(err, &validationErr):
		return ExitInvalidInput
	case errors.As(err, &policyErr):
		return ExitPolicyFail
	default:
		return ExitRuntimeError
	}
}

// ValidationError represents an undecodable report or invalid arguments
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PolicyViolationError represents a failed policy check
type PolicyViolationError struct {
	Violations int
	PolicyPath string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("report violates policy %s (%d violation(s))", e.PolicyPath, e.Violations)
}

// logVerbose logs at info level, shown with --verbose
func logVerbose(format string, args ...interface{}) {
	slog.Info(fmt.Sprintf(format, args...))
}

// logDebug logs at debug level, shown with --debug
func logDebug(format string, args ...interface{}) {
	slog.Debug(fmt.Sprintf(format, args...))
}

// logError logs an error message
func logError(format string, args ...interface{}) {
	slog.Error(fmt.Sprintf(format, args...))
}
