package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cybrain/reportbuilder/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Long: `Init writes a commented sample configuration.

Without a path the file goes to $XDG_CONFIG_HOME/cybrain/cybrain.yaml, or
~/cybrain.yaml when XDG_CONFIG_HOME is unset. An existing file is kept
unless --force is given.

Example:
  cybrain init
  cybrain init ./cybrain.yaml --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteSampleConfig(path, initForce); err != nil {
		logError("Failed to write config: %v", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
	return nil
}
