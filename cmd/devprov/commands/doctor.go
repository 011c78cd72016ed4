package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devprov/cmd/devprov/handlers"
)

// Doctor returns the command for diagnosing an environment.
//
// Optional flags:
//
//	--json: Output in JSON format
func Doctor(flags *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check local tools and the target host",
		Long: `Diagnose the selected environment without changing it.

  - Checks the local tools a run needs (vagrant for vagrant environments)
  - Resolves the SSH settings of the environment
  - Connects and reports the OS, kernel, apt availability and timezone

Examples:
  devprov doctor -e dev
  devprov doctor -e staging --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), flags.configPath, flags.environment, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
