package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devprov/cmd/devprov/handlers"
)

// History returns the command listing stored run reports.
//
// Optional flags:
//
//	--limit, -n: Number of runs to show (default 10, 0 for all)
//	--json: Print the newest report as JSON
func History(flags *globalFlags) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past provisioning runs",
		Long: `Show the provisioning runs stored in the report directory, newest first.

When --env is given only runs against that environment are listed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.History(flags.configPath, flags.environment, limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the newest matching report as JSON")

	return cmd
}
