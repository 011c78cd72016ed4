package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devprov/cmd/devprov/handlers"
)

// Init returns the command for interactively creating a devprov configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "devprov.yaml")
//	--advanced, -a: Show advanced configuration options
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		advanced   bool
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a devprov configuration",
		Long: `Interactively create a devprov configuration file.

This command asks about:

  - The first environment (a vagrant machine or an SSH host)
  - SSH access for plain hosts, optionally generating a key pair
  - The timezone and how often apt indexes are refreshed

Use --advanced for the project layout, the shell user, metrics
output and S3 report archival.

Use --full to write every option with its default value. By default
only the values that differ from the defaults are written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "devprov.yaml", "Output file path")
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
