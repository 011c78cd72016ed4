// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// globalFlags are shared by every command that touches an environment.
type globalFlags struct {
	configPath  string
	environment string
	verbose     bool
}

// Root returns the root command for the devprov CLI.
//
// The root command carries the persistent --config, --env and --verbose
// flags and organizes the command hierarchy.
func Root() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "devprov",
		Short:         "Provision development hosts over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to configuration file (default: devprov.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.environment, "env", "e", "", "Environment to provision (default: $DEVPROV_ENV)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every remote command")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Provision(flags))
	cmd.AddCommand(Tasks())
	cmd.AddCommand(Doctor(flags))
	cmd.AddCommand(History(flags))

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
