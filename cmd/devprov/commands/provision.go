package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devprov/cmd/devprov/handlers"
	"github.com/imamik/devprov/internal/orchestration"
)

// Provision returns the command that runs provisioning tasks against an
// environment.
//
// Each positional argument is a task invocation in the form
// name[:arg,key=value]. Without arguments the default task list runs.
//
// Flags:
//
//	--no-rsync: Skip the initial vagrant sync in the default task list
//	--plain: Print log lines instead of the interactive progress view
func Provision(flags *globalFlags) *cobra.Command {
	var (
		noRsync bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "provision [task[:args]...]",
		Short: "Provision an environment",
		Long: `Provision the selected environment.

Without arguments the default task list runs: rsync (vagrant only),
apt-get-update, debian-packages, python-packages, require-timezone,
setup-shell-environment, setup-analysis, setup-certificates,
setup-apache and setup-simplesamlphp.

Tasks take positional and keyword arguments after a colon:

  devprov provision -e dev apt-get-update:max_age=3600
  devprov provision -e dev require-timezone:Europe/Berlin
  devprov provision -e dev default:do_rsync=false

Run 'devprov tasks' for the full list.

A report of every run is stored under .devprov/runs and can be
listed with 'devprov history'.`,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return orchestration.TaskNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Provision(cmd.Context(), handlers.ProvisionOptions{
				ConfigPath:  flags.configPath,
				Environment: flags.environment,
				Tasks:       args,
				NoRsync:     noRsync,
				Plain:       plain,
				Verbose:     flags.verbose,
			})
		},
	}

	cmd.Flags().BoolVar(&noRsync, "no-rsync", false, "Skip the vagrant rsync step of the default task list")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the interactive progress view")

	return cmd
}
