package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devprov/cmd/devprov/handlers"
)

// Tasks returns the command listing the available provisioning tasks.
func Tasks() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List available provisioning tasks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Tasks()
		},
	}
}
