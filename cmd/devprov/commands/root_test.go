package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "devprov", cmd.Use)
	assert.Equal(t, "Provision development hosts over SSH", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expected := []string{"init", "provision", "tasks", "doctor", "history", "version", "completion"}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, subcommands[name], "Expected subcommand %s not found", name)
	}
	assert.Len(t, cmd.Commands(), len(expected))
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	for _, tc := range []struct{ name, short string }{
		{"config", "c"},
		{"env", "e"},
		{"verbose", "v"},
	} {
		flag := cmd.PersistentFlags().Lookup(tc.name)
		require.NotNil(t, flag, tc.name)
		assert.Equal(t, tc.short, flag.Shorthand)
	}
}

func TestProvision_Flags(t *testing.T) {
	cmd := Provision(&globalFlags{})

	assert.Equal(t, "provision [task[:args]...]", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("no-rsync"))
	require.NotNil(t, cmd.Flags().Lookup("plain"))
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "devprov.yaml", output.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("advanced"))
	assert.NotNil(t, cmd.Flags().Lookup("full"))
}

func TestHistory_Flags(t *testing.T) {
	cmd := History(&globalFlags{})

	limit := cmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "10", limit.DefValue)
}

func TestCommands_RejectExtraArgs(t *testing.T) {
	for _, name := range []string{"tasks", "doctor", "history", "init"} {
		root := Root()
		root.SetArgs([]string{name, "unexpected"})
		assert.Error(t, root.Execute(), name)
	}
}
