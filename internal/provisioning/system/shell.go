package system

import (
	"fmt"
	"path"

	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
	"github.com/imamik/devprov/internal/templates"
)

// ShellEnvironmentName is the command-line name of ShellEnvironment.
const ShellEnvironmentName = "setup-shell-environment"

// ShellEnvironment writes the login profile so shells start in the
// project directory.
type ShellEnvironment struct{}

// NewShellEnvironment creates the task.
func NewShellEnvironment() *ShellEnvironment {
	return &ShellEnvironment{}
}

// Name implements provisioning.Task.
func (t *ShellEnvironment) Name() string {
	return ShellEnvironmentName
}

// Provision implements provisioning.Task.
func (t *ShellEnvironment) Provision(ctx *provisioning.Context) error {
	shell := ctx.Config.Shell
	contents, src, err := templates.LoadAndRender(ctx.Config.TemplatesRoot(), shell.Profile, ctx.TemplateData())
	if err != nil {
		return err
	}

	dest := path.Join(shell.Home, shell.Profile)
	changed, err := ctx.Host.File(ctx, dest, remote.FileOptions{Contents: contents})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	ctx.Observer.Printf("[%s] %s rendered from %s", t.Name(), dest, src)
	provisioning.LogResource(ctx.Observer, t.Name(), "file", dest, changed)
	return nil
}
