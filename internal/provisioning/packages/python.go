package packages

import (
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// PythonPackagesName is the command-line name of PythonPackages.
const PythonPackagesName = "python-packages"

// PythonPackages installs the Python requirements file that lives in the
// synced project on the target.
type PythonPackages struct{}

// NewPythonPackages creates the task.
func NewPythonPackages() *PythonPackages {
	return &PythonPackages{}
}

// Name implements provisioning.Task.
func (t *PythonPackages) Name() string {
	return PythonPackagesName
}

// Provision implements provisioning.Task.
func (t *PythonPackages) Provision(ctx *provisioning.Context) error {
	file := ctx.Config.PythonRequirementsPath()
	opts := remote.PipOptions{Pip: ctx.Config.Packages.Pip, UseSudo: true}
	if err := ctx.Host.Requirements(ctx, file, opts); err != nil {
		return err
	}

	ctx.Observer.Printf("[%s] installed requirements from %s", t.Name(), file)
	return nil
}
