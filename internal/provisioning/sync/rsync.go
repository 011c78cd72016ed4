package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/devprov/internal/provisioning"
)

// RsyncName is the name this step reports under.
const RsyncName = "rsync"

// Rsync runs `vagrant provision <machine>` locally, which rsyncs the
// project into the machine. Plain SSH environments are skipped.
type Rsync struct{}

// NewRsync creates the task.
func NewRsync() *Rsync {
	return &Rsync{}
}

// Name implements provisioning.Task.
func (t *Rsync) Name() string {
	return RsyncName
}

// Provision implements provisioning.Task.
func (t *Rsync) Provision(ctx *provisioning.Context) error {
	machine := ctx.Target.Machine
	if machine == "" || ctx.Syncer == nil {
		provisioning.LogTaskSkipped(ctx.Observer, t.Name(), "environment is not a vagrant machine")
		return nil
	}

	runCtx := context.Context(ctx)
	if ctx.Timeouts != nil && ctx.Timeouts.Rsync > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, ctx.Timeouts.Rsync)
		defer cancel()
	}

	out, err := ctx.Syncer.Provision(runCtx, machine)
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			ctx.Observer.Printf("[%s] %s", t.Name(), line)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to sync project into %s: %w", machine, err)
	}

	provisioning.LogResource(ctx.Observer, t.Name(), "synced folder", machine, true)
	return nil
}
