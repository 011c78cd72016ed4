package packages

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// AptGetUpdateName is the command-line name of AptGetUpdate.
const AptGetUpdateName = "apt-get-update"

// AptGetUpdate refreshes the package index when it is older than MaxAge.
type AptGetUpdate struct {
	MaxAge time.Duration
}

// NewAptGetUpdate creates the task.
func NewAptGetUpdate(maxAge time.Duration) *AptGetUpdate {
	return &AptGetUpdate{MaxAge: maxAge}
}

// Name implements provisioning.Task.
func (t *AptGetUpdate) Name() string {
	return AptGetUpdateName
}

// Provision implements provisioning.Task.
func (t *AptGetUpdate) Provision(ctx *provisioning.Context) error {
	updated, err := ctx.Host.UptodateIndex(ctx, t.MaxAge)
	if err != nil {
		if errors.Is(err, remote.ErrUnsupportedHost) {
			return fmt.Errorf("%w: the package index can only be refreshed on Debian-based targets", err)
		}
		return err
	}

	provisioning.LogResource(ctx.Observer, t.Name(), "package index", remote.UpdateStampFile, updated)
	return nil
}
