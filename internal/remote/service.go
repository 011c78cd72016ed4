package remote

import (
	"context"
	"fmt"
)

// IsRunning reports whether a SysV/systemd service is running.
func (h *Host) IsRunning(ctx context.Context, name string) (bool, error) {
	result, err := h.Sudo(ctx, fmt.Sprintf("service %s status", Quote(name)))
	if err != nil {
		return false, err
	}
	return result.OK(), nil
}

// Start starts a service.
func (h *Host) Start(ctx context.Context, name string) error {
	return h.serviceAction(ctx, name, "start")
}

// Restart restarts a service.
func (h *Host) Restart(ctx context.Context, name string) error {
	return h.serviceAction(ctx, name, "restart")
}

// Restarted restarts a running service or starts a stopped one.
func (h *Host) Restarted(ctx context.Context, name string) error {
	running, err := h.IsRunning(ctx, name)
	if err != nil {
		return err
	}
	if running {
		return h.Restart(ctx, name)
	}
	return h.Start(ctx, name)
}

func (h *Host) serviceAction(ctx context.Context, name, action string) error {
	if _, err := h.MustSudo(ctx, fmt.Sprintf("service %s %s", Quote(name), action)); err != nil {
		return fmt.Errorf("failed to %s service %s: %w", action, name, err)
	}
	return nil
}
