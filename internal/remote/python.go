package remote

import (
	"context"
	"fmt"
)

// PipOptions configures Requirements.
type PipOptions struct {
	// Pip is the pip executable. Defaults to pip3.
	Pip string

	// UseSudo installs system-wide.
	UseSudo bool
}

// Requirements installs a pip requirements file that already exists on the
// target. pip itself is installed from Debian packages when missing.
func (h *Host) Requirements(ctx context.Context, file string, opts PipOptions) error {
	pip := opts.Pip
	if pip == "" {
		pip = "pip3"
	}

	present, err := h.IsFile(ctx, file, false)
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf("requirements file %s not found on target", file)
	}

	if err := h.ensurePip(ctx, pip); err != nil {
		return err
	}

	cmd := fmt.Sprintf("%s install --quiet -r %s", Quote(pip), Quote(file))
	if _, err := h.mustRun(ctx, cmd, opts.UseSudo); err != nil {
		return fmt.Errorf("failed to install python requirements: %w", err)
	}
	return nil
}

func (h *Host) ensurePip(ctx context.Context, pip string) error {
	ok, err := h.HasCommand(ctx, pip)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	pkg := "python3-pip"
	if pip == "pip" || pip == "pip2" {
		pkg = "python-pip"
	}
	if _, err := h.Packages(ctx, []string{pkg}); err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg, err)
	}
	return nil
}
