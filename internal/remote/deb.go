package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UpdateStampFile records the time of the last successful index update.
const UpdateStampFile = "/var/lib/apt/periodic/devprov-update-success-stamp"

const aptInstall = "DEBIAN_FRONTEND=noninteractive apt-get install --quiet --assume-yes"

// UptodateIndex refreshes the package index if the last successful update
// is older than maxAge. A maxAge of zero always updates. It reports whether
// an update ran.
func (h *Host) UptodateIndex(ctx context.Context, maxAge time.Duration) (bool, error) {
	if err := h.requireCommand(ctx, "apt-get"); err != nil {
		return false, err
	}

	if maxAge > 0 {
		age, known, err := h.indexAge(ctx)
		if err != nil {
			return false, err
		}
		if known && age <= maxAge {
			return false, nil
		}
	}

	if _, err := h.MustSudo(ctx, "apt-get update --quiet"); err != nil {
		return false, fmt.Errorf("failed to update package index: %w", err)
	}

	touch := fmt.Sprintf("mkdir -p /var/lib/apt/periodic && touch %s", UpdateStampFile)
	if _, err := h.MustSudo(ctx, touch); err != nil {
		return true, fmt.Errorf("failed to record index update: %w", err)
	}

	return true, nil
}

// indexAge returns the age of the update stamp. known is false when the
// stamp does not exist.
func (h *Host) indexAge(ctx context.Context) (time.Duration, bool, error) {
	stamp, err := h.Run(ctx, fmt.Sprintf("stat -c %%Y %s", UpdateStampFile))
	if err != nil {
		return 0, false, err
	}
	if !stamp.OK() {
		return 0, false, nil
	}

	now, err := h.MustRun(ctx, "date +%s")
	if err != nil {
		return 0, false, err
	}

	mtime, err := parseEpoch(stamp.Output)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse stamp time: %w", err)
	}
	current, err := parseEpoch(now.Output)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse remote clock: %w", err)
	}

	return time.Duration(current-mtime) * time.Second, true, nil
}

// IsInstalled reports whether a Debian package is installed.
func (h *Host) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	result, err := h.Run(ctx, fmt.Sprintf("dpkg-query -W -f='${Status}' %s 2>/dev/null", Quote(pkg)))
	if err != nil {
		return false, err
	}
	if !result.OK() {
		return false, nil
	}
	return strings.TrimSpace(result.Output) == "install ok installed", nil
}

// Packages installs whichever of pkgs are missing and returns them.
func (h *Host) Packages(ctx context.Context, pkgs []string) ([]string, error) {
	if err := h.requireCommand(ctx, "dpkg-query"); err != nil {
		return nil, err
	}

	var missing []string
	for _, pkg := range pkgs {
		installed, err := h.IsInstalled(ctx, pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to query package %s: %w", pkg, err)
		}
		if !installed {
			missing = append(missing, pkg)
		}
	}

	if len(missing) == 0 {
		return nil, nil
	}

	if err := h.Install(ctx, missing...); err != nil {
		return nil, err
	}
	return missing, nil
}

// Install runs apt-get install for pkgs unconditionally.
func (h *Host) Install(ctx context.Context, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	quoted := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		quoted[i] = Quote(pkg)
	}
	if _, err := h.MustSudo(ctx, aptInstall+" "+strings.Join(quoted, " ")); err != nil {
		return fmt.Errorf("failed to install packages %s: %w", strings.Join(pkgs, ", "), err)
	}
	return nil
}

// requireCommand fails with ErrUnsupportedHost when name is not on PATH.
func (h *Host) requireCommand(ctx context.Context, name string) error {
	ok, err := h.HasCommand(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s not found on target", ErrUnsupportedHost, name)
	}
	return nil
}

// HasCommand reports whether name resolves on the remote PATH.
func (h *Host) HasCommand(ctx context.Context, name string) (bool, error) {
	result, err := h.Run(ctx, fmt.Sprintf("command -v %s >/dev/null 2>&1", Quote(name)))
	if err != nil {
		return false, err
	}
	return result.OK(), nil
}

func parseEpoch(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
