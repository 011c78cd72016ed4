package system

import (
	"fmt"
	"strings"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// Task names.
const (
	SetTimezoneName     = "set-timezone"
	RequireTimezoneName = "require-timezone"
)

// TimezoneFile holds the configured zone on Debian systems.
const TimezoneFile = "/etc/timezone"

// TimezoneCheckError reports that the timezone check itself failed, as
// opposed to reporting a mismatch.
type TimezoneCheckError struct {
	Timezone string
	ExitCode int
	Output   string
}

func (e *TimezoneCheckError) Error() string {
	msg := fmt.Sprintf("could not check timezone %s in %s (exit status %d)", e.Timezone, TimezoneFile, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// SetTimezone writes the timezone, reconfigures tzdata and restarts cron.
type SetTimezone struct {
	Timezone string
}

// NewSetTimezone creates the task.
func NewSetTimezone(tz string) *SetTimezone {
	return &SetTimezone{Timezone: tz}
}

// Name implements provisioning.Task.
func (t *SetTimezone) Name() string {
	return SetTimezoneName
}

// Provision implements provisioning.Task.
func (t *SetTimezone) Provision(ctx *provisioning.Context) error {
	if err := config.ValidateTimezone(t.Timezone); err != nil {
		return err
	}

	write := fmt.Sprintf("echo %s > %s", remote.Quote(t.Timezone), TimezoneFile)
	if _, err := ctx.Host.MustSudo(ctx, write); err != nil {
		return fmt.Errorf("failed to write %s: %w", TimezoneFile, err)
	}
	if _, err := ctx.Host.MustSudo(ctx, "dpkg-reconfigure --frontend noninteractive tzdata"); err != nil {
		return fmt.Errorf("failed to reconfigure tzdata: %w", err)
	}
	if err := ctx.Host.Restarted(ctx, ctx.Config.Web.CronService); err != nil {
		return err
	}

	provisioning.LogResource(ctx.Observer, t.Name(), "timezone", t.Timezone, true)
	return nil
}

// RequireTimezone sets the timezone only when the target reports a
// different one.
type RequireTimezone struct {
	Timezone string
}

// NewRequireTimezone creates the task.
func NewRequireTimezone(tz string) *RequireTimezone {
	return &RequireTimezone{Timezone: tz}
}

// Name implements provisioning.Task.
func (t *RequireTimezone) Name() string {
	return RequireTimezoneName
}

// Provision implements provisioning.Task. grep exiting 0 means the zone
// matches, 1 means it differs, anything else aborts the run.
func (t *RequireTimezone) Provision(ctx *provisioning.Context) error {
	if err := config.ValidateTimezone(t.Timezone); err != nil {
		return err
	}

	check := fmt.Sprintf(`grep -q "^%s$" %s`, t.Timezone, TimezoneFile)
	result, err := ctx.Host.Run(ctx, check)
	if err != nil {
		return err
	}

	switch result.ExitCode {
	case 0:
		provisioning.LogResource(ctx.Observer, t.Name(), "timezone", t.Timezone, false)
		return nil
	case 1:
		return NewSetTimezone(t.Timezone).Provision(ctx)
	default:
		return &TimezoneCheckError{Timezone: t.Timezone, ExitCode: result.ExitCode, Output: result.Output}
	}
}
