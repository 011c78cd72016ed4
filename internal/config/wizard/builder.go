package wizard

import (
	"strconv"
	"strings"
	"time"

	"github.com/imamik/devprov/internal/config"
)

// BuildConfig creates a Config from the wizard result. Settings equal to
// their defaults are left unset so the written file stays short.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		Environments: map[string]config.Environment{},
	}

	if result.Timezone != "" && result.Timezone != config.DefaultTimezone {
		cfg.Timezone = result.Timezone
	}
	if d, err := time.ParseDuration(result.AptMaxAge); err == nil && d != config.DefaultAptMaxAge {
		cfg.Apt.MaxAge = config.Duration(d)
	}

	name := strings.TrimSpace(result.EnvironmentName)
	cfg.Environments[name] = buildEnvironment(result)

	if result.AdvancedOptions != nil {
		applyAdvancedOptions(cfg, result.AdvancedOptions)
	}

	return cfg
}

func buildEnvironment(result *WizardResult) config.Environment {
	if result.Kind == KindVagrant {
		env := config.Environment{Vagrant: true}
		if m := strings.TrimSpace(result.Machine); m != config.DefaultVagrantMachine {
			env.Machine = m
		}
		return env
	}

	env := config.Environment{
		Host:         strings.TrimSpace(result.Host),
		User:         strings.TrimSpace(result.User),
		IdentityFile: strings.TrimSpace(result.IdentityFile),
	}
	if port, err := strconv.Atoi(strings.TrimSpace(result.Port)); err == nil && port != config.DefaultSSHPort {
		env.Port = port
	}
	return env
}

// applyAdvancedOptions applies advanced options to the config.
func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) {
	if opts.RemoteProjectRoot != config.DefaultRemoteProjectRoot {
		cfg.RemoteProjectRoot = opts.RemoteProjectRoot
	}
	if opts.TemplatesDir != config.DefaultTemplatesDir {
		cfg.TemplatesDir = opts.TemplatesDir
	}
	if opts.ShellUser != config.DefaultShellUser {
		cfg.Shell.User = opts.ShellUser
	}

	cfg.Report.MetricsFile = strings.TrimSpace(opts.MetricsFile)

	if bucket := strings.TrimSpace(opts.S3Bucket); bucket != "" {
		cfg.Report.S3 = config.S3Config{
			Bucket:   bucket,
			Region:   strings.TrimSpace(opts.S3Region),
			Endpoint: strings.TrimSpace(opts.S3Endpoint),
		}
	}
}
