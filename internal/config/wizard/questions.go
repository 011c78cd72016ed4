package wizard

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/devprov/internal/config"
)

// envNameRegex validates environment names: 1-32 lowercase alphanumerics,
// hyphens or underscores.
var envNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_-]{0,30}[a-z0-9])?$`)

// runEnvironmentGroup prompts for the environment name and kind.
func runEnvironmentGroup(ctx context.Context, result *WizardResult) error {
	result.EnvironmentName = "dev"
	result.Kind = KindVagrant

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment Name").
				Description("Selected at run time with --env or " + config.EnvVarEnvironment).
				Placeholder("dev").
				Value(&result.EnvironmentName).
				Validate(validateEnvName),
			huh.NewSelect[string]().
				Title("Target").
				Description("How devprov reaches the machine").
				Options(KindOptions...).
				Value(&result.Kind),
		).Title("Environment"),
	).RunWithContext(ctx)
}

// runVagrantGroup prompts for the vagrant machine name.
func runVagrantGroup(ctx context.Context, result *WizardResult) error {
	result.Machine = config.DefaultVagrantMachine

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Machine").
				Description("Name of the machine in the Vagrantfile").
				Value(&result.Machine).
				Validate(validateRequiredPath),
		).Title("Vagrant"),
	).RunWithContext(ctx)
}

// runSSHGroup prompts for SSH connection details.
func runSSHGroup(ctx context.Context, result *WizardResult) error {
	result.Port = strconv.Itoa(config.DefaultSSHPort)
	result.IdentityFile = "~/.ssh/devprov_ed25519"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Placeholder("dev.example.com").
				Value(&result.Host).
				Validate(validateHost),
			huh.NewInput().
				Title("Port").
				Value(&result.Port).
				Validate(validatePort),
			huh.NewInput().
				Title("User").
				Description("Must be allowed to run sudo without a password").
				Value(&result.User).
				Validate(validateUser),
			huh.NewInput().
				Title("Identity File").
				Description("Private key used to log in").
				Value(&result.IdentityFile).
				Validate(validateRequiredPath),
			huh.NewConfirm().
				Title("Generate Key?").
				Description("Create a new ed25519 key pair at the identity file path if none exists").
				Value(&result.GenerateKey),
		).Title("SSH Access"),
	).RunWithContext(ctx)
}

// runSystemGroup prompts for the timezone and package index age.
func runSystemGroup(ctx context.Context, result *WizardResult) error {
	result.Timezone = config.DefaultTimezone
	result.AptMaxAge = "168h"

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Timezone").
				Description("Enforced on the target by require-timezone").
				Options(TimezonesToOptions()...).
				Value(&result.Timezone),
			huh.NewSelect[string]().
				Title("Package Index Max Age").
				Description("apt-get update is skipped while the index is younger").
				Options(AptMaxAgeOptions...).
				Value(&result.AptMaxAge),
		).Title("System"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if result.Timezone != TimezoneOther {
		return nil
	}

	result.Timezone = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, e.g. Australia/Sydney").
				Value(&result.Timezone).
				Validate(config.ValidateTimezone),
		).Title("Timezone"),
	).RunWithContext(ctx)
}

// runLayoutGroup prompts for project layout (advanced mode).
func runLayoutGroup(ctx context.Context, opts *AdvancedOptions) error {
	opts.RemoteProjectRoot = config.DefaultRemoteProjectRoot
	opts.TemplatesDir = config.DefaultTemplatesDir
	opts.ShellUser = config.DefaultShellUser

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Remote Project Root").
				Description("Where the project lives on the target").
				Value(&opts.RemoteProjectRoot).
				Validate(validateRequiredPath),
			huh.NewInput().
				Title("Templates Directory").
				Description("Relative to the project root").
				Value(&opts.TemplatesDir).
				Validate(validateRequiredPath),
			huh.NewInput().
				Title("Shell User").
				Description("Owner of the login profile on the target").
				Value(&opts.ShellUser).
				Validate(validateUser),
		).Title("Project Layout"),
	).RunWithContext(ctx)
}

// runReportGroup prompts for run report exports (advanced mode).
func runReportGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics File (Optional)").
				Description("Prometheus textfile written after each run").
				Placeholder("/var/lib/node_exporter/textfile/devprov.prom").
				Value(&opts.MetricsFile),
			huh.NewInput().
				Title("S3 Bucket (Optional)").
				Description("Archive run reports to S3-compatible storage. Leave empty to disable.").
				Value(&opts.S3Bucket),
			huh.NewInput().
				Title("S3 Region").
				Placeholder("us-east-1").
				Value(&opts.S3Region),
			huh.NewInput().
				Title("S3 Endpoint (Optional)").
				Description("For MinIO or other S3-compatible servers").
				Placeholder("http://localhost:9000").
				Value(&opts.S3Endpoint),
		).Title("Run Reports"),
	).RunWithContext(ctx)
}

func validateEnvName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errEnvNameRequired
	}
	if !envNameRegex.MatchString(s) {
		return errEnvNameInvalid
	}
	return nil
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return errHostRequired
	}
	return nil
}

func validateUser(s string) error {
	if strings.TrimSpace(s) == "" {
		return errUserRequired
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateRequiredPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errPathRequired
	}
	return nil
}
