package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Environment
	EnvironmentName string
	Kind            string // KindVagrant or KindSSH

	// Vagrant
	Machine string

	// SSH (KindSSH only)
	Host         string
	Port         string
	User         string
	IdentityFile string
	GenerateKey  bool

	// System
	Timezone  string
	AptMaxAge string

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds advanced configuration options.
type AdvancedOptions struct {
	RemoteProjectRoot string
	TemplatesDir      string
	ShellUser         string
	MetricsFile       string

	// Report archival
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runEnvironmentGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	switch result.Kind {
	case KindVagrant:
		if err := runVagrantGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("vagrant: %w", err)
		}
	case KindSSH:
		if err := runSSHGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("ssh access: %w", err)
		}
	}

	if err := runSystemGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}

	if advanced {
		advOpts := &AdvancedOptions{}

		if err := runLayoutGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}

		if err := runReportGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("reports: %w", err)
		}

		result.AdvancedOptions = advOpts
	}

	return result, nil
}
