package testing

import (
	"maps"
	"time"

	"github.com/imamik/devprov/internal/config"
)

// DefaultProjectRoot anchors relative paths of built configs.
const DefaultProjectRoot = "/project"

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with a single vagrant
// environment named "dev".
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Environments: map[string]config.Environment{
				"dev": {Vagrant: true, Machine: "default"},
			},
		},
	}
}

// WithProjectRoot sets the local project root.
func (b *ConfigBuilder) WithProjectRoot(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ProjectRoot = dir
	return newBuilder
}

// WithRemoteProjectRoot sets the project root on the target.
func (b *ConfigBuilder) WithRemoteProjectRoot(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.RemoteProjectRoot = dir
	return newBuilder
}

// WithTimezone sets the enforced timezone.
func (b *ConfigBuilder) WithTimezone(tz string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Timezone = tz
	return newBuilder
}

// WithAptMaxAge sets the package index max age.
func (b *ConfigBuilder) WithAptMaxAge(d time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Apt.MaxAge = config.Duration(d)
	return newBuilder
}

// WithAnalysisVar adds a template variable for the analysis config.
func (b *ConfigBuilder) WithAnalysisVar(key, value string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Analysis.Vars == nil {
		newBuilder.cfg.Analysis.Vars = map[string]string{}
	}
	newBuilder.cfg.Analysis.Vars[key] = value
	return newBuilder
}

// WithVagrantEnvironment adds a vagrant-backed environment.
func (b *ConfigBuilder) WithVagrantEnvironment(name, machine string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Environments[name] = config.Environment{Vagrant: true, Machine: machine}
	return newBuilder
}

// WithSSHEnvironment adds an environment reached directly over SSH.
func (b *ConfigBuilder) WithSSHEnvironment(name, host, user, identityFile string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Environments[name] = config.Environment{
		Host:         host,
		Port:         22,
		User:         user,
		IdentityFile: identityFile,
	}
	return newBuilder
}

// WithReportDir sets the run store directory.
func (b *ConfigBuilder) WithReportDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Report.Dir = dir
	return newBuilder
}

// Build returns the constructed config with defaults applied.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults(DefaultProjectRoot)
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	newCfg.Environments = make(map[string]config.Environment, len(b.cfg.Environments))
	maps.Copy(newCfg.Environments, b.cfg.Environments)
	if b.cfg.Analysis.Vars != nil {
		newCfg.Analysis.Vars = make(map[string]string, len(b.cfg.Analysis.Vars))
		maps.Copy(newCfg.Analysis.Vars, b.cfg.Analysis.Vars)
	}
	return &ConfigBuilder{cfg: newCfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
