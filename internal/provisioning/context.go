package provisioning

import (
	"context"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/remote"
	"github.com/imamik/devprov/internal/templates"
)

// Target describes the resolved SSH endpoint of the selected environment.
type Target struct {
	Address  string
	Port     int
	User     string
	Provider string

	// Machine is the vagrant machine name, empty for plain SSH targets.
	Machine string
}

// Context wraps all dependencies needed for a provisioning task.
type Context struct {
	context.Context
	Config *config.Config

	// Environment is the selected environment name.
	Environment string
	Target      Target

	Host     *remote.Host
	Syncer   Syncer
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context for the named environment.
func NewContext(ctx context.Context, cfg *config.Config, environment string, host *remote.Host) *Context {
	return &Context{
		Context:     ctx,
		Config:      cfg,
		Environment: environment,
		Host:        host,
		Observer:    NewConsoleObserver(),
		Timeouts:    config.LoadTimeouts(),
	}
}

// RequireEnvironment fails with config.ErrNoEnvironment unless an
// environment is selected and connected.
func (c *Context) RequireEnvironment() error {
	if c.Environment == "" || c.Host == nil {
		return config.ErrNoEnvironment
	}
	return nil
}

// TemplateData returns the data templates are rendered with.
func (c *Context) TemplateData() templates.Data {
	return templates.Data{
		Environment:       c.Environment,
		Provider:          c.Target.Provider,
		Host:              c.Target.Address,
		User:              c.Target.User,
		Port:              c.Target.Port,
		Timezone:          c.Config.Timezone,
		ProjectRoot:       c.Config.ProjectRoot,
		RemoteProjectRoot: c.Config.RemoteProjectRoot,
		DataDir:           c.Config.Analysis.DataDir,
		Vars:              c.Config.Analysis.Vars,
	}
}
