package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// Connection is an open command channel to a target.
type Connection interface {
	remote.Executor
	Close() error
}

// connect opens the connection a Runner provisions through. Swapped in tests.
var connect = func(ctx context.Context, c *Connector, cfg *config.Config, envName string) (Connection, provisioning.Target, error) {
	client, target, err := c.Connect(ctx, cfg, envName)
	if err != nil {
		return nil, provisioning.Target{}, err
	}
	return client, target, nil
}

// Runner executes a task plan against one environment.
type Runner struct {
	config      *config.Config
	environment string
	connector   *Connector
	syncer      provisioning.Syncer
	timeouts    *config.Timeouts

	// Verbose logs every remote command through the observer.
	Verbose bool
}

// NewRunner creates a Runner. syncer may be nil for plain SSH environments.
func NewRunner(cfg *config.Config, environment string, connector *Connector, syncer provisioning.Syncer) *Runner {
	timeouts := connector.Timeouts
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &Runner{
		config:      cfg,
		environment: environment,
		connector:   connector,
		syncer:      syncer,
		timeouts:    timeouts,
	}
}

// Run connects to the environment and runs tasks in order.
func (r *Runner) Run(ctx context.Context, tasks []provisioning.Task, observer provisioning.Observer) error {
	if r.environment == "" {
		return config.ErrNoEnvironment
	}

	conn, target, err := connect(ctx, r.connector, r.config, r.environment)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	observer = observer.WithFields(map[string]string{"env": r.environment})

	var hostLog remote.Logger
	if r.Verbose {
		hostLog = observer
	}
	host := remote.NewHost(conn, hostLog)
	host.CommandTimeout = r.timeouts.Command

	pctx := provisioning.NewContext(ctx, r.config, r.environment, host)
	pctx.Observer = observer
	pctx.Target = target
	pctx.Syncer = r.syncer
	pctx.Timeouts = r.timeouts

	if err := provisioning.RunTasks(pctx, tasks); err != nil {
		return fmt.Errorf("provisioning %s failed: %w", r.environment, err)
	}
	return nil
}
