package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/platform/ssh"
	"github.com/imamik/devprov/internal/platform/vagrant"
	"github.com/imamik/devprov/internal/provisioning"
)

// VagrantResolver resolves SSH settings and state of a vagrant machine.
// Implemented by internal/platform/vagrant.Client.
type VagrantResolver interface {
	SSHConfig(ctx context.Context, machine string) (*vagrant.SSHConfig, error)
	Status(ctx context.Context, machine string) (string, error)
}

// Connector turns an environment into SSH settings.
type Connector struct {
	Vagrant  VagrantResolver
	Timeouts *config.Timeouts

	// OnRetry observes SSH dial retries.
	OnRetry func(attempt int, delay time.Duration, err error)

	// readFile is swapped in tests.
	readFile func(string) ([]byte, error)
}

// NewConnector returns a Connector that resolves vagrant machines through v.
func NewConnector(v VagrantResolver, timeouts *config.Timeouts) *Connector {
	return &Connector{Vagrant: v, Timeouts: timeouts, readFile: os.ReadFile}
}

// Resolve builds the SSH client configuration and target description for
// the named environment.
func (c *Connector) Resolve(ctx context.Context, cfg *config.Config, envName string) (*ssh.Config, provisioning.Target, error) {
	env, err := cfg.Environment(envName)
	if err != nil {
		return nil, provisioning.Target{}, err
	}

	var sshCfg *ssh.Config
	var target provisioning.Target

	if env.Vagrant {
		sshCfg, target, err = c.resolveVagrant(ctx, env)
	} else {
		sshCfg, target, err = c.resolveDirect(env)
	}
	if err != nil {
		return nil, provisioning.Target{}, fmt.Errorf("environment %s: %w", envName, err)
	}

	if c.Timeouts != nil {
		sshCfg.DialTimeout = c.Timeouts.SSHDial
		sshCfg.MaxRetries = c.Timeouts.SSHMaxRetries
		sshCfg.RetryDelay = c.Timeouts.SSHRetryDelay
	}
	sshCfg.OnRetry = c.OnRetry
	target.Provider = env.Provider

	return sshCfg, target, nil
}

// Connect resolves the environment and returns an SSH client. The
// connection itself is opened by the first command.
func (c *Connector) Connect(ctx context.Context, cfg *config.Config, envName string) (*ssh.Client, provisioning.Target, error) {
	sshCfg, target, err := c.Resolve(ctx, cfg, envName)
	if err != nil {
		return nil, provisioning.Target{}, err
	}

	client, err := ssh.NewClient(sshCfg)
	if err != nil {
		return nil, provisioning.Target{}, fmt.Errorf("environment %s: %w", envName, err)
	}
	return client, target, nil
}

func (c *Connector) resolveVagrant(ctx context.Context, env *config.Environment) (*ssh.Config, provisioning.Target, error) {
	if c.Vagrant == nil {
		return nil, provisioning.Target{}, errors.New("vagrant is not available")
	}

	vc, err := c.Vagrant.SSHConfig(ctx, env.Machine)
	if err != nil {
		return nil, provisioning.Target{}, err
	}

	key, err := c.firstReadableKey(vc.IdentityFiles)
	if err != nil && !env.UseAgent {
		return nil, provisioning.Target{}, err
	}

	sshCfg := &ssh.Config{
		Host:       vc.HostName,
		Port:       vc.Port,
		User:       vc.User,
		PrivateKey: key,
		UseAgent:   env.UseAgent,
	}
	if vc.StrictHostKeyChecking && vc.UserKnownHostsFile != "" && vc.UserKnownHostsFile != os.DevNull {
		sshCfg.KnownHostsFile = vc.UserKnownHostsFile
	}

	return sshCfg, provisioning.Target{
		Address: vc.HostName,
		Port:    vc.Port,
		User:    vc.User,
		Machine: env.Machine,
	}, nil
}

func (c *Connector) resolveDirect(env *config.Environment) (*ssh.Config, provisioning.Target, error) {
	var key []byte
	if env.IdentityFile != "" {
		k, err := c.read(expandHome(env.IdentityFile))
		if err != nil {
			return nil, provisioning.Target{}, fmt.Errorf("failed to read identity file: %w", err)
		}
		key = k
	}

	sshCfg := &ssh.Config{
		Host:           env.Host,
		Port:           env.Port,
		User:           env.User,
		PrivateKey:     key,
		UseAgent:       env.UseAgent,
		KnownHostsFile: expandHome(env.KnownHosts),
	}

	return sshCfg, provisioning.Target{
		Address: env.Host,
		Port:    env.Port,
		User:    env.User,
	}, nil
}

func (c *Connector) firstReadableKey(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, errors.New("vagrant reported no identity file")
	}
	var errs []error
	for _, p := range paths {
		key, err := c.read(expandHome(p))
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("no readable identity file: %w", errors.Join(errs...))
}

func (c *Connector) read(path string) ([]byte, error) {
	if c.readFile != nil {
		return c.readFile(path)
	}
	// #nosec G304
	return os.ReadFile(path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
