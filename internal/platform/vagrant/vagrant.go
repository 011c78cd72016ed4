package vagrant

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// ErrMachineNotRunning is returned when ssh-config is requested for a
// machine that is not up.
var ErrMachineNotRunning = errors.New("vagrant machine is not running")

// StateRunning is the machine-readable state of a booted machine.
const StateRunning = "running"

// Runner executes a local command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	// #nosec G204 - name is the configured vagrant binary
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// Client wraps the vagrant CLI for one project directory.
type Client struct {
	runner Runner

	// Dir is the directory holding the Vagrantfile.
	Dir string

	// Binary defaults to "vagrant".
	Binary string
}

// NewClient returns a Client for the Vagrantfile in dir. runner may be nil.
func NewClient(dir string, runner Runner) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{runner: runner, Dir: dir, Binary: "vagrant"}
}

// SSHConfig holds the settings vagrant reports for a machine.
type SSHConfig struct {
	Host                  string
	HostName              string
	User                  string
	Port                  int
	IdentityFiles         []string
	UserKnownHostsFile    string
	StrictHostKeyChecking bool
}

// SSHConfig resolves the SSH settings of machine.
func (c *Client) SSHConfig(ctx context.Context, machine string) (*SSHConfig, error) {
	out, err := c.run(ctx, "ssh-config", machine)
	if err != nil {
		if bytes.Contains(out, []byte("not yet ready for SSH")) || bytes.Contains(out, []byte("must be running")) {
			return nil, fmt.Errorf("%w: %s (run `vagrant up %s`)", ErrMachineNotRunning, machine, machine)
		}
		return nil, fmt.Errorf("failed to read ssh-config for %s: %w: %s", machine, err, strings.TrimSpace(string(out)))
	}

	cfg, err := ParseSSHConfig(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh-config for %s: %w", machine, err)
	}
	return cfg, nil
}

// Provision runs `vagrant provision machine`.
func (c *Client) Provision(ctx context.Context, machine string) ([]byte, error) {
	out, err := c.run(ctx, "provision", machine)
	if err != nil {
		return out, fmt.Errorf("vagrant provision %s failed: %w", machine, err)
	}
	return out, nil
}

// Status returns the machine state, for example "running" or "poweroff".
func (c *Client) Status(ctx context.Context, machine string) (string, error) {
	out, err := c.run(ctx, "status", machine, "--machine-readable")
	if err != nil {
		return "", fmt.Errorf("failed to read status of %s: %w", machine, err)
	}
	state := ParseState(out, machine)
	if state == "" {
		return "", fmt.Errorf("no state reported for %s", machine)
	}
	return state, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "vagrant"
	}
	return c.runner.Run(ctx, c.Dir, binary, args...)
}

// ParseSSHConfig reads the first Host block of `vagrant ssh-config` output.
func ParseSSHConfig(data []byte) (*SSHConfig, error) {
	decoded, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	alias := firstAlias(decoded)
	get := func(key string) (string, error) {
		v, err := decoded.Get(alias, key)
		return unquote(strings.TrimSpace(v)), err
	}

	cfg := &SSHConfig{Host: alias, Port: 22, StrictHostKeyChecking: true}
	if cfg.HostName, err = get("HostName"); err != nil {
		return nil, err
	}
	if cfg.User, err = get("User"); err != nil {
		return nil, err
	}
	if cfg.UserKnownHostsFile, err = get("UserKnownHostsFile"); err != nil {
		return nil, err
	}

	port, err := get("Port")
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}
	if port != "" {
		if cfg.Port, err = strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("invalid port %q", port)
		}
	}

	strict, err := get("StrictHostKeyChecking")
	if err != nil {
		return nil, err
	}
	cfg.StrictHostKeyChecking = !strings.EqualFold(strict, "no")

	files, err := decoded.GetAll(alias, "IdentityFile")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		cfg.IdentityFiles = append(cfg.IdentityFiles, unquote(strings.TrimSpace(f)))
	}

	if cfg.HostName == "" {
		return nil, fmt.Errorf("missing HostName")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("missing User")
	}
	return cfg, nil
}

// firstAlias returns the first explicit Host pattern. Settings outside any
// Host block belong to the implicit "*" block and apply to every alias.
func firstAlias(cfg *ssh_config.Config) string {
	for _, host := range cfg.Hosts {
		for _, p := range host.Patterns {
			if s := p.String(); s != "*" {
				return s
			}
		}
	}
	return "*"
}

// ParseState extracts the state of machine from machine-readable status output.
func ParseState(data []byte, machine string) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) >= 4 && fields[1] == machine && fields[2] == "state" {
			return fields[3]
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
