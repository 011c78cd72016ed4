package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/platform/ssh"
	"github.com/imamik/devprov/internal/platform/vagrant"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
	"github.com/imamik/devprov/internal/util/netutil"
)

// waitForPort is swapped in tests.
var waitForPort = netutil.WaitForPort

// Diagnosis is what Diagnose learned about a target.
type Diagnosis struct {
	Target provisioning.Target

	// MachineState is the vagrant machine state, empty for plain SSH targets.
	MachineState string

	OS           string
	Kernel       string
	HasApt       bool
	Timezone     string
	WantTimezone string
}

// TimezoneMatches reports whether the target already has the configured timezone.
func (d *Diagnosis) TimezoneMatches() bool {
	return d.Timezone == d.WantTimezone
}

// Diagnose connects to the environment and inspects the target without
// changing anything. Vagrant machines must be running. The SSH port is
// checked first so an unreachable host is reported as such rather than as a
// handshake failure.
func Diagnose(ctx context.Context, cfg *config.Config, envName string, connector *Connector) (*Diagnosis, error) {
	state, err := machineState(ctx, cfg, envName, connector)
	if err != nil {
		return nil, err
	}

	sshCfg, target, err := connector.Resolve(ctx, cfg, envName)
	if err != nil {
		return nil, err
	}

	portTimeout := config.LoadTimeouts().SSHDial
	if connector.Timeouts != nil {
		portTimeout = connector.Timeouts.SSHDial
	}
	if err := waitForPort(ctx, target.Address, target.Port, portTimeout); err != nil {
		return nil, fmt.Errorf("SSH port of %s is not reachable: %w", envName, err)
	}

	client, err := ssh.NewClient(sshCfg)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", envName, err)
	}
	defer func() {
		_ = client.Close()
	}()

	d, err := inspect(ctx, remote.NewHost(client, nil), target, cfg.Timezone)
	if err != nil {
		return nil, err
	}
	d.MachineState = state
	return d, nil
}

// machineState returns the state of a vagrant environment's machine and
// fails with a `vagrant up` hint unless it is running. Plain SSH
// environments yield "".
func machineState(ctx context.Context, cfg *config.Config, envName string, connector *Connector) (string, error) {
	env, err := cfg.Environment(envName)
	if err != nil {
		return "", err
	}
	if !env.Vagrant || connector.Vagrant == nil {
		return "", nil
	}

	state, err := connector.Vagrant.Status(ctx, env.Machine)
	if err != nil {
		return "", fmt.Errorf("environment %s: %w", envName, err)
	}
	if state != vagrant.StateRunning {
		return state, fmt.Errorf("environment %s: %w: %s is %s (run `vagrant up %s`)",
			envName, vagrant.ErrMachineNotRunning, env.Machine, state, env.Machine)
	}
	return state, nil
}

func inspect(ctx context.Context, host *remote.Host, target provisioning.Target, wantTZ string) (*Diagnosis, error) {
	d := &Diagnosis{Target: target, WantTimezone: wantTZ}

	kernel, err := host.MustRun(ctx, "uname -sr")
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", target.Address, err)
	}
	d.Kernel = strings.TrimSpace(kernel.Output)

	osRelease, err := host.Run(ctx, ". /etc/os-release && echo \"$PRETTY_NAME\"")
	if err != nil {
		return nil, err
	}
	if osRelease.OK() {
		d.OS = strings.TrimSpace(osRelease.Output)
	}

	d.HasApt, err = host.HasCommand(ctx, "apt-get")
	if err != nil {
		return nil, err
	}

	tz, err := host.Run(ctx, "cat "+remote.Quote("/etc/timezone"))
	if err != nil {
		return nil, err
	}
	if tz.OK() {
		d.Timezone = strings.TrimSpace(tz.Output)
	}

	return d, nil
}
