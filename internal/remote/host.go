package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/devprov/internal/platform/ssh"
)

// ErrUnsupportedHost is returned when the target lacks the tooling a
// primitive depends on (for example apt-get on a non-Debian system).
var ErrUnsupportedHost = errors.New("unsupported host")

// exitCommandNotFound is the shell's exit status for a missing binary.
const exitCommandNotFound = 127

// Executor runs a shell command on the target host.
type Executor interface {
	Run(ctx context.Context, command string) (*ssh.Result, error)
}

// Logger receives a line per executed command.
type Logger interface {
	Printf(format string, v ...interface{})
}

// CommandError reports a command that exited with a non-zero status.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("command %q exited with status %d: %s", e.Command, e.ExitCode, out)
}

// Host runs primitives against one target.
type Host struct {
	exec Executor
	log  Logger

	// CommandTimeout bounds every single command. Zero disables the bound.
	CommandTimeout time.Duration
}

// NewHost returns a Host that executes through exec. log may be nil.
func NewHost(exec Executor, log Logger) *Host {
	return &Host{exec: exec, log: log}
}

// Run executes a command and returns its result whatever the exit status.
func (h *Host) Run(ctx context.Context, command string) (*ssh.Result, error) {
	if h.log != nil {
		h.log.Printf("run: %s", command)
	}

	if h.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.CommandTimeout)
		defer cancel()
	}

	result, err := h.exec.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MustRun executes a command and fails on a non-zero exit status.
func (h *Host) MustRun(ctx context.Context, command string) (*ssh.Result, error) {
	result, err := h.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return result, &CommandError{Command: command, ExitCode: result.ExitCode, Output: result.Output}
	}
	return result, nil
}

// Sudo executes a command as root and returns its result whatever the exit status.
func (h *Host) Sudo(ctx context.Context, command string) (*ssh.Result, error) {
	return h.Run(ctx, SudoCommand(command))
}

// MustSudo executes a command as root and fails on a non-zero exit status.
func (h *Host) MustSudo(ctx context.Context, command string) (*ssh.Result, error) {
	return h.MustRun(ctx, SudoCommand(command))
}

// run dispatches to Run or Sudo.
func (h *Host) run(ctx context.Context, command string, useSudo bool) (*ssh.Result, error) {
	if useSudo {
		return h.Sudo(ctx, command)
	}
	return h.Run(ctx, command)
}

// mustRun dispatches to MustRun or MustSudo.
func (h *Host) mustRun(ctx context.Context, command string, useSudo bool) (*ssh.Result, error) {
	if useSudo {
		return h.MustSudo(ctx, command)
	}
	return h.MustRun(ctx, command)
}

// test runs a predicate command: exit 0 is true, exit 1 is false, anything
// else is an error.
func (h *Host) test(ctx context.Context, command string, useSudo bool) (bool, error) {
	result, err := h.run(ctx, command, useSudo)
	if err != nil {
		return false, err
	}
	switch result.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, &CommandError{Command: command, ExitCode: result.ExitCode, Output: result.Output}
	}
}
