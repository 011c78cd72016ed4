package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/imamik/devprov/internal/platform/ssh"
)

// Response is a scripted command outcome.
type Response struct {
	Output   string
	ExitCode int
	Err      error
}

type rule struct {
	substr string
	resp   Response
	times  int // remaining uses, 0 means unlimited
}

// FakeExecutor records every command and answers from scripted rules.
// The first rule whose substring occurs in the command wins; unmatched
// commands get Default (exit 0, no output).
type FakeExecutor struct {
	mu       sync.Mutex
	commands []string
	rules    []*rule

	Default Response
}

// NewFakeExecutor returns an executor where every command succeeds.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On answers commands containing substr with resp.
func (f *FakeExecutor) On(substr string, resp Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &rule{substr: substr, resp: resp})
	return f
}

// Once answers the next command containing substr with resp, then falls
// through to later rules.
func (f *FakeExecutor) Once(substr string, resp Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &rule{substr: substr, resp: resp, times: 1})
	return f
}

// Run implements remote.Executor.
func (f *FakeExecutor) Run(ctx context.Context, command string) (*ssh.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, command)

	resp := f.Default
	for i, r := range f.rules {
		if !strings.Contains(command, r.substr) {
			continue
		}
		resp = r.resp
		if r.times > 0 {
			r.times--
			if r.times == 0 {
				f.rules = append(f.rules[:i], f.rules[i+1:]...)
			}
		}
		break
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ssh.Result{Command: command, Output: resp.Output, ExitCode: resp.ExitCode}, nil
}

// Executed returns the commands run so far, in order.
func (f *FakeExecutor) Executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

// Index returns the position of the first command containing substr, or -1.
func (f *FakeExecutor) Index(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cmd := range f.commands {
		if strings.Contains(cmd, substr) {
			return i
		}
	}
	return -1
}

// Count returns how many commands contain substr.
func (f *FakeExecutor) Count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, cmd := range f.commands {
		if strings.Contains(cmd, substr) {
			n++
		}
	}
	return n
}

// Reset forgets recorded commands but keeps the rules.
func (f *FakeExecutor) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = nil
}
