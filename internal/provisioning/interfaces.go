package provisioning

import "context"

// Task defines the interface for a provisioning task.
type Task interface {
	// Name returns the command-line name of this task.
	Name() string

	// Provision executes the task against ctx.Host.
	Provision(ctx *Context) error
}

// Syncer pushes the local project into a vagrant machine.
// Implemented by internal/platform/vagrant.Client.
type Syncer interface {
	Provision(ctx context.Context, machine string) ([]byte, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx *Context) error
}

// Name implements Task.
func (t TaskFunc) Name() string { return t.TaskName }

// Provision implements Task.
func (t TaskFunc) Provision(ctx *Context) error { return t.Fn(ctx) }
