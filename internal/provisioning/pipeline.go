package provisioning

import (
	"fmt"
	"time"
)

// RunTasks executes tasks strictly in order and stops at the first error.
// Nothing is rolled back.
func RunTasks(ctx *Context, tasks []Task) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning of %s with %d tasks...", ctx.Environment, len(tasks))

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("provisioning interrupted before %s: %w", task.Name(), err)
		}
		if err := ctx.RequireEnvironment(); err != nil {
			return fmt.Errorf("%s task failed: %w", task.Name(), err)
		}

		ctx.Observer.Progress(task.Name(), i+1, len(tasks))
		LogTaskStart(ctx.Observer, task.Name())
		taskStart := time.Now()

		if err := task.Provision(ctx); err != nil {
			LogTaskFailed(ctx.Observer, task.Name(), time.Since(taskStart), err)
			return fmt.Errorf("%s task failed: %w", task.Name(), err)
		}

		LogTaskComplete(ctx.Observer, task.Name(), time.Since(taskStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
