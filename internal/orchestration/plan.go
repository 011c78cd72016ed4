package orchestration

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/provisioning"
)

// ErrUnknownTask is returned for task names that are not registered.
var ErrUnknownTask = errors.New("unknown task")

// PlanOptions adjusts plan construction.
type PlanOptions struct {
	// NoRsync sets do_rsync=no on default invocations that do not set it.
	NoRsync bool
}

// Plan expands invocations into the flat, ordered list of tasks to run.
// No invocations means the default task.
func Plan(cfg *config.Config, invocations []Invocation, opts PlanOptions) ([]provisioning.Task, error) {
	if len(invocations) == 0 {
		invocations = []Invocation{{Name: DefaultTaskName}}
	}

	var tasks []provisioning.Task
	for _, inv := range invocations {
		spec, ok := Lookup(inv.Name)
		if !ok {
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTask, inv.Name, strings.Join(TaskNames(), ", "))
		}

		if spec.Name == DefaultTaskName && opts.NoRsync {
			if _, set := inv.Kwargs["do_rsync"]; !set && len(inv.Args) == 0 {
				kwargs := maps.Clone(inv.Kwargs)
				if kwargs == nil {
					kwargs = make(map[string]string, 1)
				}
				kwargs["do_rsync"] = "no"
				inv.Kwargs = kwargs
			}
		}

		args, err := bindArgs(spec, inv)
		if err != nil {
			return nil, err
		}

		built, err := spec.build(cfg, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		tasks = append(tasks, built...)
	}

	return tasks, nil
}

// bindArgs maps positional and keyword arguments onto the task's declared params.
func bindArgs(spec TaskSpec, inv Invocation) (map[string]string, error) {
	if len(inv.Args) > len(spec.Params) {
		return nil, fmt.Errorf("%s takes at most %d argument(s), got %d (usage: %s)",
			spec.Name, len(spec.Params), len(inv.Args), spec.Usage())
	}

	args := make(map[string]string, len(spec.Params))
	for i, v := range inv.Args {
		args[spec.Params[i]] = v
	}

	for k, v := range inv.Kwargs {
		if !slices.Contains(spec.Params, k) {
			return nil, fmt.Errorf("%s does not accept argument %q (usage: %s)", spec.Name, k, spec.Usage())
		}
		if _, dup := args[k]; dup {
			return nil, fmt.Errorf("%s got multiple values for %q", spec.Name, k)
		}
		args[k] = v
	}

	for _, p := range spec.Params[:spec.Required] {
		if _, ok := args[p]; !ok {
			return nil, fmt.Errorf("%s requires argument %q (usage: %s)", spec.Name, p, spec.Usage())
		}
	}

	return args, nil
}
