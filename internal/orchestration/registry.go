package orchestration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/provisioning/packages"
	"github.com/imamik/devprov/internal/provisioning/sync"
	"github.com/imamik/devprov/internal/provisioning/system"
	"github.com/imamik/devprov/internal/provisioning/web"
)

// DefaultTaskName runs when no task is given.
const DefaultTaskName = "default"

// TaskSpec describes a task that can be invoked from the command line.
type TaskSpec struct {
	Name        string
	Description string

	// Params names the accepted arguments, positional ones in order.
	Params []string

	// Required is the number of leading Params that must be given.
	Required int

	build func(cfg *config.Config, args map[string]string) ([]provisioning.Task, error)
}

// Usage returns the invocation syntax, e.g. "require-timezone:timezone".
func (s TaskSpec) Usage() string {
	if len(s.Params) == 0 {
		return s.Name
	}
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		if i < s.Required {
			params[i] = p
		} else {
			params[i] = "[" + p + "=...]"
		}
	}
	return s.Name + ":" + strings.Join(params, ",")
}

// Alias returns the underscore spelling of the task name.
func (s TaskSpec) Alias() string {
	return strings.ReplaceAll(s.Name, "-", "_")
}

var registry = []TaskSpec{
	{
		Name:        DefaultTaskName,
		Description: "run all provisioning tasks",
		Params:      []string{"do_rsync"},
		build:       buildDefault,
	},
	{
		Name:        packages.AptGetUpdateName,
		Description: "refresh the package index if it is older than max_age",
		Params:      []string{"max_age"},
		build: func(cfg *config.Config, args map[string]string) ([]provisioning.Task, error) {
			maxAge := time.Duration(cfg.Apt.MaxAge)
			if v, ok := args["max_age"]; ok {
				d, err := config.ParseDuration(v)
				if err != nil {
					return nil, err
				}
				maxAge = d
			}
			return []provisioning.Task{packages.NewAptGetUpdate(maxAge)}, nil
		},
	},
	{
		Name:        "packages",
		Description: "install all packages",
		build: func(*config.Config, map[string]string) ([]provisioning.Task, error) {
			return packageTasks(), nil
		},
	},
	{
		Name:        packages.DebianPackagesName,
		Description: "install debian packages",
		build:       single(func(*config.Config) provisioning.Task { return packages.NewDebianPackages() }),
	},
	{
		Name:        packages.PythonPackagesName,
		Description: "install python packages",
		build:       single(func(*config.Config) provisioning.Task { return packages.NewPythonPackages() }),
	},
	{
		Name:        system.SetTimezoneName,
		Description: "write the timezone, reconfigure tzdata and restart cron",
		Params:      []string{"timezone"},
		Required:    1,
		build: func(_ *config.Config, args map[string]string) ([]provisioning.Task, error) {
			return []provisioning.Task{system.NewSetTimezone(args["timezone"])}, nil
		},
	},
	{
		Name:        system.RequireTimezoneName,
		Description: "set the timezone only if it differs",
		Params:      []string{"timezone"},
		build: func(cfg *config.Config, args map[string]string) ([]provisioning.Task, error) {
			tz, ok := args["timezone"]
			if !ok {
				tz = cfg.Timezone
			}
			return []provisioning.Task{system.NewRequireTimezone(tz)}, nil
		},
	},
	{
		Name:        system.ShellEnvironmentName,
		Description: "setup the shell environment on the remote machine",
		build:       single(func(*config.Config) provisioning.Task { return system.NewShellEnvironment() }),
	},
	{
		Name:        system.AnalysisName,
		Description: "prepare analysis environment",
		build:       single(func(*config.Config) provisioning.Task { return system.NewAnalysis() }),
	},
	{
		Name:        web.CertificatesName,
		Description: "install TLS certificates",
		build:       single(func(*config.Config) provisioning.Task { return web.NewCertificates() }),
	},
	{
		Name:        web.ApacheName,
		Description: "install the apache configuration",
		build:       single(func(*config.Config) provisioning.Task { return web.NewApache() }),
	},
	{
		Name:        web.SimpleSAMLphpName,
		Description: "configure simplesamlphp and start or restart apache",
		build:       single(func(*config.Config) provisioning.Task { return web.NewSimpleSAMLphp() }),
	},
}

// Tasks returns every invocable task, default first and the rest sorted.
func Tasks() []TaskSpec {
	specs := append([]TaskSpec(nil), registry...)
	rest := specs[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Name < rest[j].Name
	})
	return specs
}

// Lookup finds a task by its name or underscore alias.
func Lookup(name string) (TaskSpec, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(name), "_", "-")
	for _, spec := range registry {
		if spec.Name == normalized {
			return spec, true
		}
	}
	return TaskSpec{}, false
}

// TaskNames returns the names of all tasks.
func TaskNames() []string {
	specs := Tasks()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func buildDefault(cfg *config.Config, args map[string]string) ([]provisioning.Task, error) {
	doRsync := true
	if v, ok := args["do_rsync"]; ok {
		b, err := ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("do_rsync: %w", err)
		}
		doRsync = b
	}

	var tasks []provisioning.Task
	if doRsync {
		tasks = append(tasks, sync.NewRsync())
	}
	tasks = append(tasks, packages.NewAptGetUpdate(time.Duration(cfg.Apt.MaxAge)))
	tasks = append(tasks, packageTasks()...)
	tasks = append(tasks,
		system.NewRequireTimezone(cfg.Timezone),
		system.NewShellEnvironment(),
		system.NewAnalysis(),
		web.NewCertificates(),
		web.NewApache(),
		web.NewSimpleSAMLphp(),
	)
	return tasks, nil
}

// packageTasks installs Debian packages first so Python packages that
// compile extensions find their build dependencies.
func packageTasks() []provisioning.Task {
	return []provisioning.Task{
		packages.NewDebianPackages(),
		packages.NewPythonPackages(),
	}
}

func single(fn func(*config.Config) provisioning.Task) func(*config.Config, map[string]string) ([]provisioning.Task, error) {
	return func(cfg *config.Config, _ map[string]string) ([]provisioning.Task, error) {
		return []provisioning.Task{fn(cfg)}, nil
	}
}
