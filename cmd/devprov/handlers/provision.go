package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/orchestration"
	"github.com/imamik/devprov/internal/platform/vagrant"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/report"
	"github.com/imamik/devprov/internal/ui/benchmarks"
	"github.com/imamik/devprov/internal/ui/tui"
	"github.com/imamik/devprov/internal/util/prerequisites"
)

// ProvisionOptions carries the provision command's flags and arguments.
type ProvisionOptions struct {
	ConfigPath  string
	Environment string

	// Tasks are raw task invocations such as "apt-get-update:max_age=60".
	Tasks []string

	NoRsync bool
	Plain   bool
	Verbose bool
}

// Factory function variables for provision - can be replaced in tests.
var (
	// checkPrereqs checks local tools.
	checkPrereqs = prerequisites.Check

	// newVagrantClient creates the vagrant CLI wrapper for a project.
	newVagrantClient = func(dir string) *vagrant.Client {
		return vagrant.NewClient(dir, nil)
	}

	// runPipeline connects and runs the planned tasks.
	runPipeline = func(ctx context.Context, runner *orchestration.Runner, tasks []provisioning.Task, obs provisioning.Observer) error {
		return runner.Run(ctx, tasks, obs)
	}

	// runTUI runs the pipeline behind the interactive progress view.
	runTUI = tui.RunProvisionTUI

	// isInteractive reports whether stdout is a terminal.
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// Provision runs provisioning tasks against the selected environment.
//
// The workflow:
//  1. Loads the configuration and selects the environment (--env or DEVPROV_ENV)
//  2. Expands the task invocations into a plan (the default list when empty)
//  3. Checks the local tools the environment needs
//  4. Connects over SSH and runs the plan, stopping at the first failure
//  5. Stores the run report, writes metrics and archives it when configured
//
// The report is written whether or not the run succeeded. Report
// persistence failures are logged and do not change the outcome.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	envName, env, err := resolveEnvironment(cfg, opts.Environment)
	if err != nil {
		return err
	}

	invocations, err := orchestration.ParseInvocations(opts.Tasks)
	if err != nil {
		return err
	}
	tasks, err := orchestration.Plan(cfg, invocations, orchestration.PlanOptions{NoRsync: opts.NoRsync})
	if err != nil {
		return err
	}

	if err := checkPrereqs(ctx, prerequisites.ForEnvironment(env.Vagrant)).Error(); err != nil {
		return err
	}

	timeouts := config.LoadTimeouts()
	vc := newVagrantClient(cfg.ProjectRoot)
	connector := orchestration.NewConnector(vc, timeouts)

	var syncer provisioning.Syncer
	if env.Vagrant {
		syncer = vc
	}
	runner := orchestration.NewRunner(cfg, envName, connector, syncer)
	runner.Verbose = opts.Verbose

	planned := taskNames(tasks)
	target := describeTarget(env)
	store := reportStore(cfg)

	var recorder *report.Recorder
	run := func(ctx context.Context, obs provisioning.Observer) error {
		recorder = report.NewRecorder(obs, envName, target, planned)
		connector.OnRetry = func(attempt int, delay time.Duration, err error) {
			recorder.Printf("SSH connection attempt %d failed, retrying in %s: %v", attempt, delay, err)
		}
		return runPipeline(ctx, runner, tasks, recorder)
	}

	var runErr error
	if opts.Plain || !isInteractive() {
		runErr = run(ctx, provisioning.NewConsoleObserver())
	} else {
		model := tui.NewProvisionModel(envName, target, planned, loadTimings(store))
		runErr = runTUI(ctx, model, run)
	}

	if recorder == nil {
		return runErr
	}
	result := recorder.Finish(runErr)
	persistRun(context.WithoutCancel(ctx), cfg, store, result)
	fmt.Print(renderRunSummary(result))

	return runErr
}

func taskNames(tasks []provisioning.Task) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name()
	}
	return names
}

// loadTimings seeds ETA estimates from stored runs.
func loadTimings(store *report.Store) benchmarks.Timings {
	if store == nil {
		return benchmarks.Defaults()
	}
	runs, err := store.List(20)
	if err != nil {
		log.Printf("Warning: ignoring run history: %v", err)
		return benchmarks.Defaults()
	}
	return benchmarks.FromRuns(runs)
}
