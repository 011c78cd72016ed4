// Package orchestration turns command-line task invocations into an
// ordered task list and runs it against one environment.
//
// # Workflow
//
// The default task expands to the following steps, in order:
//  1. rsync - `vagrant provision` to sync the project (vagrant only, optional)
//  2. apt-get-update - refresh the package index when stale
//  3. debian-packages, python-packages - install requirements
//  4. require-timezone - set the timezone only if it differs
//  5. setup-shell-environment, setup-analysis - drop templated files
//  6. setup-certificates, setup-apache, setup-simplesamlphp - web stack
//
// # Usage
//
//	invocations, err := orchestration.ParseInvocations(args)
//	tasks, err := orchestration.Plan(cfg, invocations, orchestration.PlanOptions{})
//	runner := orchestration.NewRunner(cfg, "dev", connector)
//	err = runner.Run(ctx, tasks, observer)
//
// Every task is idempotent, so a plan can be run any number of times.
package orchestration
