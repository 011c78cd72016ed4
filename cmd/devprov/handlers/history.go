package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/report"
)

// ErrHistoryDisabled is returned when the configuration turns the run store off.
var ErrHistoryDisabled = errors.New("run history is disabled (report.dir is \"-\")")

// History lists stored runs, newest first. With an environment only its
// runs are listed. With jsonOutput the newest matching run is printed as JSON.
func History(configPath, environment string, limit int, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store := reportStore(cfg)
	if store == nil {
		return ErrHistoryDisabled
	}

	if environment == "" {
		environment = lookupEnv(config.EnvVarEnvironment)
	}

	// Filter before limiting so -n counts matching runs.
	all, err := store.List(0)
	if err != nil {
		return err
	}
	runs := filterRuns(all, environment, limit)

	if jsonOutput {
		if len(runs) == 0 {
			return fmt.Errorf("no runs recorded in %s", store.Dir)
		}
		data, err := report.Marshal(runs[0])
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	fmt.Print(renderHistory(runs, store.Dir))
	return nil
}

func filterRuns(runs []*report.Run, environment string, limit int) []*report.Run {
	var out []*report.Run
	for _, run := range runs {
		if environment != "" && run.Environment != environment {
			continue
		}
		out = append(out, run)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func renderHistory(runs []*report.Run, dir string) string {
	var b strings.Builder

	renderTitle(&b, "devprov history")

	if len(runs) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  No runs recorded in " + dir))
		b.WriteString("\n\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("    %-20s  %-12s  %-9s  %5s  %7s  %s", "STARTED", "ENVIRONMENT", "DURATION", "TASKS", "CHANGED", "RESULT")))
	b.WriteString("\n")

	for _, run := range runs {
		done := run.Count(report.StatusOK) + run.Count(report.StatusSkipped)
		result := okStyle.Render("ok")
		if !run.Succeeded() {
			result = failStyle.Render("failed: " + failedStep(run))
		}
		fmt.Fprintf(&b, "    %-20s  %-12s  %-9s  %2d/%-2d  %7d  %s\n",
			run.Start.Local().Format("2006-01-02 15:04:05"),
			run.Environment,
			formatDuration(run.Duration()),
			done, len(run.Steps),
			run.Changed(),
			result,
		)
	}
	b.WriteString("\n")

	return b.String()
}

// failedStep names the step a failed run stopped at.
func failedStep(run *report.Run) string {
	for _, step := range run.Steps {
		if step.Status == report.StatusFailed {
			return step.Name
		}
	}
	return "interrupted"
}
