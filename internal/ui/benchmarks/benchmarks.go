// Package benchmarks provides timing estimates for provisioning tasks.
package benchmarks

import (
	"time"

	"github.com/imamik/devprov/internal/report"
)

// DefaultTimings are typical durations of each task on a fresh vagrant
// box (seconds). They are used when no earlier run is recorded.
var DefaultTimings = map[string]int{
	"rsync":                   20,
	"apt-get-update":          25,
	"debian-packages":         180,
	"python-packages":         120,
	"set-timezone":            5,
	"require-timezone":        2,
	"setup-shell-environment": 2,
	"setup-analysis":          2,
	"setup-certificates":      1,
	"setup-apache":            1,
	"setup-simplesamlphp":     5,
}

const (
	minScale = 0.6
	maxScale = 3.0
)

// Timings maps task names to expected durations.
type Timings map[string]time.Duration

// Defaults returns DefaultTimings as Timings.
func Defaults() Timings {
	t := make(Timings, len(DefaultTimings))
	for name, secs := range DefaultTimings {
		t[name] = time.Duration(secs) * time.Second
	}
	return t
}

// FromRuns starts from the defaults and overrides each task with its
// duration in the most recent run where it succeeded. runs are newest first.
func FromRuns(runs []*report.Run) Timings {
	t := Defaults()
	seen := make(map[string]bool)
	for _, run := range runs {
		for _, step := range run.Steps {
			if step.Status != report.StatusOK || seen[step.Name] {
				continue
			}
			seen[step.Name] = true
			t[step.Name] = step.Duration
		}
	}
	return t
}

// Observed is the actual duration of a finished task.
type Observed struct {
	Name     string
	Duration time.Duration
}

// EstimateRemaining calculates the time left in plan while plan[current]
// has been running for elapsed.
func (t Timings) EstimateRemaining(plan []string, current int, elapsed time.Duration, done []Observed) time.Duration {
	return t.EstimateRemainingWithScale(plan, current, elapsed, t.PerformanceScale(plan, current, elapsed, done))
}

// EstimateRemainingWithScale calculates ETA while applying a performance scale factor.
func (t Timings) EstimateRemainingWithScale(plan []string, current int, elapsed time.Duration, scale float64) time.Duration {
	if current < 0 || current >= len(plan) {
		return 0
	}

	var remaining time.Duration

	// For the current task: max(0, expected - elapsed)
	if expected, ok := t[plan[current]]; ok {
		expected = time.Duration(float64(expected) * scale)
		if expected > elapsed {
			remaining += expected - elapsed
		}
	}

	for _, name := range plan[current+1:] {
		if expected, ok := t[name]; ok {
			remaining += time.Duration(float64(expected) * scale)
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 3m, observed 4m30s => scale=1.5 (future ETAs are stretched by 50%).
func (t Timings) PerformanceScale(plan []string, current int, elapsed time.Duration, done []Observed) float64 {
	var expectedTotal time.Duration
	var actualTotal time.Duration

	for _, o := range done {
		expected, ok := t[o.Name]
		if !ok {
			continue
		}
		expectedTotal += expected
		actualTotal += o.Duration
	}

	// An overrunning current task is folded in immediately so the ETA adapts quickly.
	if current >= 0 && current < len(plan) && elapsed > 0 {
		if expected, ok := t[plan[current]]; ok && elapsed > expected {
			expectedTotal += expected
			actualTotal += elapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < minScale {
		return minScale
	}
	if scale > maxScale {
		return maxScale
	}
	return scale
}

// TotalEstimate returns the total expected time of plan.
func (t Timings) TotalEstimate(plan []string) time.Duration {
	var total time.Duration
	for _, name := range plan {
		total += t[name]
	}
	return total
}
