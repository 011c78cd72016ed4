package report

import (
	"time"
)

// Status is the outcome of one step.
type Status string

// Step statuses.
const (
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusNotRun  Status = "not-run"
)

// Step is the record of one task.
type Step struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Changed  int           `json:"changed"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Run is the record of one provisioning invocation.
type Run struct {
	ID          string    `json:"id"`
	Environment string    `json:"environment"`
	Host        string    `json:"host,omitempty"`
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
	Steps       []Step    `json:"steps"`
	Error       string    `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (r *Run) Succeeded() bool {
	return r.Error == ""
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.Finish.IsZero() {
		return 0
	}
	return r.Finish.Sub(r.Start)
}

// Changed is the number of resources modified across all steps.
func (r *Run) Changed() int {
	n := 0
	for _, s := range r.Steps {
		n += s.Changed
	}
	return n
}

// Count returns how many steps ended with status.
func (r *Run) Count(status Status) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}
