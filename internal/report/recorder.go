package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/devprov/internal/provisioning"
)

// Recorder is an Observer that records task outcomes into a Run and
// forwards everything to the next observer.
type Recorder struct {
	next  provisioning.Observer
	state *recording
}

type recording struct {
	mu  sync.Mutex
	run Run
	now func() time.Time
}

// NewRecorder starts recording a run. planned lists the task names in
// order; steps that never start are reported as not run.
func NewRecorder(next provisioning.Observer, environment, host string, planned []string) *Recorder {
	st := &recording{now: time.Now}
	st.run = Run{
		ID:          uuid.NewString(),
		Environment: environment,
		Host:        host,
		Start:       st.now().UTC(),
	}
	for _, name := range planned {
		st.run.Steps = append(st.run.Steps, Step{Name: name, Status: StatusNotRun})
	}
	return &Recorder{next: next, state: st}
}

// Printf implements provisioning.Logger.
func (r *Recorder) Printf(format string, v ...interface{}) {
	r.next.Printf(format, v...)
}

// Progress implements provisioning.Observer.
func (r *Recorder) Progress(task string, current, total int) {
	r.next.Progress(task, current, total)
}

// WithFields implements provisioning.Observer. The derived observer
// records into the same run.
func (r *Recorder) WithFields(fields map[string]string) provisioning.Observer {
	return &Recorder{next: r.next.WithFields(fields), state: r.state}
}

// Event implements provisioning.Observer.
func (r *Recorder) Event(event provisioning.Event) {
	r.state.record(event)
	r.next.Event(event)
}

// Finish closes the run with err and returns a copy of it.
func (r *Recorder) Finish(err error) *Run {
	st := r.state
	st.mu.Lock()
	defer st.mu.Unlock()

	st.run.Finish = st.now().UTC()
	if err != nil {
		st.run.Error = err.Error()
	}

	run := st.run
	run.Steps = append([]Step(nil), st.run.Steps...)
	return &run
}

func (st *recording) record(event provisioning.Event) {
	if event.Task == "" {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	switch event.Type {
	case provisioning.EventTaskStarted:
		step := st.step(event.Task)
		step.Status = StatusRunning
		step.Started = event.Timestamp
		if step.Started.IsZero() {
			step.Started = st.now().UTC()
		}
	case provisioning.EventTaskCompleted:
		step := st.current(event.Task)
		if step.Status != StatusSkipped {
			step.Status = StatusOK
		}
		step.Duration = event.Duration
	case provisioning.EventTaskFailed:
		step := st.current(event.Task)
		step.Status = StatusFailed
		step.Duration = event.Duration
		if event.Err != nil {
			step.Error = event.Err.Error()
		}
	case provisioning.EventTaskSkipped:
		step := st.current(event.Task)
		step.Status = StatusSkipped
		step.Message = event.Message
	case provisioning.EventResourceChanged:
		st.current(event.Task).Changed++
	}
}

// step returns the first not-yet-run step named task, appending one if the
// task was not planned.
func (st *recording) step(task string) *Step {
	for i := range st.run.Steps {
		if st.run.Steps[i].Name == task && st.run.Steps[i].Status == StatusNotRun {
			return &st.run.Steps[i]
		}
	}
	st.run.Steps = append(st.run.Steps, Step{Name: task, Status: StatusNotRun})
	return &st.run.Steps[len(st.run.Steps)-1]
}

// current returns the most recently started step named task.
func (st *recording) current(task string) *Step {
	for i := len(st.run.Steps) - 1; i >= 0; i-- {
		s := &st.run.Steps[i]
		if s.Name == task && s.Status != StatusNotRun {
			return s
		}
	}
	return st.step(task)
}
