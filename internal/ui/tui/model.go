package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/ui/benchmarks"
)

const maxLogLines = 6

// TaskState is the display state of one planned task.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskActive
	TaskDone
	TaskSkipped
	TaskFailed
)

// TaskRow represents a planned task for display.
type TaskRow struct {
	Name     string
	State    TaskState
	Started  time.Time
	Duration time.Duration
	Changed  int
	Note     string
	Err      error
}

// Model is the Bubble Tea model for a provisioning run.
type Model struct {
	Environment string
	Host        string

	Tasks []TaskRow
	Logs  []string

	// ETA
	Timings            benchmarks.Timings
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width   int
	Height  int
	Err     error
	Done    bool
	Aborted bool

	now func() time.Time
}

// NewProvisionModel creates a model for the planned task names.
func NewProvisionModel(environment, host string, plan []string, timings benchmarks.Timings) Model {
	if timings == nil {
		timings = benchmarks.Defaults()
	}
	rows := make([]TaskRow, len(plan))
	for i, name := range plan {
		rows[i] = TaskRow{Name: name}
	}
	return Model{
		Environment:      environment,
		Host:             host,
		Tasks:            rows,
		Timings:          timings,
		PerformanceScale: 1.0,
		StartTime:        time.Now(),
		now:              time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.Done && m.Err == nil {
				m.Aborted = true
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TaskMsg:
		m.updateTask(msg)
		m.updateETA()

	case LogMsg:
		m.Logs = append(m.Logs, msg.Line)
		if len(m.Logs) > maxLogLines {
			m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
		}

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.EstimatedRemaining = 0
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateTask(msg TaskMsg) {
	switch msg.Type {
	case provisioning.EventTaskStarted:
		row := m.nextPending(msg.Task)
		row.State = TaskActive
		row.Started = m.clock()
	case provisioning.EventTaskCompleted:
		row := m.active(msg.Task)
		if row.State != TaskSkipped {
			row.State = TaskDone
		}
		row.Duration = msg.Duration
	case provisioning.EventTaskFailed:
		row := m.active(msg.Task)
		row.State = TaskFailed
		row.Duration = msg.Duration
		row.Err = msg.Err
	case provisioning.EventTaskSkipped:
		row := m.active(msg.Task)
		row.State = TaskSkipped
		row.Note = msg.Message
	case provisioning.EventResourceChanged:
		row := m.active(msg.Task)
		row.Changed++
		row.Note = msg.Message
		if msg.Resource != "" {
			row.Note += " " + msg.Resource
		}
	}
}

// nextPending returns the first pending row named task, appending a row for
// tasks that were not planned.
func (m *Model) nextPending(task string) *TaskRow {
	for i := range m.Tasks {
		if m.Tasks[i].Name == task && m.Tasks[i].State == TaskPending {
			return &m.Tasks[i]
		}
	}
	m.Tasks = append(m.Tasks, TaskRow{Name: task})
	return &m.Tasks[len(m.Tasks)-1]
}

// active returns the most recently started row named task.
func (m *Model) active(task string) *TaskRow {
	for i := len(m.Tasks) - 1; i >= 0; i-- {
		if m.Tasks[i].Name == task && m.Tasks[i].State != TaskPending {
			return &m.Tasks[i]
		}
	}
	return m.nextPending(task)
}

func (m *Model) updateETA() {
	current := -1
	var done []benchmarks.Observed
	plan := make([]string, len(m.Tasks))
	for i, row := range m.Tasks {
		plan[i] = row.Name
		switch row.State {
		case TaskActive:
			if current < 0 {
				current = i
			}
		case TaskDone:
			done = append(done, benchmarks.Observed{Name: row.Name, Duration: row.Duration})
		}
	}
	if current < 0 {
		m.EstimatedRemaining = 0
		return
	}

	elapsed := m.clock().Sub(m.Tasks[current].Started)
	m.PerformanceScale = m.Timings.PerformanceScale(plan, current, elapsed, done)
	m.EstimatedRemaining = m.Timings.EstimateRemainingWithScale(plan, current, elapsed, m.PerformanceScale)
}

func (m *Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// Completed returns how many tasks have finished, in any final state.
func (m Model) Completed() int {
	n := 0
	for _, row := range m.Tasks {
		if row.State == TaskDone || row.State == TaskSkipped || row.State == TaskFailed {
			n++
		}
	}
	return n
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
