package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/devprov/internal/provisioning"
)

var testPlan = []string{"rsync", "apt-get-update", "setup-apache"}

func newTestModel() Model {
	m := NewProvisionModel("dev", "127.0.0.1:2222", testPlan, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestModelTaskLifecycle(t *testing.T) {
	m := send(newTestModel(),
		TaskMsg{Type: provisioning.EventTaskStarted, Task: "rsync"},
		TaskMsg{Type: provisioning.EventTaskSkipped, Task: "rsync", Message: "not a vagrant environment"},
		TaskMsg{Type: provisioning.EventTaskCompleted, Task: "rsync"},
		TaskMsg{Type: provisioning.EventTaskStarted, Task: "apt-get-update"},
	)

	if m.Tasks[0].State != TaskSkipped {
		t.Errorf("expected rsync to stay skipped, got %v", m.Tasks[0].State)
	}
	if m.Tasks[0].Note != "not a vagrant environment" {
		t.Errorf("unexpected note %q", m.Tasks[0].Note)
	}
	if m.Tasks[1].State != TaskActive {
		t.Error("expected apt-get-update to be active")
	}
	if m.Completed() != 1 {
		t.Errorf("expected 1 completed, got %d", m.Completed())
	}
	if m.EstimatedRemaining <= 0 {
		t.Error("expected an ETA while a task is active")
	}

	m = send(m,
		TaskMsg{Type: provisioning.EventResourceChanged, Task: "apt-get-update", Message: "package index changed", Resource: "/var/lib/apt"},
		TaskMsg{Type: provisioning.EventTaskCompleted, Task: "apt-get-update", Duration: 3 * time.Second},
	)
	if m.Tasks[1].State != TaskDone || m.Tasks[1].Changed != 1 {
		t.Errorf("unexpected row %+v", m.Tasks[1])
	}
	if m.Tasks[1].Note != "package index changed /var/lib/apt" {
		t.Errorf("unexpected note %q", m.Tasks[1].Note)
	}
}

func TestModelTaskFailure(t *testing.T) {
	boom := errors.New("exit status 1")
	m := send(newTestModel(),
		TaskMsg{Type: provisioning.EventTaskStarted, Task: "rsync"},
		TaskMsg{Type: provisioning.EventTaskFailed, Task: "rsync", Err: boom, Duration: time.Second},
	)

	if m.Tasks[0].State != TaskFailed || m.Tasks[0].Err != boom {
		t.Errorf("unexpected row %+v", m.Tasks[0])
	}

	next, cmd := m.Update(ErrMsg{Err: boom})
	m = next.(Model)
	if m.Err != boom {
		t.Error("expected error to be stored")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !strings.Contains(m.View(), "Error: exit status 1") {
		t.Error("expected error in header")
	}
}

func TestModelUnplannedTask(t *testing.T) {
	m := send(newTestModel(), TaskMsg{Type: provisioning.EventTaskStarted, Task: "set-timezone"})
	if len(m.Tasks) != 4 || m.Tasks[3].Name != "set-timezone" {
		t.Errorf("expected unplanned task to be appended, got %+v", m.Tasks)
	}
}

func TestModelLogsAreBounded(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxLogLines+4; i++ {
		m = send(m, LogMsg{Line: strings.Repeat("x", i)})
	}
	if len(m.Logs) != maxLogLines {
		t.Fatalf("expected %d log lines, got %d", maxLogLines, len(m.Logs))
	}
	if m.Logs[maxLogLines-1] != strings.Repeat("x", maxLogLines+3) {
		t.Error("expected newest line last")
	}
}

func TestModelQuit(t *testing.T) {
	next, cmd := newTestModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m := next.(Model)
	if !m.Aborted {
		t.Error("expected quit before completion to mark the run aborted")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}

	done := send(newTestModel(), DoneMsg{})
	next, _ = done.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if next.(Model).Aborted {
		t.Error("quitting after completion is not an abort")
	}
}

func TestCalculateProgress(t *testing.T) {
	m := newTestModel()
	if p := calculateProgress(m); p != 0 {
		t.Errorf("expected 0, got %v", p)
	}

	m.Tasks[0].State = TaskDone
	if p := calculateProgress(m); p < 0.33 || p > 0.34 {
		t.Errorf("expected ~1/3, got %v", p)
	}

	m.Done = true
	if p := calculateProgress(m); p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestRenderView(t *testing.T) {
	m := send(newTestModel(),
		TaskMsg{Type: provisioning.EventTaskStarted, Task: "rsync"},
		TaskMsg{Type: provisioning.EventTaskCompleted, Task: "rsync", Duration: 2 * time.Second},
		LogMsg{Line: "==> default: Rsyncing folder"},
	)

	view := m.View()
	for _, want := range []string{"devprov: dev", "127.0.0.1:2222", "Tasks", "rsync", "setup-apache", "1/3", "Rsyncing folder", "q: quit", checkMark, pending} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestTaskIcon(t *testing.T) {
	tests := []struct {
		state TaskState
		want  string
	}{
		{TaskDone, checkMark},
		{TaskFailed, crossMark},
		{TaskSkipped, skipMark},
		{TaskPending, pending},
	}
	for _, tt := range tests {
		icon, _ := taskIcon(tt.state, 0)
		if icon != tt.want {
			t.Errorf("taskIcon(%v) = %q, want %q", tt.state, icon, tt.want)
		}
	}
	if icon, _ := taskIcon(TaskActive, 2); icon != spinnerFrames[2] {
		t.Errorf("expected spinner frame, got %q", icon)
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestObserver(t *testing.T) {
	sender := &recordingSender{}
	obs := NewObserver(sender).WithFields(map[string]string{"env": "dev"})

	obs.Printf("line one\nline two\n")
	provisioning.LogTaskStart(obs, "rsync")
	provisioning.LogResource(obs, "rsync", "file", "/etc/timezone", false)
	obs.Progress("rsync", 1, 3)
	provisioning.LogTaskComplete(obs, "rsync", time.Second)

	if len(sender.msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d: %+v", len(sender.msgs), sender.msgs)
	}
	if msg, ok := sender.msgs[1].(LogMsg); !ok || msg.Line != "line two" {
		t.Errorf("unexpected message %+v", sender.msgs[1])
	}
	if msg, ok := sender.msgs[3].(TaskMsg); !ok || msg.Type != provisioning.EventTaskCompleted || msg.Duration != time.Second {
		t.Errorf("unexpected message %+v", sender.msgs[3])
	}
}
