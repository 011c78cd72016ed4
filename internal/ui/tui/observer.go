package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/devprov/internal/provisioning"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards provisioning events to the TUI.
type Observer struct {
	sender Sender
}

// NewObserver returns an Observer sending to s.
func NewObserver(s Sender) *Observer {
	return &Observer{sender: s}
}

// Printf implements provisioning.Logger.
func (o *Observer) Printf(format string, v ...interface{}) {
	for _, line := range strings.Split(strings.TrimRight(fmt.Sprintf(format, v...), "\n"), "\n") {
		o.sender.Send(LogMsg{Line: line})
	}
}

// Event implements provisioning.Observer. Unchanged resources and
// progress events are not shown.
func (o *Observer) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventResourceUnchanged, provisioning.EventProgress:
		return
	}
	o.sender.Send(TaskMsg{
		Type:     event.Type,
		Task:     event.Task,
		Message:  event.Message,
		Resource: event.Resource,
		Duration: event.Duration,
		Err:      event.Err,
	})
}

// Progress implements provisioning.Observer. Task rows already show progress.
func (o *Observer) Progress(string, int, int) {}

// WithFields implements provisioning.Observer.
func (o *Observer) WithFields(map[string]string) provisioning.Observer {
	return o
}
