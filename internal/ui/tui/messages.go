// Package tui provides a Bubble Tea-based terminal UI for provisioning runs.
package tui

import (
	"time"

	"github.com/imamik/devprov/internal/provisioning"
)

// TaskMsg reports a task lifecycle or resource event.
type TaskMsg struct {
	Type     provisioning.EventType
	Task     string
	Message  string
	Resource string
	Duration time.Duration
	Err      error
}

// LogMsg carries a free-form output line.
type LogMsg struct {
	Line string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
