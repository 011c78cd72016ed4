package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/devprov/internal/provisioning"
)

// ErrInterrupted is returned when the user quits the TUI before the run ends.
var ErrInterrupted = errors.New("provisioning interrupted")

// RunFunc executes the provisioning run, reporting through obs.
type RunFunc func(ctx context.Context, obs provisioning.Observer) error

// RunProvisionTUI runs fn in the background while m renders its progress.
// Quitting cancels fn's context and waits for it to return.
func RunProvisionTUI(ctx context.Context, m Model, fn RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	var runErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		runErr = fn(ctx, NewObserver(p))
		if runErr != nil {
			p.Send(ErrMsg{Err: runErr})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	cancel()
	<-finished

	if runErr != nil {
		return runErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(Model); ok && fm.Aborted {
		return ErrInterrupted
	}
	return nil
}
