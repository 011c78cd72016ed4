package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/devprov/internal/report"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

func renderTitle(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")
}

func renderSection(b *strings.Builder, name string) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  " + name))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")
}

// check renders a pass/fail marker.
func check(ok bool) string {
	if ok {
		return okStyle.Render("✓")
	}
	return failStyle.Render("✗")
}

func statusMark(status report.Status) string {
	switch status {
	case report.StatusOK:
		return okStyle.Render("✓")
	case report.StatusFailed:
		return failStyle.Render("✗")
	case report.StatusSkipped:
		return dimStyle.Render("⊘")
	case report.StatusRunning:
		return warnStyle.Render("…")
	default:
		return dimStyle.Render("·")
	}
}

// renderRunSummary summarizes a finished run below the console or TUI output.
func renderRunSummary(run *report.Run) string {
	var b strings.Builder

	renderTitle(&b, fmt.Sprintf("devprov provision: %s", run.Environment))

	renderSection(&b, "Tasks")
	for _, step := range run.Steps {
		line := fmt.Sprintf("    %s %-26s", statusMark(step.Status), step.Name)
		switch step.Status {
		case report.StatusOK:
			line += dimStyle.Render(fmt.Sprintf(" %s", formatDuration(step.Duration)))
			if step.Changed > 0 {
				line += warnStyle.Render(fmt.Sprintf("  %d changed", step.Changed))
			}
		case report.StatusFailed:
			line += failStyle.Render(" " + step.Error)
		case report.StatusSkipped:
			line += dimStyle.Render(" " + step.Message)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if run.Succeeded() {
		b.WriteString(okStyle.Render(fmt.Sprintf("  Done in %s, %d resources changed", formatDuration(run.Duration()), run.Changed())))
	} else {
		b.WriteString(failStyle.Render(fmt.Sprintf("  Failed after %s", formatDuration(run.Duration()))))
	}
	b.WriteString("\n")

	return b.String()
}

// formatDuration renders d rounded to a tenth of a second below a minute
// and to whole seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(100 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
