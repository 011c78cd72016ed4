package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderTasks(&b, m)

	if len(m.Logs) > 0 {
		renderLogs(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("devprov: %s", m.Environment)))
	if m.Host != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(" (%s)", m.Host)))
	}

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Aborted:
		status += failedStyle.Render("Interrupted")
	case m.Done:
		status += readyStyle.Render("Provisioned")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Provisioning...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d/%d%s\n", bar, m.Completed(), len(m.Tasks), eta)
}

func renderTasks(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Tasks"))
	b.WriteString("\n")

	for _, row := range m.Tasks {
		icon, style := taskIcon(row.State, m.SpinnerFrame)

		dur := ""
		switch row.State {
		case TaskActive:
			dur = formatDuration(m.clock().Sub(row.Started))
		case TaskDone, TaskFailed:
			dur = formatDuration(row.Duration)
		}

		note := row.Note
		if row.Err != nil {
			note = row.Err.Error()
		} else if row.Changed > 1 {
			note = fmt.Sprintf("%d changes", row.Changed)
		}

		fmt.Fprintf(b, "    %s %-24s %6s  %s\n",
			style(icon), style(row.Name), dimStyle.Render(dur), dimStyle.Render(note))
	}
}

func renderLogs(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Output"))
	b.WriteString("\n")

	width := m.Width - 6
	for _, line := range m.Logs {
		if width > 10 && len(line) > width {
			line = line[:width-3] + "..."
		}
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(line))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s  |  q: quit", elapsed)))
	b.WriteString("\n")
}

func taskIcon(state TaskState, frame int) (string, styleFunc) {
	look, ok := taskLooks[state]
	if !ok {
		look = taskLooks[TaskPending]
	}
	if state == TaskActive {
		return currentSpinner(frame), sf(look.style)
	}
	return look.mark, sf(look.style)
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Tasks) == 0 {
		return 0
	}
	return float64(m.Completed()) / float64(len(m.Tasks))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
