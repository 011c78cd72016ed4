package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/devprov/internal/orchestration"
)

// Tasks prints the invocable tasks with their arguments and descriptions.
func Tasks() error {
	fmt.Print(renderTasks(orchestration.Tasks()))
	return nil
}

func renderTasks(specs []orchestration.TaskSpec) string {
	var b strings.Builder

	renderTitle(&b, "devprov tasks")
	b.WriteString("\n")

	width := 0
	for _, s := range specs {
		width = max(width, lipgloss.Width(s.Usage()))
	}
	usageStyle := lipgloss.NewStyle().Width(width + 2).Foreground(colorWhite)

	for _, s := range specs {
		b.WriteString("    ")
		b.WriteString(usageStyle.Render(s.Usage()))
		b.WriteString(dimStyle.Render(s.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Underscore spellings (apt_get_update) are accepted too."))
	b.WriteString("\n")

	return b.String()
}
