package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared with the CLI's plain output.
var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorDim)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).MarginTop(1)
	footerStyle   = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)

	readyStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle = lipgloss.NewStyle().Foreground(colorRed)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)

	progressBarFull  = readyStyle
	progressBarEmpty = dimStyle
)

// Task row marks. Active rows show a spinner frame instead.
const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	skipMark  = "[--]"
	pending   = "[  ]"
	spinner   = "[..]"
)

var spinnerFrames = []string{"[.  ]", "[.. ]", "[...]", "[ ..]", "[  .]", "[   ]"}

// taskLook is how a task row in a given state is drawn.
type taskLook struct {
	mark  string
	style lipgloss.Style
}

var taskLooks = map[TaskState]taskLook{
	TaskPending: {pending, dimStyle},
	TaskActive:  {spinner, activeStyle},
	TaskDone:    {checkMark, readyStyle},
	TaskSkipped: {skipMark, lipgloss.NewStyle().Foreground(colorYellow)},
	TaskFailed:  {crossMark, failedStyle},
}
