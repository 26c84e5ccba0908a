package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/tasktrack/internal/model"
)

// Color palette
var (
	// Status colors
	Active    = lipgloss.Color("#4ECDC4") // Blue
	Completed = lipgloss.Color("#95E1A3") // Green
	Overdue   = lipgloss.Color("#FF6B6B") // Red
	Running   = lipgloss.Color("#FFE66D") // Yellow

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Task list
	TaskListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	TaskOverdueStyle = lipgloss.NewStyle().
				Foreground(Overdue).
				Padding(0, 1)

	// Status badges
	ActiveBadge    = lipgloss.NewStyle().Foreground(Active)
	CompletedBadge = lipgloss.NewStyle().Foreground(Completed)
	OverdueBadge   = lipgloss.NewStyle().Foreground(Overdue).Bold(true)
	RunningBadge   = lipgloss.NewStyle().Foreground(Running).Bold(true)

	// Calendar cells
	DayStyle = lipgloss.NewStyle().
			Width(14).
			Height(4).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Border)

	DayOutsideStyle = DayStyle.Foreground(TextMuted)

	DayTodayStyle = DayStyle.BorderForeground(Primary)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	ErrorStyle = lipgloss.NewStyle().Foreground(Overdue)
)

// FormatStatus returns a colored status badge
func FormatStatus(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return CompletedBadge.Render("done")
	case model.StatusOverdue:
		return OverdueBadge.Render("overdue")
	default:
		return ActiveBadge.Render("active")
	}
}
