package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/view"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var mainContent string
	switch m.mode {
	case ModeCalendar:
		mainContent = m.renderCalendar()
	case ModeHelp:
		mainContent = m.renderHelp()
	case ModeAddTask, ModeEditTask, ModeConfirmDelete:
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	default:
		mainContent = m.renderTaskList()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderHeader(width int) string {
	c := view.Count(m.tasks)
	now := m.clock.Now().Format("Mon Jan 2 15:04")

	left := HeaderStyle.Render("TaskTrack") + "  " + HelpStyle.Render(now)
	right := fmt.Sprintf("%s %d  %s %d  %s %d",
		ActiveBadge.Render("active"), c.Active,
		CompletedBadge.Render("done"), c.Completed,
		OverdueBadge.Render("overdue"), c.Overdue,
	)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	return left + repeat(" ", gap) + right
}

func (m Model) renderTaskList() string {
	width := m.width - 4
	var s string

	s += m.renderHeader(width) + "\n"

	scope := fmt.Sprintf("%s · sorted by %s", m.filter, m.sortKey)
	if m.query != "" {
		scope += fmt.Sprintf(" · matching %q", m.query)
	}
	s += HelpStyle.Render(scope) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width)) + "\n\n"

	if len(m.visible) == 0 {
		if len(m.tasks) == 0 {
			s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
		} else {
			s += HelpStyle.Render("  Nothing matches. Press 'f' or Esc to widen the list.")
		}
	}

	titleWidth := width - 46
	if titleWidth < 10 {
		titleWidth = 10
	}
	for i, t := range m.visible {
		cursor := "  "
		style := TaskItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		icon := "[ ]"
		switch t.Status {
		case model.StatusCompleted:
			icon = "[x]"
			style = TaskDoneStyle
		case model.StatusOverdue:
			icon = "[!]"
			if i != m.cursor {
				style = TaskOverdueStyle
			}
		}

		line := style.Render(fmt.Sprintf("%s%s %-*s", cursor, icon, titleWidth, truncate(t.Title, titleWidth)))
		s += line + " " + m.renderMeta(t) + "\n"
	}

	return TaskListStyle.Width(m.width).Height(m.height - 2).Render(s)
}

// renderMeta shows deadline, repetition and timer for one row
func (m Model) renderMeta(t model.Task) string {
	deadline := ""
	if !t.Deadline.IsZero() {
		deadline = "due " + t.Deadline.String()
	}
	repeats := ""
	if t.IsRepetitive {
		days := make([]string, 0, len(t.RepetitionDays))
		for _, d := range t.RepetitionDays {
			days = append(days, d[:min(3, len(d))])
		}
		repeats = "↻ " + strings.Join(days, ",")
	}

	clock := view.FormatElapsed(m.elapsed(t))
	if m.timers.State(t.ID) == timer.Running {
		clock = RunningBadge.Render("▶ " + clock)
	} else {
		clock = HelpStyle.Render("  " + clock)
	}

	return fmt.Sprintf("%-14s %-12s %s", HelpStyle.Render(deadline), HelpStyle.Render(repeats), clock)
}

func (m Model) renderStatusBar() string {
	// When in search mode, show inline search input (like vim)
	if m.mode == ModeSearch {
		matches := fmt.Sprintf(" [%d]", len(view.Search(m.tasks, m.input.Value())))
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "a:add  e:edit  x:done  d:del  t:timer  T:reset  f:filter  s:sort  /:search  c:calendar  ?:help  q:quit"
	if m.mode == ModeCalendar {
		help = "[/]:month  c/Esc:back  q:quit"
	}
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	if m.mode == ModeConfirmDelete {
		title := m.pendingDelete
		if t, ok := m.store.Task(m.pendingDelete); ok {
			title = t.Title
		}
		content := lipgloss.NewStyle().Bold(true).Render("Delete Task") + "\n\n"
		content += fmt.Sprintf("Delete %q?", truncate(title, 40)) + "\n\n"
		content += HelpStyle.Render("y:delete  any other key:cancel")
		return ModalStyle.Render(content)
	}

	title := "Add Task"
	if m.mode == ModeEditTask {
		title = "Edit Task"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	if m.message != "" {
		content += ErrorStyle.Render(m.message) + "\n"
	}
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderCalendar() string {
	days := view.MonthGrid(m.calYear, m.calMonth)
	buckets := view.Buckets(m.tasks, days)
	today := model.DateOf(m.clock.Now())

	header := HeaderStyle.Render(fmt.Sprintf("%s %d", m.calMonth, m.calYear))

	names := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		names[d] = lipgloss.NewStyle().Width(16).Align(lipgloss.Center).Foreground(TextMuted).Render(d.String()[:3])
	}

	rows := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, names...)}
	for week := 0; week < len(days); week += 7 {
		cells := make([]string, 0, 7)
		for _, day := range days[week : week+7] {
			cells = append(cells, m.renderDay(day, buckets[day], today))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderDay(day model.Date, tasks []model.Task, today model.Date) string {
	t, _ := day.Time(time.UTC)
	style := DayStyle
	switch {
	case day == today:
		style = DayTodayStyle
	case t.Month() != m.calMonth:
		style = DayOutsideStyle
	}

	lines := []string{fmt.Sprintf("%d", t.Day())}
	for i, task := range tasks {
		if i == 2 && len(tasks) > 3 {
			lines = append(lines, HelpStyle.Render(fmt.Sprintf("+%d more", len(tasks)-i)))
			break
		}
		title := truncate(task.Title, 12)
		switch task.Status {
		case model.StatusOverdue:
			title = ErrorStyle.Render(title)
		case model.StatusCompleted:
			title = HelpStyle.Strikethrough(true).Render(title)
		}
		lines = append(lines, title)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  g/G    Top / bottom     │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add task        │
│  e       Edit title      │
│  x/Enter Toggle done     │
│  d       Delete          │
│  t/Space Start/pause     │
│  T       Reset timer     │
│                          │
│  View                    │
│  ────                    │
│  f       Status filter   │
│  s       Sort order      │
│  /       Search          │
│  c       Calendar        │
│                          │
│  Other                   │
│  ─────                   │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
