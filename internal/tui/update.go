package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/validate"
	"github.com/existflow/tasktrack/internal/view"
)

// tickMsg redraws running timers and the clock
type tickMsg time.Time

// changedMsg reports that the store changed
type changedMsg struct{}

// searchMsg carries a debounced search query
type searchMsg string

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the store reports a change
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changedMsg{}
	}
}

// waitForSearch blocks until a search query settles
func (m Model) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		return searchMsg(<-m.searches)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForChange(), m.waitForSearch())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()

	case changedMsg:
		m.reload()
		return m, m.waitForChange()

	case searchMsg:
		m.query = string(msg)
		m.applyView("")
		m.cursor = 0
		return m, m.waitForSearch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeEditTask:
			return m.updateInput(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeCalendar:
			return m.updateCalendar(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		default:
			return m.handleNormalKeys(msg)
		}
	}

	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Top):
		m.cursor = 0

	case key.Matches(msg, keys.Bottom):
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Edit):
		return m.startEditTask()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.Timer):
		m.handleTimer()

	case key.Matches(msg, keys.ResetTimer):
		m.handleResetTimer()

	case key.Matches(msg, keys.Filter):
		m.filter = next(view.StatusFilters, m.filter)
		m.applyView(m.selectedID())
		m.message = fmt.Sprintf("Showing %s tasks", m.filter)

	case key.Matches(msg, keys.Sort):
		m.sortKey = next(view.SortKeys, m.sortKey)
		m.applyView(m.selectedID())
		m.message = fmt.Sprintf("Sorted by %s", m.sortKey)

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Escape):
		if m.query != "" {
			m.search.Set("")
			m.search.Flush()
			m.query = ""
			m.applyView(m.selectedID())
		}

	case key.Matches(msg, keys.Calendar):
		now := m.clock.Now()
		m.calYear, m.calMonth = now.Year(), now.Month()
		m.mode = ModeCalendar
	}

	return m, nil
}

func (m Model) selectedID() string {
	if t := m.currentTask(); t != nil {
		return t.ID
	}
	return ""
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTask
	m.input.SetValue("")
	m.input.Placeholder = "Enter task..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	task := m.currentTask()
	if task == nil {
		return m, nil
	}
	m.mode = ModeEditTask
	m.input.SetValue(task.Title)
	m.input.Placeholder = "Edit task..."
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.mode = ModeSearch
	m.input.SetValue(m.query)
	m.input.Placeholder = "/"
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m *Model) handleToggleDone() {
	task := m.currentTask()
	if task == nil {
		return
	}
	id, title := task.ID, task.Title
	m.store.Dispatch(reducer.ToggleComplete{ID: id})
	m.reload()

	if t, ok := m.store.Task(id); ok && t.Status == model.StatusCompleted {
		m.message = fmt.Sprintf("Completed: %s", title)
	} else {
		m.message = fmt.Sprintf("Reopened: %s", title)
	}
}

func (m *Model) handleDelete() {
	task := m.currentTask()
	if task == nil {
		return
	}
	if m.confirmDelete {
		m.pendingDelete = task.ID
		m.mode = ModeConfirmDelete
		return
	}
	m.deleteTask(task.ID, task.Title)
}

func (m *Model) deleteTask(id, title string) {
	m.store.Dispatch(reducer.Delete{ID: id})
	logger.Info("Task deleted", logger.F("id", id))
	m.reload()
	m.message = fmt.Sprintf("Deleted: %s", title)
}

func (m *Model) handleTimer() {
	task := m.currentTask()
	if task == nil {
		return
	}
	state := m.timers.Toggle(*task)
	if state == timer.Running {
		m.message = fmt.Sprintf("Timing: %s", task.Title)
	} else {
		m.message = fmt.Sprintf("Paused at %s", view.FormatElapsed(m.elapsed(*task)))
	}
}

// handleResetTimer drops the live timer and zeroes the stored value
func (m *Model) handleResetTimer() {
	task := m.currentTask()
	if task == nil {
		return
	}
	id, title := task.ID, task.Title
	m.timers.Remove(id)
	m.store.Dispatch(reducer.ResetTimer{ID: id})
	m.reload()
	m.message = fmt.Sprintf("Timer reset: %s", title)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.message = ""
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.mode = ModeNormal
			return m, nil
		}

		switch m.mode {
		case ModeAddTask:
			in := model.TaskInput{Title: value, TaskType: model.TaskTypeSingleDay}
			if errs := validate.Task(in, m.clock.Now()); !errs.Valid() {
				m.message = firstError(errs)
				return m, nil
			}
			task := m.store.Create(in)
			m.reload()
			m.applyView(task.ID)
			m.message = fmt.Sprintf("Added: %s", value)

		case ModeEditTask:
			task := m.currentTask()
			if task == nil {
				break
			}
			patch := model.TaskPatch{Title: &value}
			if errs := validate.Patch(*task, patch, m.clock.Now()); !errs.Valid() {
				m.message = firstError(errs)
				return m, nil
			}
			m.store.Dispatch(reducer.Update{ID: task.ID, Patch: patch})
			m.reload()
			m.message = fmt.Sprintf("Updated: %s", value)
		}

		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.search.Set("")
		m.search.Flush()
		m.query = ""
		m.applyView(m.selectedID())
		return m, nil

	case key.Matches(msg, keys.Enter):
		// Apply what was typed without waiting for the quiet period
		m.mode = ModeNormal
		m.search.Flush()
		m.query = m.input.Value()
		m.applyView(m.selectedID())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search.Set(m.input.Value())
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	m.mode = ModeNormal

	if !key.Matches(msg, keys.Confirm) {
		m.message = "Delete cancelled"
		return m, nil
	}
	if t, ok := m.store.Task(id); ok {
		m.deleteTask(id, t.Title)
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(msg, keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Calendar):
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) shiftMonth(n int) {
	t := time.Date(m.calYear, m.calMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	m.calYear, m.calMonth = t.Year(), t.Month()
}
