package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/config"
	"github.com/existflow/tasktrack/internal/debounce"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/store"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/view"
	"golang.org/x/text/language"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeSearch
	ModeConfirmDelete
	ModeCalendar
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	store  *store.Store
	timers *timer.Registry
	clock  clock.Clock
	lang   language.Tag

	confirmDelete bool

	tasks   []model.Task // Whole collection
	visible []model.Task // After search, filter and sort

	// Store changes and committed searches arrive on these
	changes     chan struct{}
	searches    chan string
	search      *debounce.Debouncer[string]
	unsubscribe func()

	// UI state
	width  int
	height int
	mode   Mode
	cursor int

	filter  view.StatusFilter
	sortKey view.SortKey
	query   string

	// Input
	input textinput.Model

	pendingDelete string // ID awaiting confirmation

	calYear  int
	calMonth time.Month

	message string
}

// NewModel creates a new TUI model over st. Close releases the
// subscriptions it makes.
func NewModel(st *store.Store, timers *timer.Registry, cfg *config.Config) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	now := time.Now()
	m := Model{
		store:         st,
		timers:        timers,
		clock:         clock.Real{},
		lang:          cfg.Language(),
		confirmDelete: cfg.ConfirmDelete,
		changes:       make(chan struct{}, 1),
		searches:      make(chan string, 1),
		filter:        view.FilterAll,
		sortKey:       view.SortCreated,
		input:         ti,
		calYear:       now.Year(),
		calMonth:      now.Month(),
	}

	changes, searches := m.changes, m.searches
	m.unsubscribe = st.Subscribe(func([]model.Task) {
		// Drop the signal if one is already queued; reload reads the latest state
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	m.search = debounce.New(cfg.Debounce, func(q string) {
		// Keep only the newest query
		select {
		case <-searches:
		default:
		}
		select {
		case searches <- q:
		default:
		}
	})

	m.reload()
	logger.Info("TUI model initialized", logger.F("tasks", len(m.tasks)))
	return m
}

// Close stops listening for store changes and pending searches
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.search != nil {
		m.search.Stop()
	}
}

// reload re-reads the collection and keeps the cursor on the same task
func (m *Model) reload() {
	selected := ""
	if t := m.currentTask(); t != nil {
		selected = t.ID
	}
	m.tasks = m.store.Tasks()
	m.applyView(selected)
}

// applyView recomputes the visible list
func (m *Model) applyView(selected string) {
	tasks := view.Search(m.tasks, m.query)
	m.visible = view.FilterSort(tasks, m.filter, m.sortKey, m.lang)

	for i, t := range m.visible {
		if t.ID == selected {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) currentTask() *model.Task {
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return &m.visible[m.cursor]
	}
	return nil
}

// elapsed prefers a live timer over the stored value
func (m Model) elapsed(t model.Task) int64 {
	if tm, ok := m.timers.Lookup(t.ID); ok {
		return tm.Elapsed()
	}
	return t.ElapsedTime
}
