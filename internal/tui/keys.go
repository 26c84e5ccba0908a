package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Enter      key.Binding
	Add        key.Binding
	Edit       key.Binding
	Done       key.Binding
	Delete     key.Binding
	Timer      key.Binding
	ResetTimer key.Binding
	Filter     key.Binding
	Sort       key.Binding
	Search     key.Binding
	Calendar   key.Binding
	PrevMonth  key.Binding
	NextMonth  key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
	Confirm    key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
	Done:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Timer:      key.NewBinding(key.WithKeys("t", " "), key.WithHelp("t", "start/pause timer")),
	ResetTimer: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "reset timer")),
	Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle status filter")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Calendar:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calendar")),
	PrevMonth:  key.NewBinding(key.WithKeys("[", "left", "h"), key.WithHelp("[", "previous month")),
	NextMonth:  key.NewBinding(key.WithKeys("]", "right", "l"), key.WithHelp("]", "next month")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
}
