package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains all key bindings for the TUI
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab4    key.Binding

	Select  key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	// Session control on the timer tab
	Start key.Binding
	Stop  key.Binding
	Pause key.Binding

	// Logbook editing
	New    key.Binding
	Delete key.Binding

	// Listing ranges on the events and stats tabs
	Today    key.Binding
	LastWeek key.Binding
	Month    key.Binding
	All      key.Binding
}

// bind builds a binding whose help key is the first of keys.
func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	up := bind("up", "up", "k")
	up.SetHelp("↑/k", "up")
	down := bind("down", "down", "j")
	down.SetHelp("↓/j", "down")

	return KeyMap{
		Up:   up,
		Down: down,

		NextTab: bind("next view", "tab"),
		PrevTab: bind("prev view", "shift+tab"),
		Tab1:    bind("timer", "1"),
		Tab2:    bind("events", "2"),
		Tab3:    bind("stats", "3"),
		Tab4:    bind("config", "4"),

		Select:  bind("select", "enter"),
		Back:    bind("back", "esc"),
		Quit:    bind("quit", "q", "ctrl+c"),
		Help:    bind("help", "?"),
		Refresh: bind("refresh", "r"),

		Start: bind("start", "s"),
		Stop:  bind("stop", "x"),
		Pause: bind("unlock/lock", "p"),

		New:    bind("new note", "n"),
		Delete: bind("delete note", "d"),

		Today:    bind("today", "t"),
		LastWeek: bind("last 7 days", "w"),
		Month:    bind("last 30 days", "m"),
		All:      bind("all", "a"),
	}
}
