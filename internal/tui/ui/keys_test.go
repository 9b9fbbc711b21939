package ui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"Up", keys.Up, "k"},
		{"Down", keys.Down, "j"},
		{"NextTab", keys.NextTab, "tab"},
		{"PrevTab", keys.PrevTab, "shift+tab"},
		{"Tab1", keys.Tab1, "1"},
		{"Tab2", keys.Tab2, "2"},
		{"Tab3", keys.Tab3, "3"},
		{"Tab4", keys.Tab4, "4"},
		{"Select", keys.Select, "enter"},
		{"Back", keys.Back, "esc"},
		{"Quit", keys.Quit, "q"},
		{"Help", keys.Help, "?"},
		{"Refresh", keys.Refresh, "r"},
		{"Start", keys.Start, "s"},
		{"Stop", keys.Stop, "x"},
		{"Pause", keys.Pause, "p"},
		{"New", keys.New, "n"},
		{"Delete", keys.Delete, "d"},
		{"Today", keys.Today, "t"},
		{"LastWeek", keys.LastWeek, "w"},
		{"Month", keys.Month, "m"},
		{"All", keys.All, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Contains(tt.binding.Keys(), tt.key) {
				t.Errorf("binding %s keys = %v, expected to include %q", tt.name, tt.binding.Keys(), tt.key)
			}
			help := tt.binding.Help()
			if help.Key == "" || help.Desc == "" {
				t.Errorf("binding %s has incomplete help %+v", tt.name, help)
			}
		})
	}
}

func TestQuitAcceptsCtrlC(t *testing.T) {
	keys := DefaultKeyMap()
	if !slices.Contains(keys.Quit.Keys(), "ctrl+c") {
		t.Errorf("Quit keys = %v", keys.Quit.Keys())
	}
}
