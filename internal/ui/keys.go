package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"idea/internal/config"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Toggle   key.Binding
	Unselect key.Binding
	Visual   key.Binding
	Command  key.Binding
	Delete   key.Binding
	AddBelow key.Binding
	AddAbove key.Binding
	Cancel   key.Binding
	Quit     key.Binding

	// Fixed keys, used in command mode.
	Submit    key.Binding
	Backspace key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:       binding("cursor up", k.Up, "up"),
		Down:     binding("cursor down", k.Down, "down"),
		Top:      binding("top", k.Top, "home"),
		Bottom:   binding("bottom", k.Bottom, "end"),
		MoveUp:   binding("move selection up", k.MoveUp),
		MoveDown: binding("move selection down", k.MoveDown),
		Toggle:   binding("select", k.Toggle),
		Unselect: binding("unselect all", k.Unselect),
		Visual:   binding("visual", k.Visual),
		Command:  binding("command", k.Command),
		Delete:   binding("delete selection", k.Delete),
		AddBelow: binding("add below", k.AddBelow),
		AddAbove: binding("add above", k.AddAbove),
		Cancel:   binding("cancel", k.Cancel),
		Quit:     binding("quit", k.Quit),

		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "erase")),
	}
}

func binding(desc, primary string, alt ...string) key.Binding {
	keys := append([]string{primary}, alt...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label(primary), desc))
}

func label(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Visual, k.MoveDown, k.MoveUp, k.Command, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Visual, k.Unselect, k.Delete},
		{k.MoveUp, k.MoveDown, k.AddBelow, k.AddAbove},
		{k.Command, k.Cancel, k.Quit},
	}
}
