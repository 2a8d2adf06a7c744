package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rshade/bizdeck/internal/tui/listview"
)

// inventoryKeyMap adds page actions to the list's navigation bindings.
type inventoryKeyMap struct {
	list       listview.KeyMap
	Background key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultInventoryKeyMap() inventoryKeyMap {
	return inventoryKeyMap{
		list: listview.DefaultKeyMap(),
		Background: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "background"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k inventoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.list.Up, k.list.Down, k.Background, k.Reload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k inventoryKeyMap) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(), []key.Binding{k.Background, k.Reload}, []key.Binding{k.Help, k.Quit})
}
