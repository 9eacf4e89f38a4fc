package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Up         key.Binding
	Down       key.Binding
	Pick       key.Binding
	Filter     key.Binding
	Copy       key.Binding
	Reset      key.Binding
	Fullscreen key.Binding
	Switch     key.Binding
	Help       key.Binding
	Escape     key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("enter/space", "panggil next"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "loket sebelumnya"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "loket berikutnya"),
	),
	Pick: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "pilih loket"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "cari loket"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "salin panggilan"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset antrian"),
	),
	Fullscreen: key.NewBinding(
		key.WithKeys("f11"),
		key.WithHelp("f11", "layar penuh"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "ganti tampilan"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "bantuan"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "keluar layar penuh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "keluar"),
	),
}

// displayKeys is the help.KeyMap of the display view.
type displayKeys struct{ keyMap }

func (k displayKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Fullscreen, k.Escape, k.Quit}
}

func (k displayKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// tellerKeys is the help.KeyMap of the teller view.
type tellerKeys struct{ keyMap }

func (k tellerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Filter, k.Copy, k.Help, k.Quit}
}

func (k tellerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Up, k.Down, k.Pick},
		{k.Filter, k.Copy, k.Reset},
		{k.Fullscreen, k.Switch, k.Help, k.Quit},
	}
}
