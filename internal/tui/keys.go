package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Last   key.Binding
	Slower key.Binding
	Faster key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev year")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next year")),
		First:  key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first year")),
		Last:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last year")),
		Slower: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slower")),
		Faster: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "faster")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Prev, k.Next, k.First, k.Last},
		{k.Slower, k.Faster, k.Theme, k.Help, k.Quit},
	}
}
