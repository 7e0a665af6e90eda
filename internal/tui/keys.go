package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause   key.Binding
	SeekBack    key.Binding
	SeekFwd     key.Binding
	ScrubBack   key.Binding
	ScrubFwd    key.Binding
	Commit      key.Binding
	Cancel      key.Binding
	Start       key.Binding
	End         key.Binding
	Next        key.Binding
	Prev        key.Binding
	Split       key.Binding
	Delete      key.Binding
	Earlier     key.Binding
	Later       key.Binding
	ToPlayhead  key.Binding
	TrimInLess  key.Binding
	TrimInMore  key.Binding
	TrimOutLess key.Binding
	TrimOutMore key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		SeekBack:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "seek back")),
		SeekFwd:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "seek forward")),
		ScrubBack:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←/H", "scrub back")),
		ScrubFwd:    key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→/L", "scrub forward")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "seek to scrub")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end scrub")),
		Start:       key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("home", "to start")),
		End:         key.NewBinding(key.WithKeys("end", "$"), key.WithHelp("end", "to end")),
		Next:        key.NewBinding(key.WithKeys("tab", "j"), key.WithHelp("tab/j", "next clip")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab", "k"), key.WithHelp("⇧tab/k", "prev clip")),
		Split:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split at playhead")),
		Delete:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete clip")),
		Earlier:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move clip earlier")),
		Later:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move clip later")),
		ToPlayhead:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move clip to playhead")),
		TrimInLess:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "extend in point")),
		TrimInMore:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "trim in point")),
		TrimOutLess: key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "trim out point")),
		TrimOutMore: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "extend out point")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Split, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SeekBack, k.SeekFwd, k.Start, k.End},
		{k.ScrubBack, k.ScrubFwd, k.Commit, k.Cancel},
		{k.Next, k.Prev, k.Split, k.Delete, k.Earlier, k.Later, k.ToPlayhead},
		{k.TrimInLess, k.TrimInMore, k.TrimOutLess, k.TrimOutMore, k.Help, k.Quit},
	}
}
