package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap describes the editing view bindings for the help views. Input
// itself is routed by the input handler.
type keyMap struct {
	Move      key.Binding
	Line      key.Binding
	Jump      key.Binding
	Toggle    key.Binding
	Click     key.Binding
	Clear     key.Binding
	Split     key.Binding
	SplitAt   key.Binding
	Comment   key.Binding
	Selection key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Move:      key.NewBinding(key.WithKeys("h", "j", "k", "l", "left", "down", "up", "right"), key.WithHelp("←↓↑→/hjkl", "move")),
		Line:      key.NewBinding(key.WithKeys("0", "$"), key.WithHelp("0/$", "line start/end")),
		Jump:      key.NewBinding(key.WithKeys("g", "G", "home", "end"), key.WithHelp("gg/G", "first/last token")),
		Toggle:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "selection mode")),
		Click:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select token")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Split:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "mark for split")),
		SplitAt:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "split marked token")),
		Comment:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment selection")),
		Selection: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "show selection")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Click, k.Split, k.Comment, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Line, k.Jump},
		{k.Toggle, k.Click, k.Clear},
		{k.Split, k.SplitAt, k.Comment},
		{k.Selection, k.Help, k.Quit},
	}
}
