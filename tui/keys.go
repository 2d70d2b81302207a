package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	BPMUp    key.Binding
	BPMDown  key.Binding
	Tap      key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Save     key.Binding
	Load     key.Binding
	Help     key.Binding
}

func newKey(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

var keys = keyMap{
	Quit:     newKey("quit", "q", "ctrl+c"),
	BPMUp:    newKey("bpm +1", "+", "="),
	BPMDown:  newKey("bpm -1", "-", "_"),
	Tap:      newKey("tap tempo", "t"),
	PrevPage: newKey("prev page", "["),
	NextPage: newKey("next page", "]"),
	Save:     newKey("save session", "s"),
	Load:     newKey("load last session", "L"),
	Help:     newKey("more keys", "?"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.BPMUp, k.BPMDown, k.Save, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.BPMUp, k.BPMDown},
		{k.PrevPage, k.NextPage},
		{k.Save, k.Load},
		{k.Help, k.Quit},
	}
}
