package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextPane   key.Binding
	PrevPane   key.Binding
	Up         key.Binding
	Down       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Add        key.Binding
	Remove     key.Binding
	Edit       key.Binding
	Mute       key.Binding
	Play       key.Binding
	Back       key.Binding
	Forward    key.Binding
	Open       key.Binding
	Border     key.Binding
	Animate    key.Binding
	Fainter    key.Binding
	Stronger   key.Binding
	ResetImage key.Binding
	Export     key.Binding
	Retry      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextPane:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:     key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Play:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -1s")),
		Forward:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +1s")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Border:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "border")),
		Animate:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "animate")),
		Fainter:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "opacity -")),
		Stronger:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "opacity +")),
		ResetImage: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset image")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry export")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Add, k.Remove, k.MoveUp, k.Play, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Add, k.Remove, k.Edit, k.Mute, k.Open},
		{k.Play, k.Back, k.Forward},
		{k.Border, k.Animate, k.Fainter, k.Stronger, k.ResetImage},
		{k.Export, k.Retry, k.Help, k.Quit},
	}
}

// formKeys are active while the subtitle form is open.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Preset key.Binding
	Save   key.Binding
	Cancel key.Binding
}

func defaultFormKeys() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Preset: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "next preset")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Preset, k.Save, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
