package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Draw      key.Binding
	Edit      key.Binding
	Modify    key.Binding
	Translate key.Binding
	Delete    key.Binding
	CutHole   key.Binding
	Extend    key.Binding
	Clip      key.Binding
	Finish    key.Binding
	Cancel    key.Binding
	Save      key.Binding
	Fit       key.Binding
	Sidebar   key.Binding
	Paste     key.Binding
	Attrs     key.Binding
	Inspect   key.Binding
	Layers    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Draw:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "draw")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Modify:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "modify")),
		Translate: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "move")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		CutHole:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hole")),
		Extend:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "extend")),
		Clip:      key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clip")),
		Finish:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "finish")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "stop")),
		Save:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save")),
		Fit:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		Sidebar:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "files")),
		Paste:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
		Attrs:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attrs")),
		Inspect:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		Layers:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "layers")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Help:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpBindings is the footer order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.ZoomIn, k.Draw, k.Edit, k.Modify, k.Translate, k.Delete,
		k.CutHole, k.Extend, k.Clip, k.Finish, k.Cancel, k.Save, k.Sidebar,
		k.Paste, k.Attrs, k.Help, k.Quit,
	}
}
