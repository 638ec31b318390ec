package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Back      key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Add       key.Binding
	Filter    key.Binding
	Open      key.Binding
	Switch    key.Binding
	Yes       key.Binding
	No        key.Binding
	Stars     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "cima"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "baixo"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "menos"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "mais"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "selecionar"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "voltar"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "novo"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "editar"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "excluir"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "adicionar"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filtrar tipo"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "abrir planilha"),
	),
	Switch: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "trocar setor"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "s"),
		key.WithHelp("s", "sim"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "não"),
	),
	Stars: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "estrelas"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "ajuda"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "sair"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "sair"),
	),
}

// contextKeys is the help.KeyMap for the current view
type contextKeys struct {
	short []key.Binding
}

// ShortHelp implements help.KeyMap
func (c contextKeys) ShortHelp() []key.Binding {
	return c.short
}

// FullHelp implements help.KeyMap
func (c contextKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.short}
}
