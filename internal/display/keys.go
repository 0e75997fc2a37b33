package display

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the recipe screen.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	NextRecipe  key.Binding
	PrevRecipe  key.Binding
	Variation   key.Binding
	Plain       key.Binding
	Ingredients key.Binding
	Reset       key.Binding
	Command     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x", "enter"),
			key.WithHelp("space/x", "check step"),
		),
		NextRecipe: key.NewBinding(
			key.WithKeys("tab", "]", "l"),
			key.WithHelp("tab/]", "next recipe"),
		),
		PrevRecipe: key.NewBinding(
			key.WithKeys("shift+tab", "[", "h"),
			key.WithHelp("shift+tab/[", "prev recipe"),
		),
		Variation: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next variation"),
		),
		Plain: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "base recipe"),
		),
		Ingredients: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ingredients"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "uncheck all"),
		),
		Command: key.NewBinding(
			key.WithKeys(":", "/"),
			key.WithHelp(":", "command"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextRecipe, k.Variation, k.Command, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Reset},
		{k.NextRecipe, k.PrevRecipe, k.Variation, k.Plain},
		{k.Ingredients, k.Command, k.Help, k.Quit},
	}
}
