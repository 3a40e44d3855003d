package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up      key.Binding // k - move up
	Down    key.Binding // j - move down
	Top     key.Binding // g - jump to top
	Bottom  key.Binding // G - jump to bottom
	Select  key.Binding // Enter - select / submit
	Back    key.Binding // Esc - back out of the workflow
	Left    key.Binding // ← - back, on lists and pages only
	Dismiss key.Binding // close a notice
	Quit    key.Binding // Ctrl+C - leave ccm
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "向上"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "向下"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "跳到顶部"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "跳到底部"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "确认"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "返回"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "返回"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", "left", " "),
			key.WithHelp("Enter/Esc", "关闭"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "退出"),
		),
	}
}

// ChoiceHelp returns the bindings shown under a list
func (k KeyMap) ChoiceHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// TextHelp returns the bindings shown under a text input
func (k KeyMap) TextHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Quit}
}

// PageHelp returns the bindings shown under a page
func (k KeyMap) PageHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}
