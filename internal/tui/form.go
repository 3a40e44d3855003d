// Package tui implements ccm's interactive session: step prompts rendered
// with bubbletea and the profile workflows built on them.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// outcome is how a step program ended
type outcome int

const (
	pending outcome = iota
	submitted
	backedOut
	quitRequested
)

var inputBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("42")).
	Padding(0, 1)

// textModel is a single text entry step
type textModel struct {
	step    TextStep
	input   textinput.Model
	keys    KeyMap
	width   int
	outcome outcome
}

func newTextModel(step TextStep) textModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.SetValue(step.Default)
	ti.CursorEnd()
	if step.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()

	return textModel{
		step:  step,
		input: ti,
		keys:  DefaultKeyMap(),
	}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.outcome = quitRequested
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.outcome = backedOut
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.outcome = submitted
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.outcome != pending {
		return ""
	}

	width := effectiveWidth(m.width, 60)
	var b strings.Builder
	renderHeader(&b, m.step.Title, width)
	if m.step.Description != "" {
		b.WriteString(dimStyle.Render(m.step.Description))
		b.WriteString("\n")
	}

	m.input.Width = max(10, width-6)
	b.WriteString(inputBoxStyle.Width(width - 2).Render(m.input.View()))
	b.WriteString("\n")

	hint := renderHelp(m.keys.TextHelp())
	if m.step.AllowClear {
		hint += "   " + helpStyle.Render("输入 - 清空字段")
	}
	b.WriteString(hint)
	b.WriteString("\n")
	return b.String()
}

// Value returns the raw text as submitted
func (m textModel) Value() string {
	return m.input.Value()
}

func (m textModel) result() outcome {
	return m.outcome
}
