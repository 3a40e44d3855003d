package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// stepModel is a bubbletea model that runs one prompt step
type stepModel interface {
	tea.Model
	result() outcome
}

// choiceModel selects one option from a list
type choiceModel struct {
	step    ChoiceStep
	cursor  int
	keys    KeyMap
	width   int
	outcome outcome
}

func newChoiceModel(step ChoiceStep) choiceModel {
	cursor := step.Cursor
	if cursor < 0 || cursor >= len(step.Options) {
		cursor = 0
	}
	return choiceModel{step: step, cursor: cursor, keys: DefaultKeyMap()}
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m choiceModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.step.Options) - 1
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.outcome = quitRequested
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Left):
		m.outcome = backedOut
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		if last < 0 {
			return m, nil
		}
		m.outcome = submitted
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = max(last, 0)
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < last {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(last, 0)
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.outcome != pending {
		return ""
	}

	width := effectiveWidth(m.width, 72)
	var b strings.Builder
	renderHeader(&b, m.step.Title, width)
	if m.step.Description != "" {
		b.WriteString(dimStyle.Render(m.step.Description))
		b.WriteString("\n\n")
	}
	for i, opt := range m.step.Options {
		b.WriteString(renderOption(opt, i == m.cursor, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderHelp(m.keys.ChoiceHelp()))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the index under the cursor
func (m choiceModel) Selected() int {
	return m.cursor
}

func (m choiceModel) result() outcome {
	return m.outcome
}

// pageModel shows scrollable read-only lines. As a notice it closes on any
// dismiss key; as a page it closes on Enter, Esc or ←.
type pageModel struct {
	title   string
	lines   []string
	notice  bool
	keys    KeyMap
	width   int
	height  int
	offset  int
	outcome outcome
}

func newPageModel(p Page) pageModel {
	var lines []string
	if p.Subtitle != "" {
		lines = append(lines, dimStyle.Render(p.Subtitle), "")
	}
	lines = append(lines, p.Lines...)
	return pageModel{title: p.Title, lines: lines, keys: DefaultKeyMap()}
}

func newNoticeModel(n Notice) pageModel {
	icon, style := noticeStyle(n.Level)
	lines := []string{style.Render(icon + " " + n.Title), ""}
	lines = append(lines, n.Lines...)
	return pageModel{lines: lines, notice: true, keys: DefaultKeyMap()}
}

func (m pageModel) Init() tea.Cmd {
	return nil
}

func (m pageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = min(m.offset, m.maxOffset())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.outcome = quitRequested
			return m, tea.Quit
		case m.notice && key.Matches(msg, m.keys.Dismiss),
			!m.notice && (key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Left)):
			m.outcome = submitted
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		case key.Matches(msg, m.keys.Down):
			if m.offset < m.maxOffset() {
				m.offset++
			}
		}
	}
	return m, nil
}

// visibleLines is how many body lines fit; zero means unbounded
func (m pageModel) visibleLines() int {
	if m.height <= 0 {
		return 0
	}
	// header (2), scroll hints (2), help (2)
	return max(3, m.height-6)
}

func (m pageModel) maxOffset() int {
	visible := m.visibleLines()
	if visible == 0 || len(m.lines) <= visible {
		return 0
	}
	return len(m.lines) - visible
}

func (m pageModel) View() string {
	if m.outcome != pending {
		return ""
	}

	width := effectiveWidth(m.width, 72)
	var b strings.Builder
	renderHeader(&b, m.title, width)

	start, end := 0, len(m.lines)
	if visible := m.visibleLines(); visible > 0 && len(m.lines) > visible {
		start = m.offset
		end = min(start+visible, len(m.lines))
	}
	if start > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ 还有 %d 行...", start)))
		b.WriteString("\n")
	}
	for _, line := range m.lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(m.lines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ 还有 %d 行...", len(m.lines)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice {
		b.WriteString(renderHelp([]key.Binding{m.keys.Dismiss}))
	} else {
		b.WriteString(renderHelp(m.keys.PageHelp()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m pageModel) result() outcome {
	return m.outcome
}
