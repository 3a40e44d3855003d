package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin is not an interactive terminal
var ErrNotTerminal = errors.New("ccm requires an interactive terminal")

var isTerminalFn = term.IsTerminal

// TerminalPrompter runs each step as its own short-lived, inline bubbletea program
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading in and drawing to out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

func (t *TerminalPrompter) run(m stepModel) (tea.Model, error) {
	final, err := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out)).Run()
	if err != nil {
		return nil, fmt.Errorf("terminal prompt failed: %w", err)
	}
	if sm, ok := final.(stepModel); ok && sm.result() == quitRequested {
		return final, ErrQuit
	}
	return final, nil
}

// Text implements Prompter
func (t *TerminalPrompter) Text(step TextStep) (string, bool, error) {
	final, err := t.run(newTextModel(step))
	if err != nil {
		return "", false, err
	}
	m := final.(textModel)
	return m.Value(), m.result() == submitted, nil
}

// Choose implements Prompter
func (t *TerminalPrompter) Choose(step ChoiceStep) (int, bool, error) {
	final, err := t.run(newChoiceModel(step))
	if err != nil {
		return 0, false, err
	}
	m := final.(choiceModel)
	return m.Selected(), m.result() == submitted, nil
}

// Notice implements Prompter
func (t *TerminalPrompter) Notice(n Notice) error {
	_, err := t.run(newNoticeModel(n))
	return err
}

// Page implements Prompter
func (t *TerminalPrompter) Page(p Page) error {
	_, err := t.run(newPageModel(p))
	return err
}

// Run starts an interactive session on the process terminal. Ctrl+C ends the
// session normally.
func Run(deps Deps) error {
	if !isTerminal() {
		return ErrNotTerminal
	}

	if deps.Prompter == nil {
		deps.Prompter = NewTerminalPrompter(os.Stdin, os.Stdout)
	}

	err := NewSession(deps).Run()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	return isTerminalFn(int(os.Stdin.Fd()))
}
