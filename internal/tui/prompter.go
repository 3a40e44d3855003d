package tui

import (
	"errors"
	"strings"
)

// ErrQuit is returned by a Prompter when the user asks to leave the whole
// session (Ctrl+C). It is not a failure.
var ErrQuit = errors.New("quit requested")

// clearToken typed into a clearable field removes its value.
const clearToken = "-"

// Result is the outcome of a step: a value, or back.
type Result[T any] struct {
	Value T
	ok    bool
}

// Ok wraps a submitted value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, ok: true}
}

// Back reports that the user backed out of the step
func Back[T any]() Result[T] {
	return Result[T]{}
}

// OK reports whether the step produced a value
func (r Result[T]) OK() bool {
	return r.ok
}

// Tone colors a choice option
type Tone int

const (
	ToneWhite Tone = iota
	ToneGreen
	ToneYellow
	ToneRed
	ToneCyan
)

// Option is one entry of a choice step
type Option struct {
	Label       string
	Description string
	Tone        Tone
}

// TextStep configures a single-line text prompt
type TextStep struct {
	Title       string
	Description string
	Default     string
	Required    bool
	Secret      bool
	// AllowClear makes a lone "-" submit an empty value.
	AllowClear bool
}

// ChoiceStep configures a list selection prompt
type ChoiceStep struct {
	Title       string
	Description string
	Options     []Option
	Cursor      int
}

// NoticeLevel selects a notice's icon and color
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Notice is a blocking message dismissed by the user
type Notice struct {
	Title string
	Lines []string
	Level NoticeLevel
}

// Page is a read-only screen of pre-rendered lines
type Page struct {
	Title    string
	Subtitle string
	Lines    []string
}

// Prompter is the terminal boundary. The bool results are false when the user
// backs out. Errors are ErrQuit or terminal failures.
type Prompter interface {
	Text(step TextStep) (string, bool, error)
	Choose(step ChoiceStep) (int, bool, error)
	Notice(n Notice) error
	Page(p Page) error
}

// AskText prompts until it gets an acceptable value. The value is trimmed;
// required steps re-prompt on empty input with a warning.
func AskText(p Prompter, step TextStep) (Result[string], error) {
	for {
		raw, ok, err := p.Text(step)
		if err != nil {
			return Back[string](), err
		}
		if !ok {
			return Back[string](), nil
		}

		value := strings.TrimSpace(raw)
		if step.AllowClear && value == clearToken {
			return Ok(""), nil
		}
		if value != "" || !step.Required {
			return Ok(value), nil
		}

		err = p.Notice(Notice{
			Title: "输入无效",
			Lines: []string{"该字段不能为空。"},
			Level: NoticeWarning,
		})
		if err != nil {
			return Back[string](), err
		}
	}
}

// Choice pairs an option with the value it yields
type Choice[T any] struct {
	Option
	Value T
}

// Choose presents choices and returns the selected value.
func Choose[T any](p Prompter, title, description string, choices []Choice[T], cursor int) (Result[T], error) {
	options := make([]Option, len(choices))
	for i, c := range choices {
		options[i] = c.Option
	}

	idx, ok, err := p.Choose(ChoiceStep{
		Title:       title,
		Description: description,
		Options:     options,
		Cursor:      cursor,
	})
	if err != nil || !ok {
		return Back[T](), err
	}
	if idx < 0 || idx >= len(choices) {
		return Back[T](), nil
	}
	return Ok(choices[idx].Value), nil
}

// Confirm asks a yes/no question. Backing out counts as no.
func Confirm(p Prompter, title, description string, yes, no Option) (bool, error) {
	r, err := Choose(p, title, description, []Choice[bool]{
		{Option: yes, Value: true},
		{Option: no, Value: false},
	}, 0)
	if err != nil {
		return false, err
	}
	return r.OK() && r.Value, nil
}
