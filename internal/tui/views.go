package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"ccm/config/models"
	syncpkg "ccm/config/sync"
	"ccm/internal/utils"
)

const appTitle = "CCM 配置中心"

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	stepTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

var toneColors = map[Tone]lipgloss.Color{
	ToneWhite:  lipgloss.Color("252"),
	ToneGreen:  lipgloss.Color("42"),
	ToneYellow: lipgloss.Color("214"),
	ToneRed:    lipgloss.Color("196"),
	ToneCyan:   lipgloss.Color("51"),
}

func toneStyle(t Tone) lipgloss.Style {
	color, ok := toneColors[t]
	if !ok {
		color = toneColors[ToneWhite]
	}
	return lipgloss.NewStyle().Foreground(color)
}

// effectiveWidth caps the terminal width for readability
func effectiveWidth(width, fallback int) int {
	if width <= 0 {
		return fallback
	}
	if width-2 < 80 {
		return width - 2
	}
	return 80
}

func renderHeader(b *strings.Builder, title string, width int) {
	b.WriteString(titleStyle.Render(appTitle))
	if title != "" {
		b.WriteString(dimStyle.Render(" › "))
		b.WriteString(stepTitleStyle.Render(title))
	}
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpStyle.Render(h.Desc))
	}
	return strings.Join(parts, "   ")
}

// renderOption renders one list row: marker, label, then a dim description
func renderOption(opt Option, selected bool, width int) string {
	labelWidth := max(8, min(24, width/3))
	label := utils.PadRight(utils.Truncate(opt.Label, labelWidth), labelWidth)

	marker := "  "
	style := toneStyle(opt.Tone)
	if selected {
		marker = "› "
		style = style.Inherit(selectedStyle)
	}

	line := marker + style.Render(label)
	if opt.Description != "" {
		descWidth := max(10, width-labelWidth-5)
		line += dimStyle.Render(" - " + utils.Truncate(opt.Description, descWidth))
	}
	return line
}

func noticeStyle(level NoticeLevel) (string, lipgloss.Style) {
	switch level {
	case NoticeWarning:
		return "⚠", warningStyle
	case NoticeError:
		return "✖", errorStyle
	default:
		return "✔", messageStyle
	}
}

// profileOptions lists profiles for a picker, marking the active one
func profileOptions(doc *models.Document) []Option {
	options := make([]Option, len(doc.Profiles))
	for i, p := range doc.Profiles {
		opt := Option{
			Label:       p.Name,
			Description: fmt.Sprintf("%s | %s | %s", p.ProviderName, p.ModeKind(), p.ID),
			Tone:        ToneWhite,
		}
		if p.ID == doc.ActiveID() {
			opt.Label += " [ACTIVE]"
			opt.Tone = ToneGreen
		}
		options[i] = opt
	}
	return options
}

// profileTableLines renders the profile list page body
func profileTableLines(doc *models.Document) []string {
	if len(doc.Profiles) == 0 {
		return []string{warningStyle.Render("当前没有任何配置。")}
	}

	lines := []string{
		dimStyle.Render("#   Name                     Provider        Mode          Active"),
		dimStyle.Render("--  ------------------------ --------------- ------------- ------"),
	}
	for i, p := range doc.Profiles {
		active := dimStyle.Render("no")
		if p.ID == doc.ActiveID() {
			active = activeStyle.Render("yes")
		}
		lines = append(lines,
			fmt.Sprintf("%s  %s %s %s %s",
				utils.PadRight(fmt.Sprint(i+1), 2),
				keyStyle.Render(utils.PadRight(utils.Truncate(p.Name, 24), 24)),
				utils.PadRight(utils.Truncate(p.ProviderName, 15), 15),
				utils.PadRight(string(p.ModeKind()), 13),
				active,
			),
			dimStyle.Render("    id: "+p.ID),
		)
	}
	return lines
}

// statusLines renders the active profile page body. disk is the env currently
// in the settings file; onDisk is false when it has none.
func statusLines(p models.Profile, preview, disk models.EnvVars, onDisk bool, diskErr error) []string {
	label := func(s string) string { return dimStyle.Render(s + ":") }
	lines := []string{
		keyStyle.Bold(true).Render(p.Name) + " " + activeStyle.Render("[ACTIVE]"),
		"",
		label("provider") + " " + p.ProviderName,
		label("baseUrl") + " " + emptyMarker(p.BaseURL),
		label("apiKey") + " " + utils.MaskSecret(p.APIKey),
		label("mode") + " " + string(p.ModeKind()),
		label("updatedAt") + " " + models.FormatTimestamp(p.UpdatedAt),
		"",
		stepTitleStyle.Render("settings.env preview"),
	}

	if preview.Len() == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}
	for _, v := range preview {
		value := v.Value
		if v.Key == syncpkg.EnvAuthToken {
			value = utils.MaskSecret(value)
		}
		lines = append(lines, "- "+keyStyle.Render(v.Key)+" = "+value)
	}

	lines = append(lines, "")
	switch {
	case diskErr != nil:
		lines = append(lines, errorStyle.Render("无法读取 settings.json: "+diskErr.Error()))
	case !onDisk:
		lines = append(lines, warningStyle.Render("settings.json 中没有 env，请执行重新同步。"))
	case disk.Equal(preview):
		lines = append(lines, messageStyle.Render("settings.json 已与当前配置一致。"))
	default:
		lines = append(lines, warningStyle.Render("settings.json 与当前配置不一致，请执行重新同步。"))
	}
	return lines
}

func emptyMarker(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}
