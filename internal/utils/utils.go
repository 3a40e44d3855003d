package utils

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MaskSecret masks a secret for display, keeping a few characters at each end
func MaskSecret(secret string) string {
	runes := []rune(secret)
	switch {
	case len(runes) == 0:
		return "(empty)"
	case len(runes) <= 6:
		return string(runes[:1]) + "***" + string(runes[len(runes)-1:])
	default:
		return string(runes[:3]) + "***" + string(runes[len(runes)-3:])
	}
}

// Truncate shortens s to at most width display cells, ending with "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > width-1 {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}

// PadRight pads s with spaces to width display cells
func PadRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
