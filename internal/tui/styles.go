package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	labelStyle = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	badgePending = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badgeActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	badgeDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func statusBadge(s model.Status) string {
	switch s {
	case model.StatusDone:
		return badgeDone.Render("✔ " + s.Label())
	case model.StatusInProgress:
		return badgeActive.Render("… " + s.Label())
	default:
		return badgePending.Render("• " + s.Label())
	}
}

func panelString(inner string) string {
	return panelStyle.Render(inner)
}

// centered renders content centered in a w×h box, for the small auth views.
func centered(w, h int, content string) string {
	if w <= 0 || h <= 0 {
		return content
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
}

// truncate cuts s to at most w visible characters. Counting is by rune
// so multibyte text is never split mid-character.
func truncate(s string, w int) string {
	if w <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return string(r[:1])
	}
	return strings.TrimSpace(string(r[:w-1])) + "…"
}
