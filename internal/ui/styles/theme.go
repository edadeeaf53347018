package styles

import "github.com/charmbracelet/lipgloss"

var (
	BodyStyle    = lipgloss.NewStyle().Foreground(Body)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	FaintStyle   = lipgloss.NewStyle().Foreground(Faint)
	HeadingStyle = lipgloss.NewStyle().Foreground(Heading).Bold(true)
	CursorStyle  = lipgloss.NewStyle().Background(CursorBg)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent)
	JSONKeyStyle = lipgloss.NewStyle().Foreground(JSONKey)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Offline).Bold(true)
)

// ApplyTheme forces the light or dark variant of the palette. "default"
// keeps lipgloss' terminal background detection.
func ApplyTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}
