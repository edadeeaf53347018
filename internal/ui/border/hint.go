package border

import (
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Hint is a key hint shown in a focused frame's bottom edge, rendered as
// [key]label.
type Hint struct {
	Key   string
	Label string
}

func (h Hint) Render() string {
	k := lipgloss.NewStyle().Foreground(styles.HintKey).Bold(true)
	l := lipgloss.NewStyle().Foreground(styles.HintLabel)
	return k.Render("["+h.Key+"]") + l.Render(h.Label)
}

// Width is the visible width of the rendered hint.
func (h Hint) Width() int {
	return 2 + ansi.StringWidth(h.Key) + ansi.StringWidth(h.Label)
}
