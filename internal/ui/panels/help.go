package panels

import (
	"strings"

	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type HelpOverlay struct {
	width  int
	height int
}

func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		width:  50,
		height: 30,
	}
}

func (h HelpOverlay) Update(msg tea.Msg) (HelpOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseModalMsg{} }
		}
	}
	return h, nil
}

func (h HelpOverlay) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.HintKey).Bold(true)
	descStyle := styles.BodyStyle
	sectionStyle := styles.HeadingStyle

	kv := func(key, desc string) string {
		return "  " + keyStyle.Render(text.PadRight(key, 9)) + descStyle.Render(desc)
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Queue server") + "\n")
	b.WriteString(kv("c / x", "Connect / disconnect") + "\n")
	b.WriteString(kv("O / E", "Open / close environment") + "\n")
	b.WriteString(kv("D", "Toggle environment destroy") + "\n")
	b.WriteString(kv("s / S", "Start / stop queue") + "\n")
	b.WriteString(kv("e", "Plan editor") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Queue and history") + "\n")
	b.WriteString(kv("a", "Add plan") + "\n")
	b.WriteString(kv("d", "Remove selected plan") + "\n")
	b.WriteString(kv("C", "Clear queue") + "\n")
	b.WriteString(kv("r", "Rerun history entry") + "\n")
	b.WriteString(kv("↵", "View run documents") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Run viewer") + "\n")
	b.WriteString(kv("↵", "Expand document") + "\n")
	b.WriteString(kv("o", "Open run by uid") + "\n")
	b.WriteString(kv("L", "Open latest live run") + "\n")
	b.WriteString(kv("w / y", "Export to file / clipboard") + "\n")
	b.WriteString(kv("X", "Close run") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Navigation") + "\n")
	b.WriteString(kv("j/k", "Move up/down") + "\n")
	b.WriteString(kv("G/gg", "Jump to bottom/top") + "\n")
	b.WriteString(kv("Tab/1-4", "Focus panel") + "\n")
	b.WriteString(kv("?", "Toggle this help") + "\n")
	b.WriteString(kv("q", "Quit"))

	frame := border.Frame{
		Title:   "Keybinds",
		Hints:   []border.Hint{{Key: "?", Label: " close"}, {Key: "Esc", Label: " close"}},
		Width:   h.width,
		Height:  h.height,
		Focused: true,
	}
	return frame.Render(b.String())
}
