// Package border draws the rounded frames every panel sits in.
package border

import (
	"strings"

	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/charmbracelet/lipgloss"
)

const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
)

// Frame describes one bordered panel. Hints only show while focused.
type Frame struct {
	Title   string
	Hints   []Hint
	Width   int
	Height  int
	Focused bool
}

// Render draws the frame around content, cropping or padding it to exactly
// fill the inner area.
func (f Frame) Render(content string) string {
	if f.Width < 2 || f.Height < 2 {
		return ""
	}
	inner := f.Height - 2

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	if len(lines) > inner {
		lines = lines[:inner]
	}
	for len(lines) < inner {
		lines = append(lines, "")
	}

	parts := make([]string, 0, f.Height)
	parts = append(parts, f.top())
	for _, line := range lines {
		parts = append(parts, f.side(line))
	}
	parts = append(parts, f.bottom())
	return strings.Join(parts, "\n")
}

func (f Frame) edge() lipgloss.Style {
	if f.Focused {
		return lipgloss.NewStyle().Foreground(styles.FrameActive)
	}
	return lipgloss.NewStyle().Foreground(styles.FrameIdle)
}

// top renders ╭─ Title ───╮.
func (f Frame) top() string {
	e := f.edge()
	span := f.Width - 2
	if f.Title == "" {
		return e.Render(topLeft + strings.Repeat(horizontal, span) + topRight)
	}

	ts := styles.MutedStyle.Bold(true)
	if f.Focused {
		ts = styles.HeadingStyle
	}
	title := ts.Render(f.Title)
	fill := span - 3 - lipgloss.Width(title)
	if fill < 0 {
		title = ts.Render(truncate(f.Title, span-3))
		fill = max(span-3-lipgloss.Width(title), 0)
	}
	return e.Render(topLeft+horizontal+" ") + title + e.Render(" "+strings.Repeat(horizontal, fill)+topRight)
}

// bottom renders ╰─ [a]dd  [d]elete ───╯. Hints that do not fit are dropped.
func (f Frame) bottom() string {
	e := f.edge()
	span := f.Width - 2
	if !f.Focused || len(f.Hints) == 0 {
		return e.Render(bottomLeft + strings.Repeat(horizontal, span) + bottomRight)
	}

	room := max(span-3, 0)
	var rendered []string
	used := 0
	for _, h := range f.Hints {
		w := h.Width()
		if len(rendered) > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		rendered = append(rendered, h.Render())
		used += w
	}
	return e.Render(bottomLeft+horizontal+" ") +
		strings.Join(rendered, "  ") +
		e.Render(" "+strings.Repeat(horizontal, room-used)+bottomRight)
}

// side fits one content line between the vertical edges.
func (f Frame) side(line string) string {
	e := f.edge()
	span := f.Width - 2
	if w := lipgloss.Width(line); w > span {
		line = lipgloss.NewStyle().MaxWidth(span).Render(line)
	}
	if w := lipgloss.Width(line); w < span {
		line += strings.Repeat(" ", span-w)
	}
	return e.Render(vertical) + line + e.Render(vertical)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
