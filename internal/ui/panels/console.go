package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Console is the operator-facing log. It follows new lines until the user
// scrolls away and resumes on G.
type Console struct {
	viewport    viewport.Model
	lines       []string
	width       int
	height      int
	follow      bool
	focused     bool
	gPending    bool
	scrollSpeed int
}

func NewConsole(scrollSpeed int) Console {
	if scrollSpeed <= 0 {
		scrollSpeed = 3
	}
	return Console{viewport: viewport.New(0, 0), follow: true, scrollSpeed: scrollSpeed}
}

func (c Console) Update(msg tea.Msg) (Console, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		c.gPending = false
		return c, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "G":
			c.follow = true
			c.gPending = false
			c.viewport.GotoBottom()
			return c, nil
		case "g":
			if c.gPending {
				c.gPending = false
				c.follow = false
				c.viewport.GotoTop()
				return c, nil
			}
			c.gPending = true
			c.follow = false
			return c, tea.Tick(gTimeout, func(time.Time) tea.Msg {
				return GTimerExpiredMsg{}
			})
		case "j", "down":
			c.viewport.SetYOffset(c.viewport.YOffset + c.scrollSpeed)
			c.follow = c.viewport.AtBottom()
			return c, nil
		case "k", "up":
			c.follow = false
			c.viewport.SetYOffset(max(c.viewport.YOffset-c.scrollSpeed, 0))
			return c, nil
		case "y":
			if len(c.lines) > 0 {
				last := c.lines[len(c.lines)-1]
				return c, func() tea.Msg { return YankMsg{Text: last, Label: "console line"} }
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// SetLines replaces the log. Only appends are expected; the view stays
// pinned to the bottom while following.
func (c *Console) SetLines(lines []string) {
	if len(lines) == len(c.lines) {
		return
	}
	c.lines = lines
	c.refresh()
}

func (c *Console) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.viewport.Width = max(w-2, 0)
	c.viewport.Height = max(h-2, 0)
	c.refresh()
}

func (c *Console) SetFocused(f bool) {
	c.focused = f
}

// Following reports whether new lines scroll the view.
func (c Console) Following() bool {
	return c.follow
}

func (c *Console) refresh() {
	c.viewport.SetContent(c.renderContent())
	if c.follow {
		c.viewport.GotoBottom()
	}
}

func (c Console) renderContent() string {
	if len(c.lines) == 0 {
		return styles.FaintStyle.Render(" No console output yet.")
	}
	width := c.viewport.Width
	var b strings.Builder
	for i, line := range c.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.FaintStyle.Render(" > "))
		b.WriteString(styles.BodyStyle.Render(text.Truncate(line, max(width-3, 1))))
	}
	return b.String()
}

func (c Console) View() string {
	title := fmt.Sprintf("[4] Console (%d)", len(c.lines))
	if !c.follow {
		title += " ‖"
	}
	frame := border.Frame{
		Title:   title,
		Width:   c.width,
		Height:  c.height,
		Focused: c.focused,
		Hints: []border.Hint{
			{Key: "G", Label: " follow"},
			{Key: "y", Label: "ank last"},
		},
	}
	return frame.Render(c.viewport.View())
}
