package panels

import (
	"fmt"
	"strings"

	"github.com/bluesky/qmon/internal/queue"
	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const labelW = 12

// Controls shows connection, environment and execution state along with
// the running plan. It has no keys of its own; the app routes the global
// control keys to the store.
type Controls struct {
	state  queue.State
	width  int
	height int
	bar    progress.Model
	spin   spinner.Model
}

func NewControls() Controls {
	return Controls{
		state: queue.New(),
		bar: progress.New(
			progress.WithGradient(styles.ProgressStart, styles.ProgressEnd),
			progress.WithoutPercentage(),
		),
		spin: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

// Tick starts the running-plan spinner.
func (c Controls) Tick() tea.Cmd {
	return c.spin.Tick
}

func (c Controls) Update(msg tea.Msg) (Controls, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(tick)
		return c, cmd
	}
	return c, nil
}

func (c *Controls) SetState(st queue.State) {
	c.state = st
}

func (c *Controls) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.bar.Width = max(w-2-2-5, 4)
}

func (c Controls) View() string {
	inner := max(c.width-2, 0)
	st := c.state

	row := func(label, value string) string {
		return text.Truncate(" "+styles.MutedStyle.Render(text.PadRight(label, labelW))+value, inner)
	}

	label := "○ OFFLINE"
	if st.IsConnected() {
		label = "● ONLINE"
	}
	conn := lipgloss.NewStyle().Foreground(styles.ConnectionColor(st.Connection)).Bold(true).Render(label)

	env := styles.MutedStyle.Render("closed")
	if st.EnvOpen() {
		env = lipgloss.NewStyle().Foreground(styles.Online).Render("open")
	}
	destroy := styles.MutedStyle.Render("off")
	if st.EnvDestroy {
		destroy = lipgloss.NewStyle().Foreground(styles.Caution).Render("on")
	}

	exec := styles.MutedStyle.Render("idle")
	if st.IsRunning() {
		exec = lipgloss.NewStyle().Foreground(styles.Busy).Render(c.spin.View() + " running")
	}

	lines := []string{
		row("Connection", conn),
		row("Status", styles.BodyStyle.Render(st.Status)),
		row("Environment", env),
		row("Destroy", destroy),
		row("Execution", exec),
	}

	if rp := st.Running; rp != nil {
		lines = append(lines,
			row("Plan", styles.HeadingStyle.Render(rp.Name)+styles.MutedStyle.Render(" ("+rp.Status+")")),
			" "+c.bar.ViewAs(float64(rp.Progress)/100)+" "+styles.BodyStyle.Render(fmt.Sprintf("%4s", text.Percent(rp.Progress))),
		)
	} else {
		lines = append(lines, row("Plan", styles.FaintStyle.Render("none")))
	}

	frame := border.Frame{Title: "Controls", Width: c.width, Height: c.height}
	return frame.Render(strings.Join(lines, "\n"))
}
