package panels

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// panelAdapter wraps panel types that use typed Update signatures into
// a proper tea.Model so they can be used with teatest.
type panelAdapter struct {
	view     func() string
	updateFn func(tea.Msg) tea.Cmd
}

func (a panelAdapter) Init() tea.Cmd                           { return nil }
func (a panelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return a, a.updateFn(msg) }
func (a panelAdapter) View() string                            { return a.view() }

func wrapQueueList(q *QueueList) tea.Model {
	return panelAdapter{
		view: func() string { return q.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := q.Update(msg)
			*q = next
			return cmd
		},
	}
}

func wrapRunViewer(r *RunViewer) tea.Model {
	return panelAdapter{
		view: func() string { return r.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := r.Update(msg)
			*r = next
			return cmd
		},
	}
}

func wrapConsole(c *Console) tea.Model {
	return panelAdapter{
		view: func() string { return c.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := c.Update(msg)
			*c = next
			return cmd
		},
	}
}

// wrapStatusBar uses a no-op update since StatusBar has no Update method.
func wrapStatusBar(sb *StatusBar) tea.Model {
	return panelAdapter{
		view:     func() string { return sb.View() },
		updateFn: func(tea.Msg) tea.Cmd { return nil },
	}
}

// waitDuration is the standard timeout for WaitFor calls in tests.
const waitDuration = 3 * time.Second

// waitForContains waits until the output contains the given substring.
func waitForContains(tb testing.TB, tm *teatest.TestModel, substr string) {
	tb.Helper()
	teatest.WaitFor(
		tb,
		tm.Output(),
		func(bts []byte) bool { return bytes.Contains(bts, []byte(substr)) },
		teatest.WithDuration(waitDuration),
	)
}

func keyMsg(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enterKey() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }
func escKey() tea.Msg   { return tea.KeyMsg{Type: tea.KeyEsc} }

// run executes cmd and returns its message, or nil for a nil cmd.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
