package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/queue"
	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const colTimeW = len(queue.CompletedAtLayout)

// History lists completed plans, newest first.
type History struct {
	items   []queue.HistoryItem
	cursor  listCursor
	width   int
	height  int
	focused bool
}

func NewHistory() History {
	return History{}
}

func (h History) Update(msg tea.Msg) (History, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "j", "down":
		h.cursor.move(1, len(h.items))
	case "k", "up":
		h.cursor.move(-1, len(h.items))
	case "G":
		h.cursor.bottom(len(h.items))
	case "g":
		h.cursor.g(time.Now())
		h.cursor.scroll(h.visibleRows(), len(h.items))
		return h, nil
	case "r":
		if item, ok := h.Selected(); ok {
			return h, func() tea.Msg { return RerunMsg{Item: item} }
		}
	case "enter":
		if item, ok := h.Selected(); ok {
			return h, func() tea.Msg { return OpenRunMsg{UID: item.ID} }
		}
	case "y":
		if item, ok := h.Selected(); ok {
			return h, func() tea.Msg { return YankMsg{Text: item.ID, Label: "run id"} }
		}
	}
	h.cursor.lastG = time.Time{}
	h.cursor.scroll(h.visibleRows(), len(h.items))
	return h, nil
}

// SetItems takes history in completion order and displays it reversed.
func (h *History) SetItems(items []queue.HistoryItem) {
	added := len(items) - len(h.items)
	rev := make([]queue.HistoryItem, len(items))
	for i, it := range items {
		rev[len(items)-1-i] = it
	}
	h.items = rev
	// Keep a non-top selection on the same entry as new ones arrive above it.
	if added > 0 && h.cursor.selected > 0 {
		h.cursor.selected += added
	}
	h.cursor.clamp(len(rev))
	h.cursor.scroll(h.visibleRows(), len(rev))
}

func (h History) Selected() (queue.HistoryItem, bool) {
	if len(h.items) == 0 {
		return queue.HistoryItem{}, false
	}
	return h.items[h.cursor.selected], true
}

func (h *History) SetSize(w, hgt int) {
	h.width = w
	h.height = hgt
	h.cursor.scroll(h.visibleRows(), len(h.items))
}

func (h *History) SetFocused(f bool) {
	h.focused = f
}

func (h History) visibleRows() int {
	return max(h.height-2, 0)
}

func (h History) View() string {
	frame := border.Frame{
		Title:   fmt.Sprintf("[2] History (%d)", len(h.items)),
		Width:   h.width,
		Height:  h.height,
		Focused: h.focused,
		Hints: []border.Hint{
			{Key: "↵", Label: " view"},
			{Key: "r", Label: "erun"},
			{Key: "y", Label: "ank"},
		},
	}
	return frame.Render(h.renderContent(max(h.width-2, 0)))
}

func (h History) renderContent(width int) string {
	if len(h.items) == 0 {
		return styles.MutedStyle.Render(" No completed plans.")
	}

	nameW := max(width-colTimeW-5, 4)
	var lines []string
	start, end := h.cursor.window(h.visibleRows(), len(h.items))
	for i := start; i < end; i++ {
		it := h.items[i]
		icon := "✗"
		if it.Success {
			icon = "✓"
		}
		line := fmt.Sprintf(" %s %s %s",
			lipgloss.NewStyle().Foreground(styles.OutcomeColor(it.Success)).Render(icon),
			text.PadRight(text.Truncate(it.Name, nameW), nameW),
			styles.MutedStyle.Render(it.CompletedAt),
		)
		line = text.Fit(line, width)
		if i == h.cursor.selected && h.focused {
			line = styles.CursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
