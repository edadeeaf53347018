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

const (
	colPosW    = 3
	colStatusW = 8
)

// QueueList shows the pending plans in FIFO order.
type QueueList struct {
	plans   []queue.QueuedPlan
	cursor  listCursor
	width   int
	height  int
	focused bool
}

func NewQueueList() QueueList {
	return QueueList{}
}

func (q QueueList) Update(msg tea.Msg) (QueueList, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}

	switch key.String() {
	case "j", "down":
		q.cursor.move(1, len(q.plans))
	case "k", "up":
		q.cursor.move(-1, len(q.plans))
	case "G":
		q.cursor.bottom(len(q.plans))
	case "g":
		q.cursor.g(time.Now())
		q.cursor.scroll(q.visibleRows(), len(q.plans))
		return q, nil
	case "a":
		return q, func() tea.Msg { return AddPlanMsg{} }
	case "d", "delete":
		if p, ok := q.Selected(); ok {
			return q, func() tea.Msg { return RemovePlanMsg{ID: p.ID} }
		}
	case "C":
		if len(q.plans) > 0 {
			return q, func() tea.Msg { return ClearQueueMsg{} }
		}
	case "y":
		if p, ok := q.Selected(); ok {
			return q, func() tea.Msg { return YankMsg{Text: p.ID, Label: "plan id"} }
		}
	}
	q.cursor.lastG = time.Time{}
	q.cursor.scroll(q.visibleRows(), len(q.plans))
	return q, nil
}

// SetPlans replaces the displayed queue, keeping the cursor in range.
func (q *QueueList) SetPlans(plans []queue.QueuedPlan) {
	q.plans = plans
	q.cursor.clamp(len(plans))
	q.cursor.scroll(q.visibleRows(), len(plans))
}

func (q QueueList) Selected() (queue.QueuedPlan, bool) {
	if len(q.plans) == 0 {
		return queue.QueuedPlan{}, false
	}
	return q.plans[q.cursor.selected], true
}

func (q *QueueList) SetSize(w, h int) {
	q.width = w
	q.height = h
	q.cursor.scroll(q.visibleRows(), len(q.plans))
}

func (q *QueueList) SetFocused(f bool) {
	q.focused = f
}

// visibleRows excludes the column header.
func (q QueueList) visibleRows() int {
	return max(q.height-3, 0)
}

func (q QueueList) View() string {
	frame := border.Frame{
		Title:   fmt.Sprintf("[1] Queue (%d)", len(q.plans)),
		Width:   q.width,
		Height:  q.height,
		Focused: q.focused,
		Hints: []border.Hint{
			{Key: "a", Label: "dd"},
			{Key: "d", Label: "elete"},
			{Key: "C", Label: "lear"},
		},
	}
	return frame.Render(q.renderContent(max(q.width-2, 0)))
}

func (q QueueList) renderContent(width int) string {
	if len(q.plans) == 0 {
		return styles.MutedStyle.Render(" Queue is empty. Press a to add a plan.")
	}

	nameW := max(width-colPosW-colStatusW-4, 4)
	var b strings.Builder
	header := fmt.Sprintf(" %*s %-*s %-*s", colPosW, "#", nameW, "NAME", colStatusW, "STATUS")
	b.WriteString(styles.MutedStyle.Render(text.Truncate(header, width)))

	start, end := q.cursor.window(q.visibleRows(), len(q.plans))
	for i := start; i < end; i++ {
		p := q.plans[i]
		line := fmt.Sprintf(" %*d %s %s",
			colPosW, i+1,
			text.PadRight(text.Truncate(p.Name, nameW), nameW),
			lipgloss.NewStyle().Foreground(styles.Waiting).Render(text.PadRight(p.Status, colStatusW)),
		)
		line = text.Fit(line, width)
		if i == q.cursor.selected && q.focused {
			line = styles.CursorStyle.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}
