package panels

import (
	"strings"

	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const planPlaceholder = `# describe the plan, e.g.
count([det1, det2], num=10)`

// PlanEditor is the modal plan text editor. Its contents survive closing
// and reopening within a session.
type PlanEditor struct {
	input   textarea.Model
	width   int
	height  int
	screenW int
	screenH int
}

func NewPlanEditor(screenW, screenH int) *PlanEditor {
	ta := textarea.New()
	ta.Placeholder = planPlaceholder
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.Focus()

	m := &PlanEditor{input: ta}
	m.SetSize(screenW, screenH)
	return m
}

func (m *PlanEditor) SetSize(screenW, screenH int) {
	m.screenW = screenW
	m.screenH = screenH
	m.width = max(screenW*70/100, 40)
	m.height = max(screenH*70/100, 10)
	m.input.SetWidth(m.width - 2)
	m.input.SetHeight(max(m.height-2, 3))
}

func (m *PlanEditor) Init() tea.Cmd {
	return m.input.Focus()
}

func (m *PlanEditor) Update(msg tea.Msg) (*PlanEditor, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return CloseModalMsg{} }
		case "ctrl+s":
			code := strings.TrimSpace(m.input.Value())
			if code == "" {
				return m, nil
			}
			return m, func() tea.Msg { return SavePlanMsg{Code: code} }
		case "ctrl+l":
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the plan text.
func (m *PlanEditor) Value() string { return m.input.Value() }

func (m *PlanEditor) View() string {
	hints := []border.Hint{
		{Key: "^S", Label: " save"},
		{Key: "^L", Label: " clear"},
		{Key: "Esc", Label: " close"},
	}
	frame := border.Frame{Title: "Plan Editor", Hints: hints, Width: m.width, Height: m.height, Focused: true}
	return frame.Render(m.input.View())
}
