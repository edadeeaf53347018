package panels

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/rundocs"
	"github.com/bluesky/qmon/internal/ui/border"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const colKindW = 11

var jsonKeyRe = regexp.MustCompile(`^(\s*)("(?:[^"\\]|\\.)*")(:)`)

// RunViewer shows the documents of one run. It owns the run view so fetch
// results and live pushes land in one place; the app performs the fetch.
type RunViewer struct {
	view    *rundocs.View
	cursor  listCursor
	width   int
	height  int
	focused bool

	// tail keeps the cursor on the newest document as pushes arrive.
	tail bool

	detail   bool
	detailVP viewport.Model

	prompting bool
	prompt    textinput.Model
}

func NewRunViewer() RunViewer {
	ti := textinput.New()
	ti.Prompt = "uid: "
	ti.Placeholder = "run uid"
	ti.CharLimit = 128
	return RunViewer{
		view:     rundocs.NewView(),
		detailVP: viewport.New(0, 0),
		prompt:   ti,
		tail:     true,
	}
}

// Capturing reports whether the viewer wants every key, as while typing a uid.
func (r RunViewer) Capturing() bool {
	return r.prompting
}

func (r RunViewer) Update(msg tea.Msg) (RunViewer, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if r.prompting {
			var cmd tea.Cmd
			r.prompt, cmd = r.prompt.Update(msg)
			return r, cmd
		}
		return r, nil
	}
	if r.prompting {
		return r.updatePrompt(key)
	}
	if r.detail {
		return r.updateDetail(key)
	}

	n := r.view.Len()
	switch key.String() {
	case "j", "down":
		r.cursor.move(1, n)
		r.tail = r.cursor.selected == n-1
	case "k", "up":
		r.cursor.move(-1, n)
		r.tail = false
	case "G":
		r.cursor.bottom(n)
		r.tail = true
	case "g":
		if r.cursor.g(time.Now()) {
			r.tail = false
		}
		r.cursor.scroll(r.visibleRows(), n)
		return r, nil
	case "enter":
		if doc, ok := r.Selected(); ok {
			r.detail = true
			r.detailVP.SetContent(highlightJSON(doc.Pretty()))
			r.detailVP.GotoTop()
		}
	case "o":
		r.prompting = true
		r.prompt.SetValue("")
		return r, r.prompt.Focus()
	case "w":
		if r.view.OpenUID() != "" {
			return r, func() tea.Msg { return ExportRunMsg{} }
		}
	case "y":
		if r.view.OpenUID() != "" {
			return r, func() tea.Msg { return ExportRunMsg{Clipboard: true} }
		}
	case "L":
		return r, func() tea.Msg { return FollowLiveMsg{} }
	case "X":
		if r.view.OpenUID() != "" || r.view.Pending() != "" {
			return r, func() tea.Msg { return CloseRunMsg{} }
		}
	}
	r.cursor.lastG = time.Time{}
	r.cursor.scroll(r.visibleRows(), n)
	return r, nil
}

func (r RunViewer) updatePrompt(key tea.KeyMsg) (RunViewer, tea.Cmd) {
	switch key.String() {
	case "esc":
		r.prompting = false
		r.prompt.Blur()
		return r, nil
	case "enter":
		uid := strings.TrimSpace(r.prompt.Value())
		r.prompting = false
		r.prompt.Blur()
		if uid == "" {
			return r, nil
		}
		return r, func() tea.Msg { return OpenRunMsg{UID: uid} }
	}
	var cmd tea.Cmd
	r.prompt, cmd = r.prompt.Update(key)
	return r, cmd
}

func (r RunViewer) updateDetail(key tea.KeyMsg) (RunViewer, tea.Cmd) {
	switch key.String() {
	case "esc", "enter":
		r.detail = false
		return r, nil
	case "j", "down":
		r.detailVP.ScrollDown(1)
		return r, nil
	case "k", "up":
		r.detailVP.ScrollUp(1)
		return r, nil
	case "G":
		r.detailVP.GotoBottom()
		return r, nil
	case "y":
		if doc, ok := r.Selected(); ok {
			body := doc.Pretty()
			return r, func() tea.Msg { return YankMsg{Text: body, Label: "document"} }
		}
		return r, nil
	}
	var cmd tea.Cmd
	r.detailVP, cmd = r.detailVP.Update(key)
	return r, cmd
}

// Open marks uid as loading. The current documents stay visible until the
// fetch resolves.
func (r *RunViewer) Open(uid string) {
	r.view.Open(uid)
}

// Resolve applies a fetch result. A stale result changes nothing and a
// failed one only clears the loading indicator.
func (r *RunViewer) Resolve(uid string, docs []rundocs.Document, err error) rundocs.ResolveResult {
	res := r.view.Resolve(uid, docs, err)
	if res == rundocs.Applied {
		r.detail = false
		r.cursor = listCursor{}
		r.tail = false
	}
	r.cursor.scroll(r.visibleRows(), r.view.Len())
	return res
}

// Push offers a live document to the open run.
func (r *RunViewer) Push(doc rundocs.Document) bool {
	if !r.view.Push(doc) {
		return false
	}
	if r.tail {
		r.cursor.bottom(r.view.Len())
	}
	r.cursor.scroll(r.visibleRows(), r.view.Len())
	return true
}

// Close drops the open run and any pending fetch.
func (r *RunViewer) Close() {
	r.view.Close()
	r.cursor = listCursor{}
	r.detail = false
	r.tail = true
}

func (r RunViewer) OpenUID() string               { return r.view.OpenUID() }
func (r RunViewer) Pending() string               { return r.view.Pending() }
func (r RunViewer) Documents() []rundocs.Document { return r.view.Docs() }

func (r RunViewer) Selected() (rundocs.Document, bool) {
	docs := r.view.Docs()
	if len(docs) == 0 {
		return nil, false
	}
	return docs[r.cursor.selected], true
}

func (r *RunViewer) SetSize(w, h int) {
	r.width = w
	r.height = h
	r.detailVP.Width = max(w-2, 0)
	r.detailVP.Height = max(h-3, 0)
	r.prompt.Width = max(w-10, 8)
	r.cursor.scroll(r.visibleRows(), r.view.Len())
}

func (r *RunViewer) SetFocused(f bool) {
	r.focused = f
}

// visibleRows leaves room for the header line and the prompt.
func (r RunViewer) visibleRows() int {
	rows := r.height - 3
	if r.prompting {
		rows--
	}
	return max(rows, 0)
}

func (r RunViewer) title() string {
	switch {
	case r.view.OpenUID() != "":
		return "[3] Run " + text.ShortID(r.view.OpenUID(), 12)
	case r.view.Pending() != "":
		return "[3] Run " + text.ShortID(r.view.Pending(), 12)
	}
	return "[3] Run Viewer"
}

func (r RunViewer) View() string {
	hints := []border.Hint{
		{Key: "o", Label: "pen uid"},
		{Key: "L", Label: " live"},
		{Key: "w", Label: "rite"},
		{Key: "y", Label: " copy"},
		{Key: "X", Label: " close"},
	}
	if r.detail {
		hints = []border.Hint{{Key: "esc", Label: " back"}, {Key: "y", Label: "ank doc"}}
	}
	frame := border.Frame{
		Title:   r.title(),
		Width:   r.width,
		Height:  r.height,
		Focused: r.focused,
		Hints:   hints,
	}
	return frame.Render(r.renderContent(max(r.width-2, 0)))
}

func (r RunViewer) renderContent(width int) string {
	var lines []string
	lines = append(lines, r.statusLine(width))

	if r.detail {
		if doc, ok := r.Selected(); ok {
			lines[0] = text.Truncate(" "+lipgloss.NewStyle().Foreground(styles.KindColor(doc.Kind())).Render(doc.Summary()), width)
		}
		lines = append(lines, r.detailVP.View())
		return strings.Join(lines, "\n")
	}

	docs := r.view.Docs()
	start, end := r.cursor.window(r.visibleRows(), len(docs))
	for i := start; i < end; i++ {
		d := docs[i]
		kind := d.Kind()
		line := fmt.Sprintf(" %4d %s %s",
			i+1,
			lipgloss.NewStyle().Foreground(styles.KindColor(kind)).Render(text.PadRight(text.Truncate(kind, colKindW), colKindW)),
			styles.BodyStyle.Render(d.Summary()),
		)
		line = text.Fit(line, width)
		if i == r.cursor.selected && r.focused {
			line = styles.CursorStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if r.prompting {
		for len(lines) < r.visibleRows()+1 {
			lines = append(lines, "")
		}
		lines = append(lines, " "+r.prompt.View())
	}
	return strings.Join(lines, "\n")
}

func (r RunViewer) statusLine(width int) string {
	var parts []string
	if uid := r.view.OpenUID(); uid != "" {
		parts = append(parts, styles.HeadingStyle.Render(text.Count(r.view.Len(), "document")))
	} else if r.view.Pending() == "" {
		parts = append(parts, styles.MutedStyle.Render("No run open. Press ↵ on a history entry or o to enter a uid."))
	}
	if p := r.view.Pending(); p != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Busy).Render("loading "+text.ShortID(p, 12)+"…"))
	}
	return text.Truncate(" "+strings.Join(parts, styles.FaintStyle.Render(" · ")), width)
}

// highlightJSON colors object keys in indented JSON.
func highlightJSON(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		m := jsonKeyRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		lines[i] = line[m[2]:m[3]] + styles.JSONKeyStyle.Render(line[m[4]:m[5]]) + line[m[6]:]
	}
	return strings.Join(lines, "\n")
}
