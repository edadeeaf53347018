package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/config"
	"github.com/bluesky/qmon/internal/queue"
	"github.com/bluesky/qmon/internal/rundocs"
	"github.com/bluesky/qmon/internal/ui/clipboard"
	"github.com/bluesky/qmon/internal/ui/layout"
	"github.com/bluesky/qmon/internal/ui/panels"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	panelQueue     = 0
	panelHistory   = 1
	panelRunViewer = 2
	panelConsole   = 3
	numPanels      = 4
)

// Fetcher retrieves the documents of one run.
type Fetcher interface {
	FetchDocuments(ctx context.Context, uid string) ([]rundocs.Document, error)
}

type App struct {
	config  *config.Config
	store   *queue.Store
	fetcher Fetcher
	timeout time.Duration

	width        int
	height       int
	layout       layout.Layout
	focusedPanel int

	controls  panels.Controls
	queueList panels.QueueList
	history   panels.History
	runViewer panels.RunViewer
	console   panels.Console
	statusBar panels.StatusBar

	helpOverlay *panels.HelpOverlay
	editor      *panels.PlanEditor
	editorOpen  bool

	keys  KeyMap
	ready bool

	liveActive bool
	liveCount  int
	latestRun  string
}

// Option customizes an App.
type Option func(*App)

// WithFetcher replaces the HTTP run document client.
func WithFetcher(f Fetcher) Option {
	return func(a *App) { a.fetcher = f }
}

// WithStore injects the queue store.
func WithStore(s *queue.Store) Option {
	return func(a *App) { a.store = s }
}

func NewApp(cfg *config.Config, opts ...Option) App {
	a := App{
		config:    cfg,
		timeout:   cfg.RequestTimeout(),
		controls:  panels.NewControls(),
		queueList: panels.NewQueueList(),
		history:   panels.NewHistory(),
		runViewer: panels.NewRunViewer(),
		console:   panels.NewConsole(cfg.UI.ConsoleScrollSpeed),
		statusBar: panels.NewStatusBar(),
		keys:      DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.store == nil {
		a.store = queue.NewStore()
	}
	if a.fetcher == nil {
		a.fetcher = rundocs.NewClient(cfg.Server.URL, a.timeout)
	}
	a.queueList.SetFocused(true)
	a.syncState()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(listenForChanges(a.store.Changes()), a.controls.Tick())
}

// Store exposes the queue store.
func (a App) Store() *queue.Store {
	return a.store
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout = layout.Calculate(msg.Width, msg.Height)
		a.propagateSizes()
		if a.editor != nil {
			a.editor.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case CloseModalMsg:
		a.helpOverlay = nil
		a.editorOpen = false
		return a, nil

	case StoreUpdatedMsg:
		a.syncState()
		return a, listenForChanges(a.store.Changes())

	case ClearFlashMsg:
		a.statusBar.ClearFlash()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.controls, cmd = a.controls.Update(msg)
		return a, cmd

	case panels.GTimerExpiredMsg:
		var cmd tea.Cmd
		a.console, cmd = a.console.Update(msg)
		return a, cmd

	case panels.AddPlanMsg:
		a.store.AddPlan()
		a.syncState()
		return a, nil

	case panels.RemovePlanMsg:
		a.store.RemovePlan(msg.ID)
		a.syncState()
		return a, nil

	case panels.ClearQueueMsg:
		a.store.ClearQueue()
		a.syncState()
		return a, a.flash("Queue cleared", panels.FlashInfo)

	case panels.RerunMsg:
		a.store.Rerun(msg.Item)
		a.syncState()
		return a, nil

	case panels.OpenRunMsg:
		return a, a.openRun(msg.UID)

	case panels.FollowLiveMsg:
		if a.latestRun == "" {
			return a, a.flash("No live run seen yet", panels.FlashWarning)
		}
		return a, a.openRun(a.latestRun)

	case panels.CloseRunMsg:
		a.runViewer.Close()
		return a, nil

	case RunDocumentsMsg:
		return a, a.resolveRun(msg)

	case LiveMsg:
		return a, a.handleLive(msg)

	case LiveStatusMsg:
		a.liveActive = msg.Active
		a.statusBar.SetLive(a.liveActive, a.liveCount)
		if msg.Err != nil {
			log.Printf("live feed ended: %v", msg.Err)
			return a, a.flash("Live updates stopped: "+msg.Err.Error(), panels.FlashWarning)
		}
		return a, nil

	case panels.ExportRunMsg:
		return a, a.exportRun(msg.Clipboard)

	case exportDoneMsg:
		switch {
		case msg.Err != nil:
			log.Printf("export %s: %v", msg.UID, msg.Err)
			return a, a.flash("Export failed: "+msg.Err.Error(), panels.FlashError)
		case msg.Clipboard:
			return a, a.flash(fmt.Sprintf("Copied %d documents to clipboard", msg.Count), panels.FlashSuccess)
		}
		return a, a.flash("Exported "+msg.Path, panels.FlashSuccess)

	case panels.YankMsg:
		text, label := msg.Text, msg.Label
		return a, func() tea.Msg {
			osc, err := clipboard.Write(text)
			return yankDoneMsg{Label: label, OSC52: osc, Err: err}
		}

	case yankDoneMsg:
		if msg.Err != nil {
			return a, a.flash("Copy failed: "+msg.Err.Error(), panels.FlashError)
		}
		return a, a.flash("Copied "+msg.Label, panels.FlashSuccess)

	case panels.SavePlanMsg:
		log.Printf("plan saved:\n%s", msg.Code)
		a.editorOpen = false
		n := len(strings.Split(msg.Code, "\n"))
		return a, a.flash(fmt.Sprintf("Plan saved (%d lines)", n), panels.FlashSuccess)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.editorOpen {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}
	if a.runViewer.Capturing() {
		var cmd tea.Cmd
		a.runViewer, cmd = a.runViewer.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.helpOverlay != nil {
		var cmd tea.Cmd
		*a.helpOverlay, cmd = a.helpOverlay.Update(msg)
		return a, cmd
	}

	if a.editorOpen {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}

	if a.runViewer.Capturing() {
		var cmd tea.Cmd
		a.runViewer, cmd = a.runViewer.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.helpOverlay = panels.NewHelpOverlay()
		return a, nil
	case key.Matches(msg, a.keys.FocusNext):
		a.focusedPanel = (a.focusedPanel + 1) % numPanels
		a.updateFocusState()
		return a, nil
	case key.Matches(msg, a.keys.FocusPrev):
		a.focusedPanel = (a.focusedPanel + numPanels - 1) % numPanels
		a.updateFocusState()
		return a, nil
	case key.Matches(msg, a.keys.Focus):
		a.focusedPanel = int(msg.Runes[0] - '1')
		a.updateFocusState()
		return a, nil
	case key.Matches(msg, a.keys.Connect):
		a.store.Connect()
	case key.Matches(msg, a.keys.Disconnect):
		a.store.Disconnect()
	case key.Matches(msg, a.keys.OpenEnv):
		a.store.OpenEnvironment()
	case key.Matches(msg, a.keys.CloseEnv):
		a.store.CloseEnvironment()
	case key.Matches(msg, a.keys.Destroy):
		a.store.ToggleEnvDestroy()
	case key.Matches(msg, a.keys.Start):
		a.store.Start()
	case key.Matches(msg, a.keys.Stop):
		a.store.Stop()
	case key.Matches(msg, a.keys.Editor):
		if a.editor == nil {
			a.editor = panels.NewPlanEditor(a.width, a.height)
		}
		a.editorOpen = true
		return a, a.editor.Init()
	default:
		return a.routeKey(msg)
	}
	a.syncState()
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, "Loading...")
	}

	if a.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%d×%d)\nMinimum: %d×%d",
			a.width, a.height, layout.MinWidth, layout.MinHeight)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, msg)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, a.controls.View(), a.queueList.View(), a.history.View())
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, a.runViewer.View(), a.console.View())
	full := lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, a.statusBar.View())

	var modal string
	switch {
	case a.helpOverlay != nil:
		modal = a.helpOverlay.View()
	case a.editorOpen:
		modal = a.editor.View()
	}
	if modal != "" {
		full = lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(styles.Faint),
		)
	}
	return full
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focusedPanel {
	case panelQueue:
		a.queueList, cmd = a.queueList.Update(msg)
	case panelHistory:
		a.history, cmd = a.history.Update(msg)
	case panelRunViewer:
		a.runViewer, cmd = a.runViewer.Update(msg)
	case panelConsole:
		a.console, cmd = a.console.Update(msg)
	}
	return a, cmd
}

// openRun starts loading uid into the run viewer. The fetch runs off the
// update loop and reports back with a RunDocumentsMsg.
func (a *App) openRun(uid string) tea.Cmd {
	a.runViewer.Open(uid)
	a.focusedPanel = panelRunViewer
	a.updateFocusState()
	fetcher, timeout := a.fetcher, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		docs, err := fetcher.FetchDocuments(ctx, uid)
		return RunDocumentsMsg{UID: uid, Docs: docs, Err: err}
	}
}

func (a *App) resolveRun(msg RunDocumentsMsg) tea.Cmd {
	switch a.runViewer.Resolve(msg.UID, msg.Docs, msg.Err) {
	case rundocs.Stale:
		log.Printf("discarding stale documents for run %s", msg.UID)
		return nil
	case rundocs.Failed:
		log.Printf("fetch run %s: %v", msg.UID, msg.Err)
		return nil
	}
	return a.flash(fmt.Sprintf("Loaded %d documents", len(a.runViewer.Documents())), panels.FlashInfo)
}

func (a *App) handleLive(msg LiveMsg) tea.Cmd {
	a.liveCount++
	a.liveActive = true
	a.statusBar.SetLive(a.liveActive, a.liveCount)
	if msg.Doc == nil {
		return nil
	}
	if msg.Doc.Kind() == "start" && msg.Doc.UID() != "" {
		a.latestRun = msg.Doc.UID()
	}
	a.runViewer.Push(msg.Doc)
	if a.config.UI.ShowLiveInConsole != nil && *a.config.UI.ShowLiveInConsole {
		a.store.Log("live: " + msg.Doc.Summary())
		a.syncState()
	}
	return nil
}

func (a *App) exportRun(toClipboard bool) tea.Cmd {
	uid := a.runViewer.OpenUID()
	if uid == "" {
		return a.flash("No run open", panels.FlashWarning)
	}
	docs := append([]rundocs.Document(nil), a.runViewer.Documents()...)
	dir := a.config.Export.Dir
	return func() tea.Msg {
		if toClipboard {
			data, err := rundocs.MarshalExport(uid, docs)
			if err != nil {
				return exportDoneMsg{UID: uid, Clipboard: true, Err: err}
			}
			osc, err := clipboard.Write(string(data))
			return exportDoneMsg{UID: uid, Count: len(docs), Clipboard: true, OSC52: osc, Err: err}
		}
		path, err := rundocs.WriteExport(dir, uid, docs)
		return exportDoneMsg{UID: uid, Path: path, Count: len(docs), Err: err}
	}
}

func (a *App) flash(text string, level panels.FlashLevel) tea.Cmd {
	a.statusBar.SetFlashWithLevel(text, level)
	return tea.Tick(panels.FlashDuration(), func(time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}

func (a *App) syncState() {
	st := a.store.State()
	a.controls.SetState(st)
	a.queueList.SetPlans(st.Queue)
	a.history.SetItems(st.History)
	a.console.SetLines(st.Logs)
	a.statusBar.SetState(st)
	a.statusBar.SetLive(a.liveActive, a.liveCount)
}

func (a *App) propagateSizes() {
	l := a.layout
	a.controls.SetSize(l.Controls.Width, l.Controls.Height)
	a.queueList.SetSize(l.Queue.Width, l.Queue.Height)
	a.history.SetSize(l.History.Width, l.History.Height)
	a.runViewer.SetSize(l.RunViewer.Width, l.RunViewer.Height)
	a.console.SetSize(l.Console.Width, l.Console.Height)
	a.statusBar.SetSize(l.StatusBar)
}

func (a *App) updateFocusState() {
	a.queueList.SetFocused(a.focusedPanel == panelQueue)
	a.history.SetFocused(a.focusedPanel == panelHistory)
	a.runViewer.SetFocused(a.focusedPanel == panelRunViewer)
	a.console.SetFocused(a.focusedPanel == panelConsole)
}

func listenForChanges(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return StoreUpdatedMsg{}
	}
}
