package ui

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bluesky/qmon/internal/config"
	"github.com/bluesky/qmon/internal/queue"
	"github.com/bluesky/qmon/internal/rundocs"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

const waitDuration = 3 * time.Second

// fakeFetcher serves canned run documents and records requests.
type fakeFetcher struct {
	mu    sync.Mutex
	runs  map[string][]rundocs.Document
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{runs: map[string][]rundocs.Document{
		"run-a": {
			{"uid": "run-a", "time": 1.0, "plan_name": "count"},
			{"uid": "desc-a", "run_start": "run-a", "data_keys": map[string]any{}},
		},
		"run-b": {
			{"uid": "run-b", "time": 2.0, "plan_name": "scan"},
		},
	}}
}

func (f *fakeFetcher) FetchDocuments(_ context.Context, uid string) ([]rundocs.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, uid)
	docs, ok := f.runs[uid]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return docs, nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "plan-" + string(rune('0'+n))
	}
}

func newTestApp() App {
	cfg := config.DefaultConfig()
	return NewApp(&cfg,
		WithFetcher(newFakeFetcher()),
		WithStore(queue.NewStore(queue.WithIDFunc(sequentialIDs()))),
	)
}

// appAdapter wraps the App (value receiver model) into a model that
// suppresses Init() side effects (store listener, spinner ticks) so the
// teatest program doesn't block forever on channel reads.
type appAdapter struct {
	app App
}

func newTestAppAdapter(tb testing.TB) *appAdapter {
	tb.Helper()
	return &appAdapter{app: newTestApp()}
}

func (a *appAdapter) Init() tea.Cmd {
	return nil
}

func (a *appAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.app.Update(msg)
	a.app = m.(App)
	return a, cmd
}

func (a *appAdapter) View() string {
	return a.app.View()
}

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
