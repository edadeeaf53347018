package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bluesky/qmon/internal/config"
	"github.com/bluesky/qmon/internal/events"
	"github.com/bluesky/qmon/internal/ui"
	"github.com/bluesky/qmon/internal/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	styles.ApplyTheme(cfg.UI.Theme)

	app := ui.NewApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	feed := events.NewFeed(events.Options{URL: cfg.EventsURL()})
	defer feed.Close()
	sub := feed.Bind(ctx, func(m events.Message) {
		p.Send(ui.NewLiveMsg(m))
	})
	go watchFeed(ctx, p, sub)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// watchFeed reports the subscription's lifetime to the dashboard.
func watchFeed(ctx context.Context, p *tea.Program, sub *events.Subscription) {
	select {
	case <-sub.Done():
		p.Send(ui.LiveStatusMsg{Active: false, Err: sub.Err()})
		return
	default:
	}
	p.Send(ui.LiveStatusMsg{Active: true})

	select {
	case <-ctx.Done():
	case <-sub.Done():
		p.Send(ui.LiveStatusMsg{Active: false, Err: sub.Err()})
	}
}

// setupLogging sends the standard logger to the log file while the
// dashboard owns the terminal. With no usable path logs are discarded.
func setupLogging(cfg *config.Config) (func(), error) {
	path := cfg.LogPath()
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "qmon")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { f.Close() }, nil
}
