package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/queue"
	"github.com/bluesky/qmon/internal/ui/styles"
	"github.com/bluesky/qmon/internal/ui/text"
	"github.com/charmbracelet/lipgloss"
)

const flashDurationVal = 5 * time.Second

// Version is set via -ldflags at build time. Falls back to "dev".
var Version = "dev"

// FlashDuration returns how long the status bar flash is shown.
func FlashDuration() time.Duration { return flashDurationVal }

// FlashLevel controls the icon and color of a status bar flash message.
type FlashLevel int

const (
	FlashInfo    FlashLevel = iota // blue ●
	FlashSuccess                   // green ✓
	FlashWarning                   // yellow ⚠
	FlashError                     // red ✗
)

type StatusBar struct {
	width      int
	state      queue.State
	live       bool
	liveCount  int
	flash      string
	flashLevel FlashLevel
	flashUntil time.Time
}

func NewStatusBar() StatusBar {
	return StatusBar{state: queue.New()}
}

func (s *StatusBar) SetState(st queue.State) {
	s.state = st
}

// SetLive records whether the event feed is bound and how many live
// messages have arrived.
func (s *StatusBar) SetLive(active bool, count int) {
	s.live = active
	s.liveCount = count
}

func (s StatusBar) View() string {
	sep := styles.FaintStyle.Render(" │ ")
	st := s.state

	appName := styles.MutedStyle.Render("qmon " + Version)

	conn := lipgloss.NewStyle().Foreground(styles.ConnectionColor(st.Connection)).Render(string(st.Connection))

	counts := fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(styles.Waiting).Render(fmt.Sprintf("%d queued", len(st.Queue))),
		styles.MutedStyle.Render(fmt.Sprintf("%d done", len(st.History))),
	)

	var live string
	if s.live {
		live = lipgloss.NewStyle().Foreground(styles.Online).Render(fmt.Sprintf("live %d", s.liveCount))
	} else {
		live = styles.FaintStyle.Render("live off")
	}

	left := " " + appName + sep + conn + sep + counts + sep + live

	if s.flash != "" && time.Now().Before(s.flashUntil) {
		var icon string
		var color lipgloss.TerminalColor
		switch s.flashLevel {
		case FlashSuccess:
			icon, color = "✓", styles.Online
		case FlashError:
			icon, color = "✗", styles.Offline
		case FlashWarning:
			icon, color = "⚠", styles.Caution
		default:
			icon, color = "●", styles.Busy
		}
		left += sep + lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon+" "+s.flash)
	}

	right := styles.MutedStyle.Render("?:help") + " "

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return text.Truncate(left+strings.Repeat(" ", gap)+right, max(s.width, 1))
}

func (s *StatusBar) SetFlashWithLevel(msg string, level FlashLevel) {
	s.flash = msg
	s.flashLevel = level
	s.flashUntil = time.Now().Add(flashDurationVal)
}

func (s *StatusBar) ClearFlash() {
	s.flash = ""
	s.flashLevel = FlashInfo
	s.flashUntil = time.Time{}
}

// Flash returns the message currently shown, if any.
func (s StatusBar) Flash() string {
	if time.Now().Before(s.flashUntil) {
		return s.flash
	}
	return ""
}

func (s *StatusBar) SetSize(w int) {
	s.width = w
}
