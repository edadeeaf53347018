package styles

import (
	"github.com/bluesky/qmon/internal/queue"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive palette. Light values are used on light terminals and with the
// "light" theme.
var (
	FrameActive   = lipgloss.AdaptiveColor{Light: "#2e5cb8", Dark: "#7aa2f7"}
	FrameIdle     = lipgloss.AdaptiveColor{Light: "#c0c0c0", Dark: "#3b4261"}
	Heading       = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	HintKey       = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	HintLabel     = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	Body          = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	Muted         = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	Faint         = lipgloss.AdaptiveColor{Light: "#b0b0b0", Dark: "#3b4261"}
	CursorBg      = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#292e42"}
	Accent        = lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bb9af7"}
	Online        = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#9ece6a"}
	Offline       = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
	Busy          = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	Caution       = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	Waiting       = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	JSONKey       = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	ProgressStart = "#5a56e0"
	ProgressEnd   = "#7aa2f7"
)

// ConnectionColor is green when connected and red otherwise.
func ConnectionColor(c queue.Connection) lipgloss.AdaptiveColor {
	if c == queue.Connected {
		return Online
	}
	return Offline
}

// OutcomeColor colors a history entry by its result.
func OutcomeColor(success bool) lipgloss.AdaptiveColor {
	if success {
		return Online
	}
	return Offline
}

// KindColor picks a color for a run document kind.
func KindColor(kind string) lipgloss.AdaptiveColor {
	switch kind {
	case "start":
		return Online
	case "stop":
		return Offline
	case "descriptor":
		return Accent
	case "event", "event_page":
		return Busy
	case "resource", "datum", "datum_page":
		return Caution
	}
	return Muted
}
