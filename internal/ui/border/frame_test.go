package border

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHintWidth(t *testing.T) {
	tests := []struct {
		hint Hint
		want int
	}{
		{Hint{Key: "a", Label: "dd"}, 5},
		{Hint{Key: "Esc", Label: " close"}, 11},
		{Hint{Key: "⏎", Label: " view"}, 8},
	}
	for _, tt := range tests {
		if got := tt.hint.Width(); got != tt.want {
			t.Errorf("%+v.Width() = %d, want %d", tt.hint, got, tt.want)
		}
		if got := lipgloss.Width(tt.hint.Render()); got != tt.want {
			t.Errorf("rendered width of %+v = %d, want %d", tt.hint, got, tt.want)
		}
	}
}

func TestFrameDimensions(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		content string
	}{
		{"empty", Frame{Width: 20, Height: 4}, ""},
		{"titled", Frame{Title: "Queue", Width: 30, Height: 6, Focused: true}, "line 1\nline 2"},
		{"crop", Frame{Width: 20, Height: 5}, strings.Repeat("content line\n", 20)},
		{"long line", Frame{Width: 20, Height: 3}, "this is a very long line that should be cut"},
		{"hints", Frame{Width: 30, Height: 4, Focused: true, Hints: []Hint{{"a", "dd"}, {"d", "elete"}}}, "x"},
		{"hint overflow", Frame{Width: 24, Height: 4, Focused: true, Hints: []Hint{
			{"⏎", " view"}, {"j/k", " scroll"}, {"e", "xport"}, {"y", "ank"}, {"o", "pen"},
		}}, "x"},
		{"long title", Frame{Title: "A title far wider than the frame", Width: 12, Height: 3}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(tt.frame.Render(tt.content), "\n")
			if len(lines) != tt.frame.Height {
				t.Fatalf("got %d lines, want %d", len(lines), tt.frame.Height)
			}
			for i, line := range lines {
				if w := lipgloss.Width(line); w != tt.frame.Width {
					t.Errorf("line %d width %d, want %d: %q", i, w, tt.frame.Width, line)
				}
			}
		})
	}
}

func TestFrameTitleAndCorners(t *testing.T) {
	out := Frame{Title: "History", Width: 30, Height: 3}.Render("")
	if !strings.Contains(out, "History") {
		t.Error("missing title")
	}
	for _, c := range []string{"╭", "╮", "╰", "╯"} {
		if !strings.Contains(out, c) {
			t.Errorf("missing corner %s", c)
		}
	}
}

func TestFrameHintsOnlyWhenFocused(t *testing.T) {
	hints := []Hint{{Key: "r", Label: "erun"}}
	focused := Frame{Width: 30, Height: 3, Focused: true, Hints: hints}.Render("")
	idle := Frame{Width: 30, Height: 3, Hints: hints}.Render("")
	if !strings.Contains(focused, "erun") {
		t.Error("focused frame should show hints")
	}
	if strings.Contains(idle, "erun") {
		t.Error("unfocused frame should hide hints")
	}
}

func TestFrameTooSmall(t *testing.T) {
	if got := (Frame{Width: 1, Height: 5}).Render("x"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
