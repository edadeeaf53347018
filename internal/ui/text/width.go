// Package text holds ANSI-aware helpers for fitting strings into cells.
package text

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to width columns, ending in "…" when anything was cut.
// Escape sequences do not count toward the width and are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width. Wider strings are returned as is.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Fit truncates or pads s to exactly width columns.
func Fit(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}

// Wrap breaks s into lines no wider than width. Words are kept whole when
// they fit; longer words are split. Existing newlines are respected.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
