package text

import (
	"fmt"
	"strings"
)

// Count formats n with a singular or plural noun: "1 plan", "3 plans".
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Percent formats a 0..100 progress value.
func Percent(p int) string {
	return fmt.Sprintf("%d%%", min(max(p, 0), 100))
}

// ShortID keeps the first n runes of an id for compact list columns.
func ShortID(id string, n int) string {
	r := []rune(id)
	if n <= 0 || len(r) <= n {
		return id
	}
	return string(r[:n])
}

// Lines splits s on newlines, dropping a single trailing empty line.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
