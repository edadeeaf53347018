// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal sequence when no native clipboard tool is available.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Native is the system clipboard writer. Tests swap it out.
var Native = clipboard.WriteAll

// Fallback receives the OSC 52 sequence when Native fails.
var Fallback io.Writer = os.Stderr

// Write copies text, reporting which path was used.
func Write(text string) (osc52 bool, err error) {
	if err := Native(text); err == nil {
		return false, nil
	}
	if _, err := io.WriteString(Fallback, OSC52(text)); err != nil {
		return true, fmt.Errorf("clipboard: osc52: %w", err)
	}
	return true, nil
}

// OSC52 builds the terminal escape that sets the clipboard to text.
func OSC52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
}
