package events

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 4 * 1024 * 1024

// frame is one dispatched server-sent event.
type frame struct {
	Event string
	ID    string
	Data  []string
}

func (f frame) payload() string {
	return strings.Join(f.Data, "\n")
}

// readFrames scans an event stream and calls fn for every complete frame.
// A frame is dispatched on a blank line and only if it carried data; a
// trailing frame without its blank line is dropped.
func readFrames(r io.Reader, fn func(frame)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var cur frame
	hasData := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if hasData {
				fn(cur)
			}
			cur = frame{}
			hasData = false
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			cur.Data = append(cur.Data, value)
			hasData = true
		case "event":
			cur.Event = value
		case "id":
			cur.ID = value
		}
	}

	return scanner.Err()
}
