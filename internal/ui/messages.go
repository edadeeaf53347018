package ui

import (
	"github.com/bluesky/qmon/internal/events"
	"github.com/bluesky/qmon/internal/rundocs"
	"github.com/bluesky/qmon/internal/ui/panels"
)

// Aliases so callers outside panels can match these messages.

// StoreUpdatedMsg is sent when the queue store changes.
type StoreUpdatedMsg = panels.StoreUpdatedMsg

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg = panels.CloseModalMsg

// ClearFlashMsg clears the status bar flash.
type ClearFlashMsg = panels.ClearFlashMsg

// LiveMsg carries one decoded server push into the update loop.
type LiveMsg struct {
	Event string
	Doc   rundocs.Document
}

// NewLiveMsg converts a subscriber message. Non-object payloads yield a nil
// Doc; they are still counted and logged.
func NewLiveMsg(m events.Message) LiveMsg {
	doc, _ := rundocs.FromAny(m.Data)
	return LiveMsg{Event: m.Event, Doc: doc}
}

// LiveStatusMsg reports the state of the event feed.
type LiveStatusMsg struct {
	Active bool
	Err    error
}

// RunDocumentsMsg is the result of a run document fetch.
type RunDocumentsMsg struct {
	UID  string
	Docs []rundocs.Document
	Err  error
}

type exportDoneMsg struct {
	UID       string
	Path      string
	Count     int
	Clipboard bool
	OSC52     bool
	Err       error
}

type yankDoneMsg struct {
	Label string
	OSC52 bool
	Err   error
}
