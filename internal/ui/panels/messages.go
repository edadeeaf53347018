package panels

import "github.com/bluesky/qmon/internal/queue"

// StoreUpdatedMsg is sent after the queue store changes.
type StoreUpdatedMsg struct{}

// CloseModalMsg closes the help overlay or plan editor.
type CloseModalMsg struct{}

// ClearFlashMsg clears the status bar flash.
type ClearFlashMsg struct{}

// YankMsg asks the app to copy Text to the clipboard.
type YankMsg struct {
	Text  string
	Label string
}

type AddPlanMsg struct{}

type RemovePlanMsg struct {
	ID string
}

type ClearQueueMsg struct{}

type RerunMsg struct {
	Item queue.HistoryItem
}

// OpenRunMsg asks the app to fetch and display run UID.
type OpenRunMsg struct {
	UID string
}

// FollowLiveMsg opens the most recent run seen on the live feed.
type FollowLiveMsg struct{}

type CloseRunMsg struct{}

// ExportRunMsg writes the open run to a file, or to the clipboard.
type ExportRunMsg struct {
	Clipboard bool
}

// SavePlanMsg carries the plan editor's content.
type SavePlanMsg struct {
	Code string
}
