// Package layout splits the terminal between the dashboard panels.
package layout

// Rect is a panel's outer size including its frame.
type Rect struct {
	Width  int
	Height int
}

// Layout holds the size of every panel for one terminal size.
//
//	controls | queue | history
//	run viewer       | console
//	status bar
type Layout struct {
	TermWidth  int
	TermHeight int
	TooSmall   bool

	Controls  Rect
	Queue     Rect
	History   Rect
	RunViewer Rect
	Console   Rect
	StatusBar int
}

const (
	MinWidth  = 80
	MinHeight = 24

	TopRowWeight    = 0.45
	ControlsWeight  = 0.34
	QueueWeight     = 0.33
	RunViewerWeight = 0.55
)

// Calculate sizes all panels. One row is kept for the status bar.
func Calculate(width, height int) Layout {
	l := Layout{TermWidth: width, TermHeight: height}
	if width < MinWidth || height < MinHeight {
		l.TooSmall = true
		return l
	}

	usable := height - 1
	top := int(float64(usable) * TopRowWeight)
	bottom := usable - top

	controlsW := int(float64(width) * ControlsWeight)
	queueW := int(float64(width) * QueueWeight)
	historyW := width - controlsW - queueW

	viewerW := int(float64(width) * RunViewerWeight)
	consoleW := width - viewerW

	l.Controls = Rect{controlsW, top}
	l.Queue = Rect{queueW, top}
	l.History = Rect{historyW, top}
	l.RunViewer = Rect{viewerW, bottom}
	l.Console = Rect{consoleW, bottom}
	l.StatusBar = width
	return l
}
