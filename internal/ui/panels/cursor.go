package panels

import "time"

const gTimeout = 300 * time.Millisecond

// GTimerExpiredMsg is sent when the gg double-tap window expires.
type GTimerExpiredMsg struct{}

// listCursor tracks the selected row and scroll offset of a list panel.
type listCursor struct {
	selected int
	offset   int
	lastG    time.Time
}

func (c *listCursor) move(delta, n int) {
	c.selected += delta
	c.clamp(n)
}

func (c *listCursor) top() { c.selected = 0 }

func (c *listCursor) bottom(n int) { c.selected = max(n-1, 0) }

// g handles the first or second g of gg and reports whether it jumped.
func (c *listCursor) g(now time.Time) bool {
	if !c.lastG.IsZero() && now.Sub(c.lastG) < gTimeout {
		c.lastG = time.Time{}
		c.top()
		return true
	}
	c.lastG = now
	return false
}

func (c *listCursor) clamp(n int) {
	if c.selected >= n {
		c.selected = n - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

// scroll keeps the selection inside a window of visible rows.
func (c *listCursor) scroll(visible, n int) {
	if visible <= 0 {
		return
	}
	if c.selected < c.offset {
		c.offset = c.selected
	}
	if c.selected >= c.offset+visible {
		c.offset = c.selected - visible + 1
	}
	c.offset = min(c.offset, max(n-visible, 0))
	c.offset = max(c.offset, 0)
}

// window returns the [start, end) rows to draw.
func (c listCursor) window(visible, n int) (int, int) {
	return c.offset, min(c.offset+visible, n)
}
