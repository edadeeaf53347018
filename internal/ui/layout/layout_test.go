package layout

import "testing"

func TestCalculateTooSmall(t *testing.T) {
	for _, sz := range [][2]int{{79, 40}, {120, 23}, {0, 0}} {
		if l := Calculate(sz[0], sz[1]); !l.TooSmall {
			t.Errorf("Calculate(%d, %d) should be too small", sz[0], sz[1])
		}
	}
}

func TestCalculateFillsTerminal(t *testing.T) {
	for _, sz := range [][2]int{{80, 24}, {120, 40}, {201, 57}} {
		w, h := sz[0], sz[1]
		l := Calculate(w, h)
		if l.TooSmall {
			t.Fatalf("Calculate(%d, %d) too small", w, h)
		}
		if got := l.Controls.Width + l.Queue.Width + l.History.Width; got != w {
			t.Errorf("%dx%d: top row width %d", w, h, got)
		}
		if got := l.RunViewer.Width + l.Console.Width; got != w {
			t.Errorf("%dx%d: bottom row width %d", w, h, got)
		}
		if got := l.Controls.Height + l.RunViewer.Height + 1; got != h {
			t.Errorf("%dx%d: height %d", w, h, got)
		}
		if l.Queue.Height != l.Controls.Height || l.History.Height != l.Controls.Height {
			t.Errorf("%dx%d: top row heights differ", w, h)
		}
		if l.Console.Height != l.RunViewer.Height {
			t.Errorf("%dx%d: bottom row heights differ", w, h)
		}
		if l.StatusBar != w {
			t.Errorf("%dx%d: status bar %d", w, h, l.StatusBar)
		}
	}
}

func TestCalculateMinimumPanelsUsable(t *testing.T) {
	l := Calculate(MinWidth, MinHeight)
	for name, r := range map[string]Rect{
		"controls": l.Controls, "queue": l.Queue, "history": l.History,
		"viewer": l.RunViewer, "console": l.Console,
	} {
		if r.Width < 20 || r.Height < 8 {
			t.Errorf("%s too small at minimum size: %+v", name, r)
		}
	}
}
