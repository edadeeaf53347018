package panels

import (
	"strings"
	"testing"

	"github.com/bluesky/qmon/internal/queue"
)

func TestControlsOffline(t *testing.T) {
	c := NewControls()
	c.SetSize(40, 12)

	view := c.View()
	for _, want := range []string{"Controls", "OFFLINE", "Unknown", "closed", "idle", "none"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestControlsRunningPlan(t *testing.T) {
	st := queue.New().Connect().OpenEnvironment().ToggleEnvDestroy().AddPlan("p1").Start()

	c := NewControls()
	c.SetSize(40, 12)
	c.SetState(st)

	view := c.View()
	for _, want := range []string{"ONLINE", "Connected", "open", "on", "running", "Plan 1", "(Running)", "0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestControlsSpinnerTicks(t *testing.T) {
	c := NewControls()
	msg := c.Tick()()
	_, cmd := c.Update(msg)
	if cmd == nil {
		t.Error("expected the spinner to schedule its next tick")
	}
}
