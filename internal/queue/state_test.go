package queue

import (
	"math/rand"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewState(t *testing.T) {
	s := New()
	if s.IsConnected() || s.EnvOpen() || s.IsRunning() {
		t.Fatalf("expected disconnected/closed/idle, got %+v", s)
	}
	if s.Status != StatusUnknown {
		t.Errorf("expected status %q, got %q", StatusUnknown, s.Status)
	}
}

func TestConnectDisconnectEndsInLastTarget(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		s := New()
		want := Disconnected
		for i := 0; i < 20; i++ {
			if r.Intn(2) == 0 {
				s = s.Connect()
				want = Connected
			} else {
				s = s.Disconnect()
				want = Disconnected
			}
		}
		if s.Connection != want {
			t.Fatalf("trial %d: expected %s, got %s", trial, want, s.Connection)
		}
	}
}

func TestConnectWhenConnectedIsNoop(t *testing.T) {
	s := New().Connect()
	again := s.Connect()
	if len(again.Logs) != len(s.Logs) {
		t.Errorf("expected no log line for repeated connect, got %v", again.Logs)
	}
	if again.Status != "Connected" {
		t.Errorf("expected status Connected, got %q", again.Status)
	}

	d := New().Disconnect()
	if len(d.Logs) != 0 || d.Status != StatusUnknown {
		t.Errorf("expected disconnect from disconnected to be a no-op, got %+v", d)
	}
}

func TestEnvironmentTransitions(t *testing.T) {
	s := New().OpenEnvironment()
	if !s.EnvOpen() {
		t.Fatal("expected environment open")
	}
	if last(s.Logs) != "Environment opened" {
		t.Errorf("unexpected log %q", last(s.Logs))
	}
	if n := len(s.OpenEnvironment().Logs); n != 1 {
		t.Errorf("expected repeated open to be a no-op, got %d logs", n)
	}
	s = s.CloseEnvironment()
	if s.EnvOpen() || last(s.Logs) != "Environment closed" {
		t.Errorf("expected closed environment with log, got %+v", s)
	}
}

func TestToggleEnvDestroy(t *testing.T) {
	s := New().ToggleEnvDestroy()
	if !s.EnvDestroy {
		t.Fatal("expected destroy activated")
	}
	if s.ToggleEnvDestroy().EnvDestroy {
		t.Fatal("expected destroy deactivated after second toggle")
	}
}

func TestStartWithEnvironmentClosedIsRejected(t *testing.T) {
	s := New().AddPlan("1").AddPlan("2")
	next := s.Start()

	if next.Execution != s.Execution {
		t.Errorf("execution changed: %s -> %s", s.Execution, next.Execution)
	}
	if len(next.Queue) != 2 || next.Queue[0].ID != "1" {
		t.Errorf("queue changed: %+v", next.Queue)
	}
	if len(next.Logs) != len(s.Logs)+1 {
		t.Fatalf("expected exactly one diagnostic line, got %v", next.Logs)
	}
	if last(next.Logs) != "Cannot start: environment is closed" {
		t.Errorf("unexpected diagnostic %q", last(next.Logs))
	}
}

func TestStartDequeuesHead(t *testing.T) {
	s := New().OpenEnvironment().AddPlan("a").AddPlan("b").AddPlan("c")
	s = s.Start()

	if !s.IsRunning() {
		t.Fatal("expected running")
	}
	if s.Running == nil || s.Running.ID != "a" {
		t.Fatalf("expected head 'a' running, got %+v", s.Running)
	}
	if len(s.Queue) != 2 || s.Queue[0].ID != "b" || s.Queue[1].ID != "c" {
		t.Errorf("expected queue [b c], got %+v", s.Queue)
	}
	if last(s.Logs) != "Started plan: Plan 1" {
		t.Errorf("unexpected log %q", last(s.Logs))
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	s := New().OpenEnvironment().AddPlan("a").AddPlan("b").Start()
	again := s.Start()
	if again.Running.ID != "a" || len(again.Queue) != 1 {
		t.Errorf("expected second start to be a no-op, got %+v", again)
	}
}

func TestStartWithEmptyQueue(t *testing.T) {
	s := New().OpenEnvironment().Start()
	if !s.IsRunning() {
		t.Error("expected running with empty queue")
	}
	if s.Running != nil {
		t.Errorf("expected no running plan, got %+v", s.Running)
	}
	s = s.Stop(testNow)
	if s.IsRunning() || len(s.History) != 0 {
		t.Errorf("expected idle with empty history, got %+v", s)
	}
}

func TestStopRecordsUnsuccessfulHistory(t *testing.T) {
	s := New().OpenEnvironment().AddPlan("a").Start()
	s = s.Stop(testNow)

	if s.IsRunning() {
		t.Error("expected idle after stop")
	}
	if s.Running != nil {
		t.Errorf("expected running plan cleared, got %+v", s.Running)
	}
	if len(s.History) != 1 {
		t.Fatalf("expected one history item, got %d", len(s.History))
	}
	h := s.History[0]
	if h.ID != "a" || h.Name != "Plan 1" || h.Success {
		t.Errorf("unexpected history item %+v", h)
	}
	if h.CompletedAt != "2026-03-14 09:30:00" {
		t.Errorf("unexpected completedAt %q", h.CompletedAt)
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	s := New().OpenEnvironment().AddPlan("a")
	next := s.Stop(testNow)
	if len(next.History) != 0 || len(next.Queue) != 1 {
		t.Errorf("expected no-op, got %+v", next)
	}
}

func TestStartStopExample(t *testing.T) {
	s := New().OpenEnvironment()
	s.Queue = []QueuedPlan{{ID: "1", Name: "Plan 1", Status: StatusQueued}}

	s = s.Start()
	want := RunningPlan{ID: "1", Name: "Plan 1", Progress: 0, Status: "Running"}
	if s.Running == nil || *s.Running != want {
		t.Fatalf("expected %+v, got %+v", want, s.Running)
	}
	if len(s.Queue) != 0 {
		t.Fatalf("expected empty queue, got %+v", s.Queue)
	}

	s = s.Stop(testNow)
	if len(s.History) != 1 || s.History[0].ID != "1" || s.History[0].Name != "Plan 1" || s.History[0].Success {
		t.Fatalf("unexpected history %+v", s.History)
	}
	if s.Running != nil {
		t.Fatal("expected running plan nil")
	}
}

func TestAddPlanNaming(t *testing.T) {
	s := New().AddPlan("x").AddPlan("y")
	if s.Queue[0].Name != "Plan 1" || s.Queue[1].Name != "Plan 2" {
		t.Errorf("unexpected names %+v", s.Queue)
	}
	if s.Queue[1].Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, s.Queue[1].Status)
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New().AddPlan("x").AddPlan("y").AddPlan("z")
	s = s.RemovePlan("y")
	if len(s.Queue) != 2 || s.Queue[0].ID != "x" || s.Queue[1].ID != "z" {
		t.Errorf("unexpected queue after remove %+v", s.Queue)
	}
	s = s.RemovePlan("missing")
	if len(s.Queue) != 2 {
		t.Errorf("expected remove of missing id to be a no-op")
	}
	if len(s.ClearQueue().Queue) != 0 {
		t.Error("expected clear to empty the queue")
	}
}

func TestRerunFromHistory(t *testing.T) {
	s := New().OpenEnvironment().AddPlan("a").Start().Stop(testNow)
	s = s.Rerun(s.History[0], "a2")

	if len(s.Queue) != 1 || s.Queue[0].ID != "a2" || s.Queue[0].Name != "Plan 1" {
		t.Errorf("unexpected queue after rerun %+v", s.Queue)
	}
	if last(s.Logs) != "Requeued plan from history: Plan 1" {
		t.Errorf("unexpected log %q", last(s.Logs))
	}
	if len(s.History) != 1 {
		t.Errorf("expected history untouched, got %+v", s.History)
	}
}

func TestTransitionsDoNotAliasPriorState(t *testing.T) {
	base := New().AddPlan("a").AddPlan("b")
	_ = base.AddPlan("c")
	_ = base.Rerun(HistoryItem{Name: "old"}, "d")
	if len(base.Queue) != 2 {
		t.Fatalf("prior state mutated: %+v", base.Queue)
	}

	started := base.OpenEnvironment().Start()
	withC := started.AddPlan("c")
	if len(started.Queue) != 1 || started.Queue[0].ID != "b" {
		t.Errorf("prior state mutated by later append: %+v", started.Queue)
	}
	if len(withC.Queue) != 2 {
		t.Errorf("expected 2 queued plans, got %+v", withC.Queue)
	}

	logged := base.AppendLog("one")
	_ = logged.AppendLog("two")
	_ = logged.AppendLog("three")
	if len(logged.Logs) != 1 {
		t.Errorf("log slice aliased: %v", logged.Logs)
	}
}

func last(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
